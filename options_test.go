package refine

import (
	"image/color"
	"testing"

	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/config"
	"github.com/charactercut/refine/render"
)

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	defer s.Close()

	if s.Tool() != brush.Restore {
		t.Errorf("Tool() = %v, want restore", s.Tool())
	}
	if got := s.Brush(); got != brush.DefaultConfig() {
		t.Errorf("Brush() = %+v, want %+v", got, brush.DefaultConfig())
	}
	if s.ViewMode() != render.ViewEdited {
		t.Errorf("ViewMode() = %v, want edited", s.ViewMode())
	}
	if s.hist.Limit() != 20 {
		t.Errorf("history limit = %d, want 20", s.hist.Limit())
	}
	if s.Initialized() {
		t.Error("Initialized() = true before Load")
	}
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
brush:
  tool: precision-erase
  radius: 33
history:
  limit: 7
viewport:
  mode: comparison
  panel_width: 240
`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(WithConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Tool() != brush.PrecisionErase {
		t.Errorf("Tool() = %v, want precision-erase", s.Tool())
	}
	if s.Brush().Radius != 33 {
		t.Errorf("Brush().Radius = %v, want 33", s.Brush().Radius)
	}
	if s.hist.Limit() != 7 {
		t.Errorf("history limit = %d, want 7", s.hist.Limit())
	}
	if s.ViewMode() != render.ViewComparison || s.Viewport().PanelWidth != 240 {
		t.Errorf("view = %v, %+v", s.ViewMode(), s.Viewport())
	}
}

func TestOptionsOverrideConfig(t *testing.T) {
	s, err := NewSession(
		WithConfig(config.Default()),
		WithTool(brush.Erase),
		WithTool(brush.Kind(50)),
		WithHistoryLimit(3),
		WithViewMode(render.ViewOriginal),
		WithBrush(brush.Config{Radius: 999, Opacity: 0.25, Hardness: 1}),
		WithPoolSize(-1),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Tool() != brush.Erase {
		t.Errorf("Tool() = %v, want erase", s.Tool())
	}
	if s.hist.Limit() != 3 {
		t.Errorf("history limit = %d, want 3", s.hist.Limit())
	}
	if s.ViewMode() != render.ViewOriginal {
		t.Errorf("ViewMode() = %v", s.ViewMode())
	}
	if b := s.Brush(); b.Opacity != 0.25 {
		t.Errorf("Brush().Opacity = %v, want 0.25", b.Opacity)
	}
	if s.opts.poolSize != 4 {
		t.Errorf("poolSize = %d, want 4", s.opts.poolSize)
	}
}

func TestWithViewportDefaultsDivider(t *testing.T) {
	s := newLoadedSession(t,
		WithViewport(render.Viewport{Width: 202, Height: 100}),
		WithViewMode(render.ViewComparison),
	)
	target := render.NewPixmapTarget(202, 100)
	if err := s.Render(target); err != nil {
		t.Fatalf("Render: %v", err)
	}
	divider := color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	for _, x := range []int{100, 101} {
		if got := target.PixelAt(x, 50); got != divider {
			t.Errorf("PixelAt(%d, 50) = %v, want divider %v", x, got, divider)
		}
	}
	panels := s.Viewport().Layout(render.ViewComparison, testW, testH)
	if len(panels) != 2 || panels[1].Area.X != 102 {
		t.Errorf("right panel = %+v, want X 102", panels[1].Area)
	}
}
