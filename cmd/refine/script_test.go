package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/charactercut/refine"
	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/layers"
	"github.com/charactercut/refine/render"
)

func TestParseScript(t *testing.T) {
	sc, err := parseScript([]byte(`
mode: comparison
viewport: {width: 800, height: 600, panel_width: 200}
steps:
  - tool: smart-erase
    radius: 12
    pointer: pen
    pressure: 0.6
    points: [[1, 2], [3, 4]]
  - undo: 1
`))
	if err != nil {
		t.Fatalf("parseScript: %v", err)
	}
	if sc.Mode == nil || *sc.Mode != render.ViewComparison {
		t.Errorf("Mode = %v, want comparison", sc.Mode)
	}
	if len(sc.Steps) != 2 || sc.Steps[0].Tool == nil || *sc.Steps[0].Tool != brush.SmartErase {
		t.Fatalf("Steps = %+v", sc.Steps)
	}
	if got := sc.Steps[0].Points[1]; got != [2]float64{3, 4} {
		t.Errorf("Points[1] = %v, want [3 4]", got)
	}

	if _, err := parseScript([]byte("steps:\n  - pointer: stylus\n")); err == nil {
		t.Error("parseScript accepted an unknown pointer type")
	}
	if _, err := parseScript([]byte("steps:\n  - tool: lasso\n")); err == nil {
		t.Error("parseScript accepted an unknown tool")
	}
}

func TestRunScript(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	s, err := refine.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.LoadImages(img, img); err != nil {
		t.Fatal(err)
	}

	sc, err := parseScript([]byte(`
steps:
  - tool: erase
    radius: 2
    points: [[5, 5], [15, 5]]
  - points: [[5, 15]]
  - undo: 1
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := run(s, sc); err != nil {
		t.Fatalf("run: %v", err)
	}
	pv := s.Image(layers.Preview)
	if a := pv.NRGBAAt(10, 5).A; a != 0 {
		t.Errorf("alpha at (10,5) = %d, want erased", a)
	}
	if c := pv.NRGBAAt(5, 15); c != (color.NRGBA{200, 200, 200, 200}) {
		t.Errorf("pixel (5,15) = %v, want undone", c)
	}
}
