package refine

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/history"
	imgio "github.com/charactercut/refine/internal/image"
	"github.com/charactercut/refine/layers"
	"github.com/charactercut/refine/render"
)

// Session is one refinement job: a photo, its cut-out and the edits made
// on top of it.
//
// Session is not safe for concurrent use.
type Session struct {
	opts options

	pool     *imgio.Pool
	stack    *layers.Stack
	engine   *brush.Engine
	hist     *history.Manager
	renderer *render.Renderer

	brush    brush.Config
	tool     brush.Kind
	dynamics brush.Dynamics
	viewport render.Viewport
	mode     render.ViewMode

	stroke stroke

	// version increases on every visible change; framed is the version
	// last drawn by Frame.
	version   uint64
	framed    uint64
	frameSize image.Point

	closed bool
}

// NewSession creates a session without images. Load or LoadImages must be
// called before the tools have any effect.
func NewSession(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	hist, err := history.New(o.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	pool := imgio.NewPool(o.poolSize)
	s := &Session{
		opts:     o,
		pool:     pool,
		hist:     hist,
		renderer: render.NewRenderer(pool),
		tool:     o.tool,
		dynamics: o.dynamics,
		viewport: o.viewport,
		mode:     o.mode,
		version:  1,
	}
	s.brush = brushConfig(o.brush)
	return s, nil
}

// brushConfig normalizes cfg the same way the engine does.
func brushConfig(cfg brush.Config) brush.Config {
	return brush.NewEngine(nil, cfg).Config()
}

// Load decodes the original photo and the processed cut-out and makes them
// the session images. Both may be raw encoded bytes or data URIs. On error
// the previous images, if any, stay in place.
func (s *Session) Load(ctx context.Context, original, processed []byte) error {
	if s.closed {
		return ErrClosed
	}
	orig, _, err := imgio.Decode(ctx, original, s.opts.limits)
	if err != nil {
		return s.loadFailed(ctx, "original", err)
	}
	proc, _, err := imgio.Decode(ctx, processed, s.opts.limits)
	if err != nil {
		return s.loadFailed(ctx, "processed", err)
	}
	return s.LoadImages(orig, proc)
}

func (s *Session) loadFailed(ctx context.Context, which string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	ie := newInitError(which, err)
	Logger().Warn("refine: load failed", "image", which, "kind", ie.Kind.String(), "err", err)
	s.emit(Status{Kind: StatusError, Err: ie})
	return ie
}

// LoadImages is like Load for already decoded images.
func (s *Session) LoadImages(original, processed image.Image) error {
	if s.closed {
		return ErrClosed
	}
	if original == nil {
		return s.loadFailed(context.Background(), "original", layers.ErrNilImage)
	}
	if processed == nil {
		return s.loadFailed(context.Background(), "processed", layers.ErrNilImage)
	}
	stack, err := layers.New(original, processed)
	if err != nil {
		which := "original"
		if !original.Bounds().Empty() {
			which = "processed"
		}
		return s.loadFailed(context.Background(), which, err)
	}

	s.renderer.Purge()
	s.stack = stack
	s.engine = brush.NewEngine(stack, s.brush)
	s.stroke = stroke{}
	s.hist.Clear()
	s.touch()

	if stack.Resampled() {
		pb := processed.Bounds()
		Logger().Warn("refine: processed image resampled",
			"from", fmt.Sprintf("%dx%d", pb.Dx(), pb.Dy()),
			"to", fmt.Sprintf("%dx%d", stack.Width(), stack.Height()))
	}
	Logger().Info("refine: session initialized", "width", stack.Width(), "height", stack.Height())
	s.emit(Status{Kind: StatusReady, Width: stack.Width(), Height: stack.Height(), Resampled: stack.Resampled()})
	return nil
}

// Initialized reports whether images are loaded.
func (s *Session) Initialized() bool {
	return s.stack != nil && !s.closed
}

// Size returns the image size, or zero before initialization.
func (s *Session) Size() (width, height int) {
	if s.stack == nil {
		return 0, 0
	}
	return s.stack.Width(), s.stack.Height()
}

// Tool returns the active tool.
func (s *Session) Tool() brush.Kind { return s.tool }

// SetTool selects the tool used by the next stroke.
func (s *Session) SetTool(k brush.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("refine: %w: %v", brush.ErrUnknownTool, k)
	}
	s.tool = k
	return nil
}

// Brush returns the current brush settings.
func (s *Session) Brush() brush.Config { return s.brush }

// SetBrush replaces the brush settings. Out-of-range values are clamped.
func (s *Session) SetBrush(cfg brush.Config) {
	s.brush = brushConfig(cfg)
	if s.engine != nil {
		s.engine.SetConfig(s.brush)
	}
}

// SetBrushRadius sets the brush radius, clamped to the configured range,
// and returns the value in effect.
func (s *Session) SetBrushRadius(r float64) float64 {
	cfg := s.brush
	cfg.Radius = r
	s.SetBrush(cfg)
	return s.brush.Radius
}

// SetOpacity sets the brush opacity, clamped to [0, 1].
func (s *Session) SetOpacity(v float64) {
	cfg := s.brush
	cfg.Opacity = v
	s.SetBrush(cfg)
}

// SetHardness sets the brush hardness, clamped to [0, 1].
func (s *Session) SetHardness(v float64) {
	cfg := s.brush
	cfg.Hardness = v
	s.SetBrush(cfg)
}

// SetDynamics replaces the velocity sizing settings.
func (s *Session) SetDynamics(d brush.Dynamics) { s.dynamics = d }

// ViewMode returns the current view mode.
func (s *Session) ViewMode() render.ViewMode { return s.mode }

// SetViewMode switches what frames show.
func (s *Session) SetViewMode(m render.ViewMode) {
	if m != s.mode {
		s.mode = m
		s.touch()
	}
}

// Viewport returns the current viewport.
func (s *Session) Viewport() render.Viewport { return s.viewport }

// SetViewport records the host surface size and the width of its tool
// panel. Pointer mapping uses the new size from the next event on.
func (s *Session) SetViewport(width, height, panelWidth float64) {
	v := s.viewport
	v.Width, v.Height, v.PanelWidth = width, height, panelWidth
	s.SetViewportConfig(v)
}

// SetViewportConfig replaces the whole viewport description.
func (s *Session) SetViewportConfig(v render.Viewport) {
	if v != s.viewport {
		s.viewport = v
		s.touch()
	}
}

// ScreenToBuffer maps a surface position to image coordinates. Before a
// viewport size is set, surface and image coordinates coincide.
func (s *Session) ScreenToBuffer(sx, sy float64) (x, y float64, ok bool) {
	if s.stack == nil {
		return 0, 0, false
	}
	if s.viewport.Width == 0 && s.viewport.Height == 0 {
		return sx, sy, !math.IsNaN(sx) && !math.IsNaN(sy)
	}
	return s.viewport.ScreenToBuffer(s.mode, s.stack.Width(), s.stack.Height(), sx, sy)
}

// BufferToScreen maps image coordinates to a surface position in the panel
// showing the preview.
func (s *Session) BufferToScreen(x, y float64) (sx, sy float64) {
	if s.stack == nil || (s.viewport.Width == 0 && s.viewport.Height == 0) {
		return x, y
	}
	return s.viewport.BufferToScreen(s.mode, s.stack.Width(), s.stack.Height(), x, y)
}

// CanUndo reports whether Undo would change the preview.
func (s *Session) CanUndo() bool { return s.Initialized() && s.hist.CanUndo() }

// CanRedo reports whether Redo would change the preview.
func (s *Session) CanRedo() bool { return s.Initialized() && s.hist.CanRedo() }

// Undo reverts the most recent stroke. A stroke in progress is finished
// first. It reports false when there is nothing to undo.
func (s *Session) Undo() (bool, error) {
	if !s.Initialized() {
		return false, nil
	}
	s.finishStroke()
	ok, err := s.hist.Undo(s.stack.Buffer(layers.Preview).Image())
	if ok {
		s.touch()
	}
	return ok, err
}

// Redo re-applies the most recently undone stroke.
func (s *Session) Redo() (bool, error) {
	if !s.Initialized() {
		return false, nil
	}
	s.finishStroke()
	ok, err := s.hist.Redo(s.stack.Buffer(layers.Preview).Image())
	if ok {
		s.touch()
	}
	return ok, err
}

// Reset discards every edit and the undo history. The preview becomes the
// processed cut-out again.
func (s *Session) Reset() {
	if !s.Initialized() {
		return
	}
	if s.engine.InStroke() {
		s.engine.EndStroke()
	}
	s.stroke = stroke{}
	s.stack.Reset()
	s.hist.Clear()
	s.touch()
	Logger().Info("refine: session reset")
	s.emit(Status{Kind: StatusReset, Width: s.stack.Width(), Height: s.stack.Height()})
}

// ExportPreview encodes the preview as PNG.
func (s *Session) ExportPreview() ([]byte, error) {
	if !s.Initialized() {
		return nil, ErrNotInitialized
	}
	return s.stack.ExportPreview()
}

// ExportPreviewDataURL encodes the preview as a PNG data URI.
func (s *Session) ExportPreviewDataURL() (string, error) {
	if !s.Initialized() {
		return "", ErrNotInitialized
	}
	return s.stack.ExportPreviewDataURL()
}

// Image returns a copy of one of the session buffers, or nil before
// initialization.
func (s *Session) Image(id layers.BufferID) *image.NRGBA {
	if !s.Initialized() {
		return nil
	}
	b := s.stack.Buffer(id)
	if b == nil {
		return nil
	}
	return b.Clone().Image()
}

// Dirty reports whether the visible state changed since the last Frame.
func (s *Session) Dirty() bool {
	return s.version != s.framed
}

// Render draws the current state into t.
func (s *Session) Render(t render.Target) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	return s.renderer.Render(t, render.Frame{
		Mode:         s.mode,
		Original:     s.stack.Buffer(layers.Original).Image(),
		Preview:      s.stack.Buffer(layers.Preview).Image(),
		AllowUpscale: s.viewport.AllowUpscale,
		DividerWidth: s.viewport.DividerWidth,
		HideLabels:   s.opts.hideLabels,
		// The original is never written after Load.
		StaticOriginal: true,
	})
}

// Frame renders into t if anything visible changed since the previous
// Frame or the target size changed. Any number of changes between two
// calls collapse into one render of the latest state. It reports whether
// it drew.
func (s *Session) Frame(t render.Target) (bool, error) {
	if !s.Initialized() {
		return false, nil
	}
	size := image.Pt(t.Width(), t.Height())
	if !s.Dirty() && size == s.frameSize {
		return false, nil
	}
	if err := s.Render(t); err != nil {
		return false, err
	}
	s.framed = s.version
	s.frameSize = size
	return true, nil
}

// Close releases the session resources. Further calls have no effect.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.renderer.Purge()
	s.stack = nil
	s.engine = nil
	return s.hist.Close()
}

// touch marks the visible state as changed.
func (s *Session) touch() {
	s.version++
}
