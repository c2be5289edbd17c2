package refine

import (
	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/config"
	imgio "github.com/charactercut/refine/internal/image"
	"github.com/charactercut/refine/render"
)

// Option configures a Session during creation.
//
// Example:
//
//	cfg, err := config.Load("refine.yaml")
//	if err != nil {
//	    return err
//	}
//	s, err := refine.NewSession(
//	    refine.WithConfig(cfg),
//	    refine.WithStatusListener(onStatus),
//	)
type Option func(*options)

// options holds optional configuration for Session creation.
type options struct {
	brush        brush.Config
	tool         brush.Kind
	dynamics     brush.Dynamics
	historyLimit int
	limits       imgio.Limits
	viewport     render.Viewport
	mode         render.ViewMode
	hideLabels   bool
	listener     StatusListener
	poolSize     int
}

// defaultOptions returns the built-in settings of config.Default.
func defaultOptions() options {
	o := options{poolSize: 4}
	WithConfig(config.Default())(&o)
	return o
}

// WithConfig applies every setting of a loaded configuration file.
// A nil cfg is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.brush = cfg.BrushSettings()
		o.tool = cfg.Brush.Tool
		o.dynamics = cfg.BrushDynamics()
		o.historyLimit = cfg.History.Limit
		o.limits = cfg.ImageLimits()
		o.viewport.PanelWidth = cfg.Viewport.PanelWidth
		o.viewport.PanelSide = cfg.Viewport.PanelSide
		o.viewport.AllowUpscale = cfg.Viewport.AllowUpscale
		o.viewport.DividerWidth = cfg.Viewport.DividerWidth
		o.mode = cfg.Viewport.Mode
		o.hideLabels = cfg.Viewport.HideLabels
	}
}

// WithBrush sets the initial brush settings.
func WithBrush(cfg brush.Config) Option {
	return func(o *options) {
		o.brush = cfg
	}
}

// WithTool sets the initial tool. Unknown kinds are ignored.
func WithTool(k brush.Kind) Option {
	return func(o *options) {
		if k.Valid() {
			o.tool = k
		}
	}
}

// WithDynamics sets velocity-based brush sizing.
func WithDynamics(d brush.Dynamics) Option {
	return func(o *options) {
		o.dynamics = d
	}
}

// WithHistoryLimit bounds the number of undo steps. Values below 1 select
// the default of 20.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		o.historyLimit = n
	}
}

// WithLimits bounds accepted input images: maxBytes of encoded data and
// maxDimension pixels per side. Zero disables a limit.
func WithLimits(maxBytes, maxDimension int) Option {
	return func(o *options) {
		o.limits = imgio.Limits{MaxBytes: maxBytes, MaxDimension: maxDimension}
	}
}

// WithViewport sets the initial viewport.
func WithViewport(v render.Viewport) Option {
	return func(o *options) {
		o.viewport = v
	}
}

// WithViewMode sets the initial view mode.
func WithViewMode(m render.ViewMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithStatusListener registers fn to receive status events.
func WithStatusListener(fn StatusListener) Option {
	return func(o *options) {
		o.listener = fn
	}
}

// WithPoolSize sets how many scratch images of each size the session keeps
// for reuse.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.poolSize = n
		}
	}
}
