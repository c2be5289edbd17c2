// Package config loads refinement engine settings from a YAML file.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default:
//
//	brush:
//	  tool: smart-erase
//	  radius: 30
//	  hardness: 0.8
//	history:
//	  limit: 50
//	viewport:
//	  mode: comparison
//	  panel_width: 280
//	  panel_side: left
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/charactercut/refine/brush"
	imgio "github.com/charactercut/refine/internal/image"
	"github.com/charactercut/refine/render"
)

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full engine configuration.
type Config struct {
	Brush    BrushConfig    `yaml:"brush"`
	History  HistoryConfig  `yaml:"history"`
	Viewport ViewportConfig `yaml:"viewport"`
	Limits   LimitsConfig   `yaml:"limits"`
}

// BrushConfig holds the initial tool and brush settings.
type BrushConfig struct {
	Tool           brush.Kind     `yaml:"tool"`
	Radius         float64        `yaml:"radius"`
	MinRadius      float64        `yaml:"min_radius"`
	MaxRadius      float64        `yaml:"max_radius"`
	Opacity        float64        `yaml:"opacity"`
	Hardness       float64        `yaml:"hardness"`
	Spacing        float64        `yaml:"spacing"`
	SmartTolerance float64        `yaml:"smart_tolerance"`
	Dynamics       DynamicsConfig `yaml:"dynamics"`
}

// DynamicsConfig controls velocity-based brush sizing.
type DynamicsConfig struct {
	Enabled           bool    `yaml:"enabled"`
	VelocityThreshold float64 `yaml:"velocity_threshold"`
	MinFactor         float64 `yaml:"min_factor"`
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// ViewportConfig describes the initial view.
type ViewportConfig struct {
	Mode         render.ViewMode  `yaml:"mode"`
	PanelWidth   float64          `yaml:"panel_width"`
	PanelSide    render.PanelSide `yaml:"panel_side"`
	AllowUpscale bool             `yaml:"allow_upscale"`
	DividerWidth float64          `yaml:"divider_width"`
	HideLabels   bool             `yaml:"hide_labels"`
}

// LimitsConfig bounds accepted input images.
type LimitsConfig struct {
	MaxBytes     int `yaml:"max_bytes"`
	MaxDimension int `yaml:"max_dimension"`
}

// Default returns the built-in configuration.
func Default() *Config {
	bc := brush.DefaultConfig()
	dyn := brush.DefaultDynamics()
	return &Config{
		Brush: BrushConfig{
			Tool:           brush.Restore,
			Radius:         bc.Radius,
			MinRadius:      bc.MinRadius,
			MaxRadius:      bc.MaxRadius,
			Opacity:        bc.Opacity,
			Hardness:       bc.Hardness,
			Spacing:        bc.Spacing,
			SmartTolerance: bc.SmartTolerance,
			Dynamics: DynamicsConfig{
				Enabled:           true,
				VelocityThreshold: dyn.VelocityThreshold,
				MinFactor:         dyn.MinFactor,
			},
		},
		History: HistoryConfig{Limit: 20},
		Viewport: ViewportConfig{
			Mode:         render.ViewEdited,
			PanelSide:    render.PanelRight,
			DividerWidth: render.DefaultDividerWidth,
		},
		Limits: LimitsConfig{
			MaxBytes:     imgio.DefaultLimits.MaxBytes,
			MaxDimension: imgio.DefaultLimits.MaxDimension,
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is like Load but returns Default when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field for range errors.
func (c *Config) Validate() error {
	b := c.Brush
	switch {
	case !b.Tool.Valid():
		return fmt.Errorf("%w: brush.tool %v", ErrInvalid, b.Tool)
	case !positive(b.MinRadius) || !positive(b.MaxRadius) || b.MinRadius > b.MaxRadius:
		return fmt.Errorf("%w: brush radius range [%v, %v]", ErrInvalid, b.MinRadius, b.MaxRadius)
	case !positive(b.Radius):
		return fmt.Errorf("%w: brush.radius %v", ErrInvalid, b.Radius)
	case !unit(b.Opacity):
		return fmt.Errorf("%w: brush.opacity %v", ErrInvalid, b.Opacity)
	case !unit(b.Hardness):
		return fmt.Errorf("%w: brush.hardness %v", ErrInvalid, b.Hardness)
	case !positive(b.Spacing):
		return fmt.Errorf("%w: brush.spacing %v", ErrInvalid, b.Spacing)
	case !positive(b.SmartTolerance):
		return fmt.Errorf("%w: brush.smart_tolerance %v", ErrInvalid, b.SmartTolerance)
	case b.Dynamics.Enabled && (!positive(b.Dynamics.VelocityThreshold) || !unit(b.Dynamics.MinFactor) || b.Dynamics.MinFactor == 0):
		return fmt.Errorf("%w: brush.dynamics", ErrInvalid)
	case c.History.Limit < 1:
		return fmt.Errorf("%w: history.limit %d", ErrInvalid, c.History.Limit)
	case c.Viewport.PanelWidth < 0 || math.IsNaN(c.Viewport.PanelWidth):
		return fmt.Errorf("%w: viewport.panel_width %v", ErrInvalid, c.Viewport.PanelWidth)
	case c.Viewport.DividerWidth < 0 || math.IsNaN(c.Viewport.DividerWidth):
		return fmt.Errorf("%w: viewport.divider_width %v", ErrInvalid, c.Viewport.DividerWidth)
	case c.Limits.MaxBytes < 1 || c.Limits.MaxDimension < 1:
		return fmt.Errorf("%w: limits", ErrInvalid)
	}
	return nil
}

// BrushSettings returns the brush engine configuration.
func (c *Config) BrushSettings() brush.Config {
	b := c.Brush
	return brush.Config{
		Radius:         b.Radius,
		MinRadius:      b.MinRadius,
		MaxRadius:      b.MaxRadius,
		Opacity:        b.Opacity,
		Hardness:       b.Hardness,
		Spacing:        b.Spacing,
		SmartTolerance: b.SmartTolerance,
	}
}

// BrushDynamics returns the velocity sizing settings.
func (c *Config) BrushDynamics() brush.Dynamics {
	d := c.Brush.Dynamics
	return brush.Dynamics{
		VelocityThreshold: d.VelocityThreshold,
		MinFactor:         d.MinFactor,
		Disabled:          !d.Enabled,
	}
}

// ImageLimits returns the input image limits.
func (c *Config) ImageLimits() imgio.Limits {
	return imgio.Limits{MaxBytes: c.Limits.MaxBytes, MaxDimension: c.Limits.MaxDimension}
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func unit(v float64) bool { return v >= 0 && v <= 1 }
