package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/render"
)

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
brush:
  tool: smart-erase
  radius: 30
  hardness: 0.5
history:
  limit: 50
viewport:
  mode: comparison
  panel_width: 280
  panel_side: left
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Brush.Tool != brush.SmartErase {
		t.Errorf("Tool = %v, want smart-erase", cfg.Brush.Tool)
	}
	if cfg.Brush.Radius != 30 || cfg.Brush.Hardness != 0.5 {
		t.Errorf("Radius, Hardness = %v, %v, want 30, 0.5", cfg.Brush.Radius, cfg.Brush.Hardness)
	}
	if cfg.Brush.Opacity != 1 {
		t.Errorf("Opacity = %v, want default 1", cfg.Brush.Opacity)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("History.Limit = %d, want 50", cfg.History.Limit)
	}
	if cfg.Viewport.Mode != render.ViewComparison || cfg.Viewport.PanelSide != render.PanelLeft {
		t.Errorf("Viewport = %+v", cfg.Viewport)
	}
	if cfg.Limits.MaxDimension != 4096 {
		t.Errorf("Limits.MaxDimension = %d, want 4096", cfg.Limits.MaxDimension)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Parse(nil) = %+v, want defaults", cfg)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{"unknown key", "brush:\n  colour: red\n", false},
		{"unknown tool", "brush:\n  tool: lasso\n", false},
		{"bad mode", "viewport:\n  mode: zoom\n", false},
		{"opacity range", "brush:\n  opacity: 1.5\n", true},
		{"radius range", "brush:\n  min_radius: 50\n  max_radius: 10\n", true},
		{"history limit", "history:\n  limit: 0\n", true},
		{"limits", "limits:\n  max_bytes: -1\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if got := errors.Is(err, ErrInvalid); got != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v (err %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refine.yaml")
	if err := os.WriteFile(path, []byte("brush:\n  radius: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Brush.Radius != 12 {
		t.Errorf("Radius = %v, want 12", cfg.Brush.Radius)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
	cfg, err = LoadOptional(filepath.Join(dir, "missing.yaml"))
	if err != nil || *cfg != *Default() {
		t.Errorf("LoadOptional(missing) = %+v, %v, want defaults", cfg, err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Brush.Tool = brush.PrecisionErase
	cfg.Viewport.PanelSide = render.PanelLeft
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()): %v\n%s", err, data)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestDerivedSettings(t *testing.T) {
	cfg := Default()
	cfg.Brush.Dynamics.Enabled = false
	if !cfg.BrushDynamics().Disabled {
		t.Error("BrushDynamics().Disabled = false with dynamics disabled")
	}
	if got := cfg.BrushSettings(); got != brush.DefaultConfig() {
		t.Errorf("BrushSettings() = %+v, want %+v", got, brush.DefaultConfig())
	}
	if lim := cfg.ImageLimits(); lim.MaxBytes != 10<<20 {
		t.Errorf("ImageLimits().MaxBytes = %d", lim.MaxBytes)
	}
}
