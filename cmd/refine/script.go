package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/charactercut/refine"
	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/render"
)

// Script is a recorded editing session replayed against the images.
type Script struct {
	Viewport *ViewportStep    `yaml:"viewport"`
	Mode     *render.ViewMode `yaml:"mode"`
	Steps    []Step           `yaml:"steps"`
}

// ViewportStep sets the surface pointer coordinates refer to.
type ViewportStep struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PanelWidth float64 `yaml:"panel_width"`
}

// Step is one script action. A step with points draws a stroke using the
// brush fields set on it; undo, redo and reset steps act on the history.
type Step struct {
	Tool     *brush.Kind  `yaml:"tool"`
	Radius   *float64     `yaml:"radius"`
	Opacity  *float64     `yaml:"opacity"`
	Hardness *float64     `yaml:"hardness"`
	Points   [][2]float64 `yaml:"points"`
	Pressure float64      `yaml:"pressure"`
	Pointer  string       `yaml:"pointer"`
	// IntervalMS is the time between points; it drives brush dynamics.
	IntervalMS float64 `yaml:"interval_ms"`

	Undo  int  `yaml:"undo"`
	Redo  int  `yaml:"redo"`
	Reset bool `yaml:"reset"`
}

// loadScript reads a YAML script file.
func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return parseScript(data)
}

func parseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, st := range sc.Steps {
		if _, err := pointerType(st.Pointer); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &sc, nil
}

func pointerType(s string) (refine.PointerType, error) {
	switch s {
	case "", "mouse":
		return refine.PointerMouse, nil
	case "pen":
		return refine.PointerPen, nil
	case "touch":
		return refine.PointerTouch, nil
	}
	return 0, fmt.Errorf("unknown pointer type %q", s)
}

// run replays sc on s.
func run(s *refine.Session, sc *Script) error {
	if sc.Viewport != nil {
		s.SetViewport(sc.Viewport.Width, sc.Viewport.Height, sc.Viewport.PanelWidth)
	}
	if sc.Mode != nil {
		s.SetViewMode(*sc.Mode)
	}

	var clock time.Duration
	for i, st := range sc.Steps {
		if st.Tool != nil {
			if err := s.SetTool(*st.Tool); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
		if st.Radius != nil {
			s.SetBrushRadius(*st.Radius)
		}
		if st.Opacity != nil {
			s.SetOpacity(*st.Opacity)
		}
		if st.Hardness != nil {
			s.SetHardness(*st.Hardness)
		}

		if len(st.Points) > 0 {
			pt, _ := pointerType(st.Pointer)
			interval := time.Duration(st.IntervalMS * float64(time.Millisecond))
			if interval <= 0 {
				interval = 16 * time.Millisecond
			}
			for j, p := range st.Points {
				ev := refine.PointerEvent{X: p[0], Y: p[1], Pressure: st.Pressure, Type: pt, Time: clock}
				if j == 0 {
					s.PointerDown(ev)
				} else {
					s.PointerMove(ev)
				}
				clock += interval
			}
			last := st.Points[len(st.Points)-1]
			s.PointerUp(refine.PointerEvent{X: last[0], Y: last[1], Pressure: st.Pressure, Type: pt, Time: clock})
		}

		for n := 0; n < st.Undo; n++ {
			if _, err := s.Undo(); err != nil {
				return fmt.Errorf("step %d: undo: %w", i+1, err)
			}
		}
		for n := 0; n < st.Redo; n++ {
			if _, err := s.Redo(); err != nil {
				return fmt.Errorf("step %d: redo: %w", i+1, err)
			}
		}
		if st.Reset {
			s.Reset()
		}
	}
	return nil
}
