// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// DefaultDividerWidth is the gap between the two halves of comparison mode.
const DefaultDividerWidth = 2

// Fit maps a buffer into an area: screen = buffer*Scale + Offset.
type Fit struct {
	Scale            float64
	OffsetX, OffsetY float64
}

// ComputeFit returns the largest scale at which a bw x bh buffer fits into
// an aw x ah area, centered. The scale never exceeds 1 unless allowUpscale
// is set. Degenerate inputs yield a zero Fit.
func ComputeFit(bw, bh int, aw, ah float64, allowUpscale bool) Fit {
	if bw <= 0 || bh <= 0 || !(aw > 0) || !(ah > 0) || math.IsInf(aw, 0) || math.IsInf(ah, 0) {
		return Fit{}
	}
	s := math.Min(aw/float64(bw), ah/float64(bh))
	if !allowUpscale && s > 1 {
		s = 1
	}
	return Fit{
		Scale:   s,
		OffsetX: (aw - float64(bw)*s) / 2,
		OffsetY: (ah - float64(bh)*s) / 2,
	}
}

// ToBuffer maps a screen position to buffer coordinates.
func (f Fit) ToBuffer(sx, sy float64) (x, y float64) {
	return (sx - f.OffsetX) / f.Scale, (sy - f.OffsetY) / f.Scale
}

// ToScreen maps a buffer position to screen coordinates.
func (f Fit) ToScreen(x, y float64) (sx, sy float64) {
	return x*f.Scale + f.OffsetX, y*f.Scale + f.OffsetY
}

// Rect is an axis-aligned area in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return !(r.W > 0) || !(r.H > 0)
}

// ViewMode selects what a frame shows.
type ViewMode int

const (
	// ViewEdited shows the preview buffer.
	ViewEdited ViewMode = iota
	// ViewOriginal shows the original photo.
	ViewOriginal
	// ViewComparison shows the original and the preview side by side.
	ViewComparison
)

var viewModeNames = [...]string{
	ViewEdited:     "edited",
	ViewOriginal:   "original",
	ViewComparison: "comparison",
}

// String returns the mode name used in configuration files.
func (m ViewMode) String() string {
	if m >= 0 && int(m) < len(viewModeNames) {
		return viewModeNames[m]
	}
	return fmt.Sprintf("ViewMode(%d)", int(m))
}

// ParseViewMode parses a view mode name. "single" is accepted for
// ViewEdited.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edited", "single", "preview":
		return ViewEdited, nil
	case "original":
		return ViewOriginal, nil
	case "comparison", "compare", "split":
		return ViewComparison, nil
	}
	return 0, fmt.Errorf("render: unknown view mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *ViewMode) UnmarshalText(text []byte) error {
	v, err := ParseViewMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m ViewMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// PanelSide is the edge the host's tool panel is docked to.
type PanelSide int

const (
	PanelRight PanelSide = iota
	PanelLeft
)

// String returns "right" or "left".
func (p PanelSide) String() string {
	if p == PanelLeft {
		return "left"
	}
	return "right"
}

// MarshalText implements encoding.TextMarshaler.
func (p PanelSide) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PanelSide) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "right", "":
		*p = PanelRight
	case "left":
		*p = PanelLeft
	default:
		return fmt.Errorf("render: unknown panel side %q", text)
	}
	return nil
}

// Source names the buffer a panel shows.
type Source int

const (
	SourcePreview Source = iota
	SourceOriginal
)

// Panel is one image placement inside the canvas.
type Panel struct {
	Source Source
	// Area is the part of the canvas the panel owns, in canvas coordinates.
	Area Rect
	// Fit maps buffer coordinates to canvas coordinates.
	Fit   Fit
	Label string
}

// Dest returns the integer canvas rectangle the scaled buffer covers.
func (p Panel) Dest(bw, bh int) image.Rectangle {
	x0 := math.Round(p.Fit.OffsetX)
	y0 := math.Round(p.Fit.OffsetY)
	x1 := math.Round(p.Fit.OffsetX + float64(bw)*p.Fit.Scale)
	y1 := math.Round(p.Fit.OffsetY + float64(bh)*p.Fit.Scale)
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

// Viewport describes the host surface the engine draws into. Pointer events
// arrive in surface coordinates; frames cover only the canvas, which is the
// surface minus the docked tool panel.
type Viewport struct {
	Width, Height float64
	PanelWidth    float64
	PanelSide     PanelSide
	AllowUpscale  bool
	// DividerWidth is the gap between comparison halves. Zero, negative
	// and NaN select DefaultDividerWidth.
	DividerWidth float64
}

// Canvas returns the canvas area in surface coordinates.
func (v Viewport) Canvas() Rect {
	w, h := math.Max(v.Width, 0), math.Max(v.Height, 0)
	p := math.Min(math.Max(v.PanelWidth, 0), w)
	r := Rect{W: w - p, H: h}
	if v.PanelSide == PanelLeft {
		r.X = p
	}
	return r
}

func (v Viewport) divider() float64 {
	if !(v.DividerWidth > 0) || math.IsInf(v.DividerWidth, 0) {
		return DefaultDividerWidth
	}
	return v.DividerWidth
}

// Layout places a bw x bh buffer in the canvas for mode. Panel areas and
// fits are in canvas coordinates, origin at the canvas top-left.
func (v Viewport) Layout(mode ViewMode, bw, bh int) []Panel {
	c := v.Canvas()
	if mode != ViewComparison {
		src, label := SourcePreview, "Edited"
		if mode == ViewOriginal {
			src, label = SourceOriginal, "Original"
		}
		area := Rect{W: c.W, H: c.H}
		return []Panel{{Source: src, Area: area, Fit: v.fit(area, bw, bh), Label: label}}
	}

	d := math.Min(v.divider(), c.W)
	half := (c.W - d) / 2
	left := Rect{W: half, H: c.H}
	right := Rect{X: half + d, W: half, H: c.H}
	return []Panel{
		{Source: SourceOriginal, Area: left, Fit: v.fit(left, bw, bh), Label: "Original"},
		{Source: SourcePreview, Area: right, Fit: v.fit(right, bw, bh), Label: "Edited"},
	}
}

func (v Viewport) fit(area Rect, bw, bh int) Fit {
	f := ComputeFit(bw, bh, area.W, area.H, v.AllowUpscale)
	f.OffsetX += area.X
	f.OffsetY += area.Y
	return f
}

// ScreenToBuffer maps a surface position to buffer coordinates through the
// panel under it, or the nearest panel when the point lies in none. The
// result may fall outside the buffer. ok is false when the viewport is too
// small to show anything.
func (v Viewport) ScreenToBuffer(mode ViewMode, bw, bh int, sx, sy float64) (x, y float64, ok bool) {
	c := v.Canvas()
	lx, ly := sx-c.X, sy-c.Y
	p, found := nearestPanel(v.Layout(mode, bw, bh), lx, ly)
	if !found || !(p.Fit.Scale > 0) {
		return 0, 0, false
	}
	x, y = p.Fit.ToBuffer(lx, ly)
	return x, y, true
}

// BufferToScreen maps a buffer position to surface coordinates in the
// panel showing the preview, or the only panel in single-image modes.
func (v Viewport) BufferToScreen(mode ViewMode, bw, bh int, x, y float64) (sx, sy float64) {
	panels := v.Layout(mode, bw, bh)
	p := panels[len(panels)-1]
	sx, sy = p.Fit.ToScreen(x, y)
	c := v.Canvas()
	return sx + c.X, sy + c.Y
}

func nearestPanel(panels []Panel, x, y float64) (Panel, bool) {
	best, bestD := -1, math.Inf(1)
	for i, p := range panels {
		if p.Area.Empty() {
			continue
		}
		if p.Area.Contains(x, y) {
			return p, true
		}
		cx := p.Area.X + p.Area.W/2
		if d := math.Abs(x - cx); d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Panel{}, false
	}
	return panels[best], true
}
