package brush

import (
	"image"
	"math"

	"github.com/charactercut/refine/internal/blend"
	"github.com/charactercut/refine/layers"
)

// Engine paints brush dabs into the preview buffer of a layers.Stack.
//
// Engine is not safe for concurrent use.
type Engine struct {
	stack    *layers.Stack
	cfg      Config
	inStroke bool
	lab      *labPlane // built by the first smart dab
}

// NewEngine creates an engine painting into stack with the given settings.
func NewEngine(stack *layers.Stack, cfg Config) *Engine {
	return &Engine{stack: stack, cfg: cfg.normalized()}
}

// Config returns the current brush settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the brush settings, clamping out-of-range values.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg.normalized()
}

// BeginStroke clears the mask and starts accumulating coverage, so that
// overlapping dabs of one stroke do not compound.
func (e *Engine) BeginStroke() {
	e.stack.ClearMask()
	e.inStroke = true
}

// EndStroke stops coverage accumulation.
func (e *Engine) EndStroke() {
	e.inStroke = false
}

// InStroke reports whether a stroke is in progress.
func (e *Engine) InStroke() bool {
	return e.inStroke
}

// EffectiveRadius returns the dab radius tool would paint for the given
// base radius and pressure.
func (e *Engine) EffectiveRadius(tool Kind, radius, pressure float64) float64 {
	return e.effectiveRadius(strategyFor(tool), radius, pressure)
}

func (e *Engine) effectiveRadius(st strategy, radius, pressure float64) float64 {
	if math.IsNaN(pressure) || pressure <= 0 || pressure > 1 {
		pressure = 1
	}
	r := e.cfg.ClampRadius(radius) * pressure * st.radiusScale
	if r < minDabRadius {
		r = minDabRadius
	}
	return r
}

// Paint applies one dab of tool centered at p and returns the rectangle of
// pixels it may have changed. Points far outside the buffer paint nothing.
func (e *Engine) Paint(tool Kind, p Point, radius, pressure float64) image.Rectangle {
	st := strategyFor(tool)
	return e.paint(st, p, e.effectiveRadius(st, radius, pressure))
}

// InterpolateStroke paints tool along the segment from -> to at constant
// radius and pressure, skipping from itself, and returns the dab centers.
func (e *Engine) InterpolateStroke(tool Kind, from, to Point, radius, pressure float64) []Point {
	st := strategyFor(tool)
	r := e.effectiveRadius(st, radius, pressure)
	pts := Interpolate(from, to, r, e.cfg.Spacing)
	for _, p := range pts {
		e.paint(st, p, r)
	}
	return pts
}

// PaintSegment paints tool from one dab to the next, interpolating position,
// radius and pressure. The starting dab is not repainted. It returns the
// number of dabs painted.
func (e *Engine) PaintSegment(tool Kind, from, to Dab) int {
	if !from.Finite() || !to.Finite() {
		return 0
	}
	st := strategyFor(tool)
	r0 := e.effectiveRadius(st, from.Radius, from.Pressure)
	r1 := e.effectiveRadius(st, to.Radius, to.Pressure)
	n := segmentSteps(from.Distance(to.Point), spacingStep(math.Min(r0, r1), e.cfg.Spacing))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		p := from.Lerp(to.Point, t)
		if i == n {
			p = to.Point
		}
		e.paint(st, p, r0+(r1-r0)*t)
	}
	return n
}

// dabBounds returns the pixels whose centers may fall inside the circle,
// clipped to w x h before any float-to-int conversion.
func dabBounds(p Point, r float64, w, h int) image.Rectangle {
	x0 := math.Max(math.Ceil(p.X-r-0.5), 0)
	y0 := math.Max(math.Ceil(p.Y-r-0.5), 0)
	x1 := math.Min(math.Floor(p.X+r-0.5)+1, float64(w))
	y1 := math.Min(math.Floor(p.Y+r-0.5)+1, float64(h))
	if !(x0 < x1) || !(y0 < y1) {
		return image.Rectangle{}
	}
	return image.Rect(int(x0), int(y0), int(x1), int(y1))
}

// coverage8 converts a weight in [0, 1] to a byte.
func coverage8(v float64) byte {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// paint applies one dab with an already resolved radius r.
func (e *Engine) paint(st strategy, p Point, r float64) image.Rectangle {
	if !p.Finite() || math.IsNaN(r) || math.IsInf(r, 0) {
		return image.Rectangle{}
	}
	preview := e.stack.Buffer(layers.Preview)
	rect := dabBounds(p, r, preview.Width(), preview.Height())
	if rect.Empty() {
		return rect
	}

	pv := preview.Pix()
	orig := e.stack.Buffer(layers.Original)
	op := orig.Pix()
	mask := e.stack.Buffer(layers.Mask).Pix()

	var edge edgeWeight
	if st.edgeAware {
		if e.lab == nil {
			e.lab = newLabPlane(preview.Width(), preview.Height())
		}
		cx := clampInt(int(math.Floor(p.X)), 0, preview.Width()-1)
		cy := clampInt(int(math.Floor(p.Y)), 0, preview.Height()-1)
		l, a, b := e.lab.at(op, orig.PixOffset(cx, cy), cx, cy)
		edge = edgeWeight{l: l, a: a, b: b, tol: e.cfg.SmartTolerance}
	}

	r2 := r * r
	hard := e.cfg.Hardness
	inner := r * hard
	opacity := e.cfg.Opacity

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		dy := float64(y) + 0.5 - p.Y
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx := float64(x) + 0.5 - p.X
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}
			cov := opacity
			if hard < 1 {
				if d := math.Sqrt(d2); d > inner {
					cov *= (r - d) / (r - inner)
				}
			}
			off := preview.PixOffset(x, y)
			if st.edgeAware {
				cov *= edge.weightLab(e.lab.at(op, off, x, y))
			}
			c := coverage8(cov)
			if c == 0 {
				continue
			}
			if e.inStroke {
				k := blend.Incremental(mask[off+3], c)
				if k == 0 {
					continue
				}
				mask[off+3] = c
				c = k
			}
			switch st.rule {
			case ruleRestore:
				blend.SourceLerp(pv[off:off+4], op[off:off+4], c)
			default:
				blend.DestinationOut(pv[off:off+4], c)
			}
		}
	}
	return rect
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
