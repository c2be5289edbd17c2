package refine

import (
	"fmt"
	"math"
	"time"

	"github.com/charactercut/refine/brush"
	"github.com/charactercut/refine/layers"
)

// PointerType is the kind of device that produced an event.
type PointerType int

const (
	PointerMouse PointerType = iota
	PointerPen
	PointerTouch
)

func (t PointerType) String() string {
	switch t {
	case PointerMouse:
		return "mouse"
	case PointerPen:
		return "pen"
	case PointerTouch:
		return "touch"
	}
	return fmt.Sprintf("PointerType(%d)", int(t))
}

// minPressure keeps very light pen contact from shrinking the brush to
// nothing.
const minPressure = 0.05

// PointerEvent is one pointer sample in surface coordinates.
type PointerEvent struct {
	X, Y float64
	// Pressure is in (0, 1]. Zero or NaN means the device reports none.
	Pressure float64
	Type     PointerType
	// Time is the event timestamp, measured from any fixed origin.
	Time time.Duration
}

// pressure returns the normalized pressure of ev.
func (ev PointerEvent) pressure() float64 {
	p := ev.Pressure
	if ev.Type == PointerMouse || math.IsNaN(p) || p <= 0 {
		return 1
	}
	return math.Min(math.Max(p, minPressure), 1)
}

// State is the stroke state of the input dispatcher.
type State int

const (
	// Idle waits for a pointer press.
	Idle State = iota
	// Drawing paints on every pointer move until release.
	Drawing
)

func (s State) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// stroke is the state of the stroke in progress.
type stroke struct {
	active   bool
	tool     brush.Kind
	last     brush.Dab
	velocity brush.VelocityTracker
	dabs     int
}

// State returns the current stroke state.
func (s *Session) State() State {
	if s.stroke.active {
		return Drawing
	}
	return Idle
}

// PointerDown starts a stroke: the preview is recorded for undo and the
// first dab is painted. It reports whether the event was used; a press while
// already drawing, or before images are loaded, is ignored.
func (s *Session) PointerDown(ev PointerEvent) bool {
	if !s.Initialized() {
		return false
	}
	if s.stroke.active {
		Logger().Debug("refine: pointer down ignored", "state", Drawing.String())
		return false
	}
	x, y, ok := s.ScreenToBuffer(ev.X, ev.Y)
	if !ok {
		Logger().Debug("refine: pointer down outside viewport", "x", ev.X, "y", ev.Y)
		return false
	}
	if err := s.hist.Snapshot(s.stack.Buffer(layers.Preview).Image()); err != nil {
		Logger().Warn("refine: snapshot failed, stroke cannot be undone", "err", err)
	}

	s.stroke = stroke{active: true, tool: s.tool}
	s.stroke.velocity.Update(brush.Pt(ev.X, ev.Y), ev.Time)
	s.stroke.last = brush.Dab{Point: brush.Pt(x, y), Radius: s.brush.Radius, Pressure: ev.pressure()}

	s.engine.BeginStroke()
	s.engine.Paint(s.stroke.tool, s.stroke.last.Point, s.stroke.last.Radius, s.stroke.last.Pressure)
	s.stroke.dabs = 1
	s.touch()
	return true
}

// PointerMove continues the stroke to the event position, interpolating
// dabs so fast movement leaves no gaps. Moves while idle are ignored.
func (s *Session) PointerMove(ev PointerEvent) bool {
	if !s.Initialized() {
		return false
	}
	if !s.stroke.active {
		Logger().Debug("refine: pointer move ignored", "state", Idle.String())
		return false
	}
	return s.extend(ev)
}

// PointerUp finishes the stroke at the event position. Releases while idle
// are ignored.
func (s *Session) PointerUp(ev PointerEvent) bool {
	if !s.Initialized() {
		return false
	}
	if !s.stroke.active {
		Logger().Debug("refine: pointer up ignored", "state", Idle.String())
		return false
	}
	s.extend(ev)
	s.finishStroke()
	return true
}

// PointerCancel ends the stroke without painting further. Pixels already
// painted stay and can be undone like any stroke.
func (s *Session) PointerCancel() bool {
	if !s.Initialized() || !s.stroke.active {
		return false
	}
	s.finishStroke()
	return true
}

// extend paints from the last dab to the event position.
func (s *Session) extend(ev PointerEvent) bool {
	x, y, ok := s.ScreenToBuffer(ev.X, ev.Y)
	if !ok {
		Logger().Debug("refine: pointer move outside viewport", "x", ev.X, "y", ev.Y)
		return false
	}
	// Velocity is measured in screen space so the feel does not depend on
	// the zoom level.
	v := s.stroke.velocity.Update(brush.Pt(ev.X, ev.Y), ev.Time)
	next := brush.Dab{
		Point:    brush.Pt(x, y),
		Radius:   s.brush.Radius * s.dynamics.Factor(v),
		Pressure: ev.pressure(),
	}
	if n := s.engine.PaintSegment(s.stroke.tool, s.stroke.last, next); n > 0 {
		s.stroke.dabs += n
		s.touch()
	}
	s.stroke.last = next
	return true
}

// finishStroke ends a stroke in progress, if any.
func (s *Session) finishStroke() {
	if !s.stroke.active {
		return
	}
	s.engine.EndStroke()
	Logger().Debug("refine: stroke finished", "tool", s.stroke.tool.String(), "dabs", s.stroke.dabs)
	s.stroke = stroke{}
}
