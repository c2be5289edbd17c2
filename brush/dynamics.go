package brush

import (
	"math"
	"time"
)

// Dynamics shrinks the brush while the pointer moves fast, giving finer
// control on quick strokes.
type Dynamics struct {
	// VelocityThreshold is the pointer speed, in screen pixels per
	// millisecond, above which the brush starts to shrink.
	VelocityThreshold float64
	// MinFactor is the smallest radius factor, reached at twice the
	// threshold.
	MinFactor float64
	// Disabled turns velocity sizing off.
	Disabled bool
}

// DefaultDynamics starts shrinking at 1.5 px/ms down to half size.
func DefaultDynamics() Dynamics {
	return Dynamics{
		VelocityThreshold: 1.5,
		MinFactor:         0.5,
	}
}

// Factor returns the radius multiplier for pointer speed v: 1 up to the
// threshold, then falling linearly to MinFactor at twice the threshold.
func (d Dynamics) Factor(v float64) float64 {
	thr := d.VelocityThreshold
	if d.Disabled || !(thr > 0) || !(v > thr) {
		return 1
	}
	minF := d.MinFactor
	if !(minF > 0) || minF > 1 {
		minF = 0.5
	}
	over := (v - thr) / thr
	if over >= 1 {
		return minF
	}
	return 1 - (1-minF)*over
}

// VelocityTracker measures instantaneous pointer speed from successive
// samples.
type VelocityTracker struct {
	last  Point
	lastT time.Duration
	v     float64
	has   bool
}

// Reset forgets all samples. Call it at the start of every stroke.
func (t *VelocityTracker) Reset() {
	*t = VelocityTracker{}
}

// Update records a sample at time at and returns the speed in px/ms.
// Samples with a non-increasing timestamp keep the previous speed.
func (t *VelocityTracker) Update(p Point, at time.Duration) float64 {
	if !p.Finite() {
		return t.v
	}
	if t.has {
		dt := float64(at-t.lastT) / float64(time.Millisecond)
		if dt > 0 {
			t.v = p.Distance(t.last) / dt
			if math.IsInf(t.v, 0) || math.IsNaN(t.v) {
				t.v = 0
			}
		}
	}
	t.last, t.lastT, t.has = p, at, true
	return t.v
}

// Velocity returns the most recent speed in px/ms.
func (t *VelocityTracker) Velocity() float64 {
	return t.v
}
