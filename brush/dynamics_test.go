package brush

import (
	"math"
	"testing"
	"time"
)

func TestDynamicsFactor(t *testing.T) {
	d := DefaultDynamics()
	tests := []struct {
		v, want float64
	}{
		{0, 1},
		{1.5, 1},
		{2.25, 0.75},
		{3, 0.5},
		{50, 0.5},
		{math.NaN(), 1},
		{-4, 1},
	}
	for _, tt := range tests {
		if got := d.Factor(tt.v); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Factor(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}

	d.Disabled = true
	if got := d.Factor(10); got != 1 {
		t.Errorf("disabled Factor(10) = %v, want 1", got)
	}
}

func TestVelocityTracker(t *testing.T) {
	var vt VelocityTracker
	if v := vt.Update(Pt(0, 0), 0); v != 0 {
		t.Errorf("first sample velocity = %v, want 0", v)
	}
	if v := vt.Update(Pt(30, 40), 10*time.Millisecond); v != 5 {
		t.Errorf("velocity = %v, want 5", v)
	}
	// Duplicate timestamps keep the last speed.
	if v := vt.Update(Pt(60, 80), 10*time.Millisecond); v != 5 {
		t.Errorf("velocity after zero dt = %v, want 5", v)
	}
	if v := vt.Update(Pt(60, 82), 12*time.Millisecond); v != 1 {
		t.Errorf("velocity = %v, want 1", v)
	}
	vt.Reset()
	if vt.Velocity() != 0 {
		t.Errorf("Velocity after Reset = %v, want 0", vt.Velocity())
	}
}
