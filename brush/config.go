package brush

import "math"

// Default brush limits and parameters.
const (
	DefaultMinRadius = 1
	DefaultMaxRadius = 200
	DefaultRadius    = 20

	// DefaultSpacing is the dab spacing as a fraction of the radius.
	DefaultSpacing = 0.1

	// DefaultSmartTolerance is the CIE-Lab distance under which smart
	// tools act at full strength. Lab here uses L in [0, 1].
	DefaultSmartTolerance = 0.12

	minSpacingPx = 0.5
	minDabRadius = 1.0
)

// Config is the tool configuration read by the Engine on every dab.
type Config struct {
	// Radius is the configured brush radius in buffer pixels.
	Radius float64
	// MinRadius and MaxRadius bound Radius.
	MinRadius, MaxRadius float64
	// Opacity scales the strength of every dab, in [0, 1].
	Opacity float64
	// Hardness is the fraction of the radius painted at full strength;
	// the rest falls off linearly. 1 gives a hard-edged circle.
	Hardness float64
	// Spacing is the interpolation step as a fraction of the radius.
	Spacing float64
	// SmartTolerance is the color distance threshold of smart tools.
	SmartTolerance float64
}

// DefaultConfig returns a hard, fully opaque 20px brush.
func DefaultConfig() Config {
	return Config{
		Radius:         DefaultRadius,
		MinRadius:      DefaultMinRadius,
		MaxRadius:      DefaultMaxRadius,
		Opacity:        1,
		Hardness:       1,
		Spacing:        DefaultSpacing,
		SmartTolerance: DefaultSmartTolerance,
	}
}

// ClampRadius limits r to [MinRadius, MaxRadius]. NaN maps to MinRadius.
func (c Config) ClampRadius(r float64) float64 {
	lo, hi := c.MinRadius, c.MaxRadius
	if lo <= 0 {
		lo = DefaultMinRadius
	}
	if hi < lo {
		hi = lo
	}
	if math.IsNaN(r) || r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}

// normalized returns c with every field forced into its valid range.
func (c Config) normalized() Config {
	c.Radius = c.ClampRadius(c.Radius)
	c.Opacity = clamp01(c.Opacity, 1)
	c.Hardness = clamp01(c.Hardness, 1)
	if !(c.Spacing > 0) || math.IsInf(c.Spacing, 0) {
		c.Spacing = DefaultSpacing
	}
	if !(c.SmartTolerance > 0) || math.IsInf(c.SmartTolerance, 0) {
		c.SmartTolerance = DefaultSmartTolerance
	}
	return c
}

// clamp01 clamps v to [0, 1], returning def for NaN.
func clamp01(v, def float64) float64 {
	switch {
	case math.IsNaN(v):
		return def
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
