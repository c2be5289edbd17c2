package brush

import "math"

// maxSegmentSteps caps the dabs generated for one segment so absurd
// coordinates cannot stall painting.
const maxSegmentSteps = 1 << 14

// spacingStep returns the distance between successive dabs.
func spacingStep(radius, spacing float64) float64 {
	step := radius * spacing
	if math.IsNaN(step) || step < minSpacingPx {
		return minSpacingPx
	}
	return step
}

// segmentSteps returns how many dabs cover dist at the given step.
func segmentSteps(dist, step float64) int {
	if !(dist > 0) || math.IsInf(dist, 0) {
		return 0
	}
	n := math.Ceil(dist / step)
	if n > maxSegmentSteps {
		return maxSegmentSteps
	}
	return int(n)
}

// Interpolate returns the dab positions after from up to and including to,
// spaced radius*spacing apart (at least half a pixel). from itself is not
// included; callers paint it when the stroke starts. Equal or non-finite
// endpoints yield no points.
func Interpolate(from, to Point, radius, spacing float64) []Point {
	if !from.Finite() || !to.Finite() {
		return nil
	}
	n := segmentSteps(from.Distance(to), spacingStep(radius, spacing))
	if n == 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := 1; i < n; i++ {
		pts[i-1] = from.Lerp(to, float64(i)/float64(n))
	}
	pts[n-1] = to
	return pts
}
