package brush

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// srgbLinear maps an 8-bit sRGB channel to linear light.
var srgbLinear = func() (t [256]float64) {
	for i := range t {
		t[i], _, _ = colorful.Color{R: float64(i) / 255}.LinearRgb()
	}
	return t
}()

// labOf converts an 8-bit sRGB color to CIE-Lab (D65). The result matches
// colorful.Color.Lab without the per-channel power function.
func labOf(r, g, b uint8) (l, la, lb float64) {
	return colorful.XyzToLab(colorful.LinearRgbToXyz(srgbLinear[r], srgbLinear[g], srgbLinear[b]))
}

// labPlane caches the Lab coordinates of the original photo. Pixels are
// converted on first use; the original never changes after load.
type labPlane struct {
	width int
	lab   []float32
	known []bool
}

func newLabPlane(w, h int) *labPlane {
	return &labPlane{width: w, lab: make([]float32, 3*w*h), known: make([]bool, w*h)}
}

// at returns the Lab color of pixel (x, y), whose RGBA bytes start at
// pix[off].
func (p *labPlane) at(pix []byte, off, x, y int) (l, a, b float64) {
	i := y*p.width + x
	v := p.lab[3*i : 3*i+3 : 3*i+3]
	if !p.known[i] {
		l, a, b = labOf(pix[off], pix[off+1], pix[off+2])
		v[0], v[1], v[2] = float32(l), float32(a), float32(b)
		p.known[i] = true
	}
	return float64(v[0]), float64(v[1]), float64(v[2])
}

// edgeWeight scores pixels of the original photo by their CIE-Lab distance
// to a reference color. Pixels within tol get full weight, pixels beyond
// 2*tol get none.
type edgeWeight struct {
	l, a, b float64
	tol     float64
}

func newEdgeWeight(r, g, b uint8, tol float64) edgeWeight {
	l, la, lb := labOf(r, g, b)
	return edgeWeight{l: l, a: la, b: lb, tol: tol}
}

// weight returns the factor in [0, 1] for a pixel with the given color.
func (w edgeWeight) weight(r, g, b uint8) float64 {
	return w.weightLab(labOf(r, g, b))
}

func (w edgeWeight) weightLab(l, la, lb float64) float64 {
	d := math.Sqrt((l-w.l)*(l-w.l) + (la-w.a)*(la-w.a) + (lb-w.b)*(lb-w.b))
	switch {
	case d <= w.tol:
		return 1
	case d >= 2*w.tol:
		return 0
	}
	return 2 - d/w.tol
}
