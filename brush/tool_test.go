package brush

import (
	"errors"
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"restore", Restore, false},
		{"erase", Erase, false},
		{"precision-erase", PrecisionErase, false},
		{"Precision_Erase", PrecisionErase, false},
		{" smart erase ", SmartErase, false},
		{"smart-restore", SmartRestore, false},
		{"lasso", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownTool) {
				t.Errorf("ParseKind(%q) error = %v, want ErrUnknownTool", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText: %v", k, err)
		}
		var got Kind
		if err := got.UnmarshalText(b); err != nil || got != k {
			t.Errorf("UnmarshalText(%q) = %v, %v, want %v", b, got, err, k)
		}
	}
	if _, err := Kind(17).MarshalText(); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Kind(17).MarshalText error = %v, want ErrUnknownTool", err)
	}
	if s := Kind(17).String(); s != "Kind(17)" {
		t.Errorf("Kind(17).String() = %q", s)
	}
}

func TestClampRadius(t *testing.T) {
	c := DefaultConfig()
	tests := []struct {
		in, want float64
	}{
		{20, 20},
		{0, 1},
		{-5, 1},
		{1000, 200},
		{math.Inf(1), 200},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := c.ClampRadius(tt.in); got != tt.want {
			t.Errorf("ClampRadius(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigNormalized(t *testing.T) {
	c := Config{Radius: 900, Opacity: 3, Hardness: math.NaN(), Spacing: -1}.normalized()
	// A zero MaxRadius collapses the range onto the default minimum.
	if c.Radius != DefaultMinRadius {
		t.Errorf("Radius = %v, want %v", c.Radius, DefaultMinRadius)
	}
	if c.Opacity != 1 || c.Hardness != 1 {
		t.Errorf("Opacity, Hardness = %v, %v, want 1, 1", c.Opacity, c.Hardness)
	}
	if c.Spacing != DefaultSpacing || c.SmartTolerance != DefaultSmartTolerance {
		t.Errorf("Spacing, SmartTolerance = %v, %v", c.Spacing, c.SmartTolerance)
	}
}

func TestEdgeWeight(t *testing.T) {
	w := newEdgeWeight(200, 30, 30, DefaultSmartTolerance)
	if got := w.weight(200, 30, 30); got != 1 {
		t.Errorf("weight(same color) = %v, want 1", got)
	}
	if got := w.weight(20, 30, 220); got != 0 {
		t.Errorf("weight(blue vs red) = %v, want 0", got)
	}
	got := w.weight(190, 40, 35)
	if got <= 0 || got > 1 {
		t.Errorf("weight(similar color) = %v, want in (0, 1]", got)
	}
}

func TestLabOfMatchesColorful(t *testing.T) {
	colors := [][3]uint8{{0, 0, 0}, {255, 255, 255}, {200, 30, 30}, {5, 10, 11}, {12, 128, 250}}
	for _, c := range colors {
		l, a, b := labOf(c[0], c[1], c[2])
		wl, wa, wb := colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}.Lab()
		if math.Abs(l-wl) > 1e-9 || math.Abs(a-wa) > 1e-9 || math.Abs(b-wb) > 1e-9 {
			t.Errorf("labOf(%v) = (%v, %v, %v), want (%v, %v, %v)", c, l, a, b, wl, wa, wb)
		}
	}
}

func TestLabPlaneCachesPixels(t *testing.T) {
	pix := []byte{200, 30, 30, 255, 20, 30, 220, 255}
	p := newLabPlane(2, 1)
	l, a, b := p.at(pix, 4, 1, 0)
	if !p.known[1] || p.known[0] {
		t.Fatalf("known = %v, want only pixel 1", p.known)
	}
	// Later changes to the bytes are not seen once a pixel is cached.
	pix[4], pix[5], pix[6] = 0, 0, 0
	l2, a2, b2 := p.at(pix, 4, 1, 0)
	if l != l2 || a != a2 || b != b2 {
		t.Errorf("at() = (%v, %v, %v) after caching, want (%v, %v, %v)", l2, a2, b2, l, a, b)
	}
	wl, _, _ := labOf(20, 30, 220)
	if math.Abs(l-wl) > 1e-5 {
		t.Errorf("at() L = %v, want %v", l, wl)
	}
}
