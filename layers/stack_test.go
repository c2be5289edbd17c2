package layers

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func newTestStack(t *testing.T) *Stack {
	t.Helper()
	s, err := New(gradient(20, 10), solid(20, 10, color.NRGBA{R: 9, G: 9, B: 9, A: 128}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newTestStack(t)
	if s.Width() != 20 || s.Height() != 10 {
		t.Fatalf("size = %dx%d, want 20x10", s.Width(), s.Height())
	}
	for id := Original; id < bufferCount; id++ {
		b := s.Buffer(id)
		if b == nil {
			t.Fatalf("Buffer(%v) = nil", id)
		}
		if b.Width() != 20 || b.Height() != 10 {
			t.Errorf("Buffer(%v) size = %dx%d, want 20x10", id, b.Width(), b.Height())
		}
	}
	if !s.Buffer(Preview).Equal(s.Buffer(Processed)) {
		t.Error("preview does not start as a copy of processed")
	}
	if &s.Buffer(Preview).Pix()[0] == &s.Buffer(Processed).Pix()[0] {
		t.Error("preview shares memory with processed")
	}
	if s.Resampled() {
		t.Error("Resampled() = true for matching sizes")
	}
}

func TestNewResamplesMismatchedProcessed(t *testing.T) {
	s, err := New(gradient(20, 10), solid(10, 5, color.NRGBA{A: 255}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.Resampled() {
		t.Error("Resampled() = false, want true")
	}
	if b := s.Buffer(Processed); b.Width() != 20 || b.Height() != 10 {
		t.Errorf("processed size = %dx%d, want 20x10", b.Width(), b.Height())
	}
}

func TestNewErrors(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 4))
	tests := []struct {
		name       string
		orig, proc image.Image
		want       error
	}{
		{"nil original", nil, gradient(2, 2), ErrNilImage},
		{"zero original", empty, gradient(2, 2), ErrZeroDimension},
		{"zero processed", gradient(2, 2), empty, ErrZeroDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.orig, tt.proc); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadRegionClamps(t *testing.T) {
	s := newTestStack(t)
	tests := []struct {
		name       string
		x, y, w, h int
		want       image.Rectangle
	}{
		{"inside", 2, 3, 4, 5, image.Rect(2, 3, 6, 8)},
		{"negative origin", -5, -5, 8, 8, image.Rect(0, 0, 3, 3)},
		{"past far edge", 18, 8, 10, 10, image.Rect(18, 8, 20, 10)},
		{"disjoint", 100, 100, 5, 5, image.Rectangle{}},
		{"zero size", 1, 1, 0, 3, image.Rectangle{}},
		{"negative size", 10, 5, -5, -5, image.Rectangle{}},
		{"left of buffer", -10, 0, 5, 5, image.Rectangle{}},
		{"huge width", 5, 2, math.MaxInt, 3, image.Rect(5, 2, 20, 5)},
		{"huge offsets", math.MinInt, math.MinInt, math.MaxInt, math.MaxInt, image.Rectangle{}},
		{"far origin huge size", math.MaxInt - 1, 0, math.MaxInt, 2, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := s.ReadRegion(Original, tt.x, tt.y, tt.w, tt.h)
			if tt.want.Empty() {
				if !reg.Empty() {
					t.Errorf("ReadRegion() = %v, want empty", reg.Bounds())
				}
				return
			}
			if reg.Bounds() != tt.want {
				t.Errorf("ReadRegion() bounds = %v, want %v", reg.Bounds(), tt.want)
			}
			if len(reg.Pix) != tt.want.Dx()*tt.want.Dy()*4 {
				t.Errorf("len(Pix) = %d, want %d", len(reg.Pix), tt.want.Dx()*tt.want.Dy()*4)
			}
		})
	}
}

func TestReadRegionCopiesPixels(t *testing.T) {
	s := newTestStack(t)
	reg := s.ReadRegion(Original, 3, 4, 2, 2)
	want := s.Buffer(Original).At(4, 5)
	i := (1*2 + 1) * 4
	got := color.NRGBA{R: reg.Pix[i], G: reg.Pix[i+1], B: reg.Pix[i+2], A: reg.Pix[i+3]}
	if got != want {
		t.Errorf("pixel (4,5) = %v, want %v", got, want)
	}
	reg.Pix[0] = 0xEE
	if s.Buffer(Original).At(3, 4).R == 0xEE {
		t.Error("region aliases buffer memory")
	}
}

func TestWriteRegionRoundTrip(t *testing.T) {
	s := newTestStack(t)
	reg := s.ReadRegion(Original, 0, 0, 20, 10)
	if _, err := s.WriteRegion(Preview, 0, 0, reg); err != nil {
		t.Fatalf("WriteRegion: %v", err)
	}
	if !s.Buffer(Preview).Equal(s.Buffer(Original)) {
		t.Error("preview != original after full-region write")
	}
}

func TestWriteRegionClampsAndOffsets(t *testing.T) {
	s := newTestStack(t)
	before := s.Buffer(Preview).Clone()

	reg := NewRegion(4, 4)
	for i := range reg.Pix {
		reg.Pix[i] = 0xFF
	}
	got, err := s.WriteRegion(Preview, -2, 8, reg)
	if err != nil {
		t.Fatalf("WriteRegion: %v", err)
	}
	if want := image.Rect(0, 8, 2, 10); got != want {
		t.Errorf("written rect = %v, want %v", got, want)
	}

	pv := s.Buffer(Preview)
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			inside := image.Pt(x, y).In(got)
			c := pv.At(x, y)
			if inside && c != (color.NRGBA{255, 255, 255, 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want white", x, y, c)
			}
			if !inside && c != before.At(x, y) {
				t.Fatalf("pixel (%d,%d) outside write changed", x, y)
			}
		}
	}
}

func TestWriteRegionRejectsReferenceLayers(t *testing.T) {
	s := newTestStack(t)
	reg := NewRegion(2, 2)
	for _, id := range []BufferID{Original, Processed} {
		if _, err := s.WriteRegion(id, 0, 0, reg); !errors.Is(err, ErrReadOnly) {
			t.Errorf("WriteRegion(%v) error = %v, want ErrReadOnly", id, err)
		}
	}
	if _, err := s.WriteRegion(BufferID(42), 0, 0, reg); err == nil {
		t.Error("WriteRegion(unknown) succeeded")
	}
}

func TestWriteRegionShortPixData(t *testing.T) {
	s := newTestStack(t)
	reg := Region{Width: 4, Height: 4, Pix: make([]uint8, 8)}
	got, err := s.WriteRegion(Preview, 0, 0, reg)
	if err != nil || !got.Empty() {
		t.Errorf("WriteRegion(short) = %v, %v; want empty, nil", got, err)
	}
}

func TestExportPreview(t *testing.T) {
	s := newTestStack(t)
	data, err := s.ExportPreview()
	if err != nil {
		t.Fatalf("ExportPreview: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		t.Fatalf("decoded %T, want *image.NRGBA", img)
	}
	if !bytes.Equal(nrgba.Pix, s.Buffer(Preview).Pix()) {
		t.Error("exported PNG differs from preview")
	}

	uri, err := s.ExportPreviewDataURL()
	if err != nil {
		t.Fatalf("ExportPreviewDataURL: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("ExportPreviewDataURL() = %.30q..., want PNG data URL", uri)
	}
}

func TestReset(t *testing.T) {
	s := newTestStack(t)
	s.Buffer(Preview).Clear()
	s.Buffer(Mask).Set(1, 1, color.NRGBA{A: 200})

	s.Reset()
	if !s.Buffer(Preview).Equal(s.Buffer(Processed)) {
		t.Error("preview != processed after Reset")
	}
	if s.Buffer(Mask).At(1, 1).A != 0 {
		t.Error("mask not cleared by Reset")
	}
}

func TestBufferIDString(t *testing.T) {
	tests := []struct {
		id   BufferID
		want string
	}{
		{Original, "original"},
		{Processed, "processed"},
		{Mask, "mask"},
		{Preview, "preview"},
		{BufferID(9), "BufferID(9)"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("BufferID(%d).String() = %q, want %q", int(tt.id), got, tt.want)
		}
	}
}

func TestWriteRegionHugeOffset(t *testing.T) {
	s := newTestStack(t)
	reg := NewRegion(4, 4)
	for _, p := range []image.Point{{math.MaxInt - 2, 0}, {0, math.MaxInt - 2}, {math.MinInt, 0}} {
		r, err := s.WriteRegion(Preview, p.X, p.Y, reg)
		if err != nil {
			t.Fatalf("WriteRegion(%v): %v", p, err)
		}
		if !r.Empty() {
			t.Errorf("WriteRegion(%v) = %v, want empty", p, r)
		}
	}
}
