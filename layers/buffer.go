package layers

import (
	"bytes"
	"image"
	"image/color"
)

// Buffer is a fixed-size grid of straight-alpha RGBA pixels.
type Buffer struct {
	img *image.NRGBA
}

// NewBuffer allocates a transparent buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Width returns the width of the buffer.
func (b *Buffer) Width() int {
	return b.img.Rect.Dx()
}

// Height returns the height of the buffer.
func (b *Buffer) Height() int {
	return b.img.Rect.Dy()
}

// Bounds returns the buffer rectangle, always anchored at (0, 0).
func (b *Buffer) Bounds() image.Rectangle {
	return b.img.Rect
}

// Pix returns the raw pixel data, 4 bytes per pixel.
func (b *Buffer) Pix() []uint8 {
	return b.img.Pix
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.img.Stride
}

// Image returns the buffer as an *image.NRGBA sharing memory with it.
func (b *Buffer) Image() *image.NRGBA {
	return b.img
}

// PixOffset returns the index of the first byte of pixel (x, y).
// Callers must bounds-check first.
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.img.Stride + x*4
}

// At returns the color of pixel (x, y), transparent when out of bounds.
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Set writes pixel (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	b.img.SetNRGBA(x, y, c)
}

// Clear sets every pixel to transparent black.
func (b *Buffer) Clear() {
	clear(b.img.Pix)
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.Width(), b.Height())
	copy(c.img.Pix, b.img.Pix)
	return c
}

// CopyFrom overwrites b with the pixels of src. It reports false, leaving b
// untouched, when the sizes differ.
func (b *Buffer) CopyFrom(src *Buffer) bool {
	if src.Width() != b.Width() || src.Height() != b.Height() {
		return false
	}
	copy(b.img.Pix, src.img.Pix)
	return true
}

// Equal reports whether both buffers have the same size and pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	return b.Bounds() == o.Bounds() && bytes.Equal(b.img.Pix, o.img.Pix)
}
