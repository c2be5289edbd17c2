// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
)

// ErrUnsupportedTarget is returned when a target has no CPU-accessible
// pixels or uses a format the renderer cannot write.
var ErrUnsupportedTarget = errors.New("render: unsupported target")

// Target defines where frames are drawn.
//
// Hosts that display frames through a GPU texture can implement Target over
// a staging buffer and upload Pixels after each frame; Format tells them
// which texture format the bytes are laid out in.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target. The renderer writes
	// RGBA8Unorm and BGRA8Unorm targets.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data, 4 bytes per pixel.
	// Returns nil for targets without CPU access.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	Stride() int
}

// PixmapTarget is a CPU-backed render target using *image.RGBA.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	session.Frame(target)
//	img := target.Image()
type PixmapTarget struct {
	img    *image.RGBA
	format gputypes.TextureFormat
}

// NewPixmapTarget creates a new RGBA8 render target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return &PixmapTarget{
		img:    image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// NewBGRATarget creates a render target with BGRA byte order, the layout
// most window surfaces expect.
func NewBGRATarget(width, height int) *PixmapTarget {
	t := NewPixmapTarget(width, height)
	t.format = gputypes.TextureFormatBGRA8Unorm
	return t
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a render target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	return &PixmapTarget{img: img, format: gputypes.TextureFormatRGBA8Unorm}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.img.Bounds().Dx()
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.img.Bounds().Dy()
}

// Format returns the pixel format.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return t.format
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.img.Pix
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.img.Stride
}

// Image returns the underlying *image.RGBA.
// The returned image shares memory with the target. For BGRA targets the
// red and blue channels appear swapped.
func (t *PixmapTarget) Image() *image.RGBA {
	return t.img
}

// PixelAt returns the color at (x, y) in RGBA order regardless of Format.
func (t *PixmapTarget) PixelAt(x, y int) color.RGBA {
	c := t.img.RGBAAt(x, y)
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		c.R, c.B = c.B, c.R
	}
	return c
}

// Resize replaces the backing image. The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	t.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Ensure PixmapTarget implements Target.
var _ Target = (*PixmapTarget)(nil)

// canvasOf returns an *image.RGBA aliasing the target pixels, and whether
// the target stores BGRA.
func canvasOf(t Target) (*image.RGBA, bool, error) {
	var bgra bool
	switch t.Format() {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		bgra = true
	default:
		return nil, false, ErrUnsupportedTarget
	}
	if pt, ok := t.(*PixmapTarget); ok {
		return pt.img, bgra, nil
	}
	w, h, stride := t.Width(), t.Height(), t.Stride()
	pix := t.Pixels()
	if pix == nil || w < 0 || h < 0 || stride < 4*w || (h > 0 && len(pix) < stride*(h-1)+4*w) {
		return nil, false, ErrUnsupportedTarget
	}
	return &image.RGBA{Pix: pix, Stride: stride, Rect: image.Rect(0, 0, w, h)}, bgra, nil
}

// swapRB converts RGBA bytes to BGRA in place, or back.
func swapRB(img *image.RGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+2] = row[i+2], row[i]
		}
	}
}
