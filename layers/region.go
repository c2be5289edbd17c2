package layers

import "image"

// Region is a detached copy of a rectangular block of pixels.
// X and Y record where the block was read from; Pix holds Width*Height
// pixels packed row by row, 4 bytes each.
type Region struct {
	X, Y          int
	Width, Height int
	Pix           []uint8
}

// NewRegion allocates a transparent region of the given size.
func NewRegion(width, height int) Region {
	if width <= 0 || height <= 0 {
		return Region{}
	}
	return Region{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
}

// Empty reports whether the region holds no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bounds returns the rectangle the region was read from.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// span clips [p, p+n) to [0, size) without overflowing. Non-positive n
// yields an empty span.
func span(p, n, size int) (lo, hi int) {
	if n <= 0 || p >= size {
		return 0, 0
	}
	hi = size
	if p < 0 {
		if end := p + n; end < size {
			hi = end
		}
		p = 0
	} else if n < size-p {
		hi = p + n
	}
	if hi <= p {
		return 0, 0
	}
	return p, hi
}

// clip returns the part of the w x h block at (x, y) inside the buffer.
func (b *Buffer) clip(x, y, w, h int) image.Rectangle {
	x0, x1 := span(x, w, b.Width())
	y0, y1 := span(y, h, b.Height())
	if x0 == x1 || y0 == y1 {
		return image.Rectangle{}
	}
	return image.Rect(x0, y0, x1, y1)
}

// readRegion copies the intersection of (x, y, w, h) with the buffer.
func (b *Buffer) readRegion(x, y, w, h int) Region {
	rect := b.clip(x, y, w, h)
	if rect.Empty() {
		return Region{}
	}
	reg := NewRegion(rect.Dx(), rect.Dy())
	reg.X, reg.Y = rect.Min.X, rect.Min.Y
	rowBytes := rect.Dx() * 4
	for row := 0; row < rect.Dy(); row++ {
		so := b.PixOffset(rect.Min.X, rect.Min.Y+row)
		copy(reg.Pix[row*rowBytes:(row+1)*rowBytes], b.img.Pix[so:so+rowBytes])
	}
	return reg
}

// writeRegion places reg with its top-left corner at (x, y), dropping the
// parts that fall outside the buffer. It returns the rectangle written.
func (b *Buffer) writeRegion(x, y int, reg Region) image.Rectangle {
	if reg.Empty() || len(reg.Pix) < reg.Width*reg.Height*4 {
		return image.Rectangle{}
	}
	dst := b.clip(x, y, reg.Width, reg.Height)
	if dst.Empty() {
		return image.Rectangle{}
	}
	srcX, srcY := dst.Min.X-x, dst.Min.Y-y
	rowBytes := dst.Dx() * 4
	for row := 0; row < dst.Dy(); row++ {
		so := ((srcY+row)*reg.Width + srcX) * 4
		do := b.PixOffset(dst.Min.X, dst.Min.Y+row)
		copy(b.img.Pix[do:do+rowBytes], reg.Pix[so:so+rowBytes])
	}
	return dst
}
