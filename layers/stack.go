package layers

import (
	"errors"
	"fmt"
	"image"

	imgio "github.com/charactercut/refine/internal/image"
)

// Errors returned by Stack construction and mutation.
var (
	// ErrZeroDimension is returned when an input image has no pixels.
	ErrZeroDimension = errors.New("layers: zero width or height")

	// ErrNilImage is returned when an input image is missing.
	ErrNilImage = errors.New("layers: nil image")

	// ErrReadOnly is returned when a caller tries to write a reference layer.
	ErrReadOnly = errors.New("layers: buffer is read-only")
)

// BufferID names one of the four buffers of a Stack.
type BufferID int

const (
	// Original is the untouched source photo.
	Original BufferID = iota
	// Processed is the automatic cut-out result.
	Processed
	// Mask is the working alpha buffer for stroke accumulation.
	Mask
	// Preview is the live, mutable edit target.
	Preview

	bufferCount
)

// String returns the lowercase buffer name.
func (id BufferID) String() string {
	switch id {
	case Original:
		return "original"
	case Processed:
		return "processed"
	case Mask:
		return "mask"
	case Preview:
		return "preview"
	default:
		return fmt.Sprintf("BufferID(%d)", int(id))
	}
}

// Valid reports whether id names a buffer.
func (id BufferID) Valid() bool {
	return id >= Original && id < bufferCount
}

// Writable reports whether tools may modify the buffer.
func (id BufferID) Writable() bool {
	return id == Mask || id == Preview
}

// Stack owns the four same-sized buffers of an editing session.
//
// The size is fixed at construction from the original image and never
// changes. Stack is not safe for concurrent use.
type Stack struct {
	width   int
	height  int
	bufs    [bufferCount]*Buffer
	resized bool
}

// New builds a stack from the source photo and its cut-out. All buffers take
// the original's size; a processed image of a different size is resampled to
// match. Preview starts as a copy of processed.
func New(original, processed image.Image) (*Stack, error) {
	if original == nil || processed == nil {
		return nil, ErrNilImage
	}
	ob, pb := original.Bounds(), processed.Bounds()
	if ob.Empty() {
		return nil, fmt.Errorf("%w: original is %dx%d", ErrZeroDimension, ob.Dx(), ob.Dy())
	}
	if pb.Empty() {
		return nil, fmt.Errorf("%w: processed is %dx%d", ErrZeroDimension, pb.Dx(), pb.Dy())
	}

	s := &Stack{width: ob.Dx(), height: ob.Dy()}
	s.bufs[Original] = &Buffer{img: imgio.ToNRGBA(original)}
	if pb.Dx() == s.width && pb.Dy() == s.height {
		s.bufs[Processed] = &Buffer{img: imgio.ToNRGBA(processed)}
	} else {
		s.bufs[Processed] = &Buffer{img: imgio.Resample(processed, s.width, s.height)}
		s.resized = true
	}
	s.bufs[Mask] = NewBuffer(s.width, s.height)
	s.bufs[Preview] = s.bufs[Processed].Clone()
	return s, nil
}

// Width returns the width shared by all buffers.
func (s *Stack) Width() int { return s.width }

// Height returns the height shared by all buffers.
func (s *Stack) Height() int { return s.height }

// Resampled reports whether the processed image had to be scaled to the
// original's size during construction.
func (s *Stack) Resampled() bool { return s.resized }

// Buffer returns the buffer for id, or nil for an unknown id.
// Reference buffers must be treated as read-only by callers.
func (s *Stack) Buffer(id BufferID) *Buffer {
	if !id.Valid() {
		return nil
	}
	return s.bufs[id]
}

// ReadRegion returns a copy of the pixels in (x, y, w, h) intersected with
// the buffer bounds. A rectangle that misses the buffer yields an empty
// region.
func (s *Stack) ReadRegion(id BufferID, x, y, w, h int) Region {
	b := s.Buffer(id)
	if b == nil {
		return Region{}
	}
	return b.readRegion(x, y, w, h)
}

// WriteRegion writes reg with its top-left corner at (x, y), clamped to the
// buffer bounds. Only Mask and Preview accept writes.
func (s *Stack) WriteRegion(id BufferID, x, y int, reg Region) (image.Rectangle, error) {
	if !id.Valid() {
		return image.Rectangle{}, fmt.Errorf("layers: unknown buffer %v", id)
	}
	if !id.Writable() {
		return image.Rectangle{}, fmt.Errorf("%w: %v", ErrReadOnly, id)
	}
	return s.bufs[id].writeRegion(x, y, reg), nil
}

// ExportPreview encodes the preview buffer as PNG.
func (s *Stack) ExportPreview() ([]byte, error) {
	return imgio.EncodePNG(s.bufs[Preview].img)
}

// ExportPreviewDataURL encodes the preview buffer as a PNG data URI.
func (s *Stack) ExportPreviewDataURL() (string, error) {
	data, err := s.ExportPreview()
	if err != nil {
		return "", err
	}
	return imgio.PNGDataURL(data), nil
}

// Reset discards every edit: preview becomes a copy of processed again and
// the mask is cleared. Both happen in a single call so no caller can observe
// a half-reset stack.
func (s *Stack) Reset() {
	s.bufs[Preview].CopyFrom(s.bufs[Processed])
	s.bufs[Mask].Clear()
}

// ClearMask clears the working mask buffer.
func (s *Stack) ClearMask() {
	s.bufs[Mask].Clear()
}
