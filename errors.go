package refine

import (
	"errors"
	"fmt"

	imgio "github.com/charactercut/refine/internal/image"
	"github.com/charactercut/refine/layers"
)

// Sentinel errors. InitError values match the Err* kind sentinels with
// errors.Is.
var (
	ErrNotInitialized = errors.New("refine: session has no images")
	ErrClosed         = errors.New("refine: session closed")

	ErrDecodeFailure = errors.New("refine: image could not be decoded")
	ErrZeroDimension = errors.New("refine: image has zero width or height")
	ErrTooLarge      = errors.New("refine: image exceeds size limits")
)

// InitErrorKind classifies why Load failed.
type InitErrorKind int

const (
	DecodeFailure InitErrorKind = iota
	ZeroDimension
	TooLarge
)

// String returns the kind name.
func (k InitErrorKind) String() string {
	switch k {
	case DecodeFailure:
		return "decode failure"
	case ZeroDimension:
		return "zero dimension"
	case TooLarge:
		return "too large"
	}
	return fmt.Sprintf("InitErrorKind(%d)", int(k))
}

func (k InitErrorKind) sentinel() error {
	switch k {
	case ZeroDimension:
		return ErrZeroDimension
	case TooLarge:
		return ErrTooLarge
	}
	return ErrDecodeFailure
}

// InitError reports a failure to load one of the session images.
type InitError struct {
	Kind InitErrorKind
	// Image is "original" or "processed".
	Image string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("refine: load %s image: %v: %v", e.Image, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *InitError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error kind.
func (e *InitError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// newInitError classifies a decode or stack construction error.
func newInitError(which string, err error) *InitError {
	kind := DecodeFailure
	switch {
	case errors.Is(err, imgio.ErrTooLarge):
		kind = TooLarge
	case errors.Is(err, imgio.ErrZeroDimension), errors.Is(err, layers.ErrZeroDimension):
		kind = ZeroDimension
	}
	return &InitError{Kind: kind, Image: which, Err: err}
}
