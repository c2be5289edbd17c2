package refine

import "fmt"

// StatusKind identifies a session status event.
type StatusKind int

const (
	// StatusReady is emitted once both images are loaded.
	StatusReady StatusKind = iota
	// StatusError is emitted when loading fails.
	StatusError
	// StatusReset is emitted after Reset discarded all edits.
	StatusReset
)

func (k StatusKind) String() string {
	switch k {
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusReset:
		return "reset"
	}
	return fmt.Sprintf("StatusKind(%d)", int(k))
}

// Status is delivered to the listener registered with WithStatusListener.
type Status struct {
	Kind          StatusKind
	Width, Height int
	// Resampled is set on StatusReady when the processed image had to be
	// scaled to the original's size.
	Resampled bool
	Err       error
}

// StatusListener receives status events synchronously, on the goroutine
// that caused them.
type StatusListener func(Status)

func (s *Session) emit(st Status) {
	if s.opts.listener != nil {
		s.opts.listener(st)
	}
}
