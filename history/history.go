package history

import (
	"errors"
	"fmt"
	"image"

	"github.com/klauspost/compress/zstd"

	"github.com/charactercut/refine/internal/logging"
)

// DefaultLimit is the number of undo steps kept when none is configured.
const DefaultLimit = 20

var (
	// ErrSizeMismatch is returned when an image does not match the
	// dimensions of a stored snapshot.
	ErrSizeMismatch = errors.New("history: image size does not match snapshot")

	// ErrCorrupt is returned when a snapshot fails to decompress to the
	// expected size.
	ErrCorrupt = errors.New("history: corrupt snapshot")

	// ErrClosed is returned by operations on a closed Manager.
	ErrClosed = errors.New("history: manager closed")
)

// Entry is one compressed snapshot.
type Entry struct {
	width, height int
	data          []byte
}

// Size returns the compressed size in bytes.
func (e Entry) Size() int { return len(e.data) }

// Manager is a bounded undo/redo stack of image snapshots.
//
// Manager is not safe for concurrent use.
type Manager struct {
	undo  []Entry
	redo  []Entry
	limit int

	enc     *zstd.Encoder
	dec     *zstd.Decoder
	scratch []byte
	closed  bool
}

// New creates a Manager keeping at most limit undo steps.
// A limit below 1 selects DefaultLimit.
func New(limit int) (*Manager, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("history: create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("history: create decoder: %w", err)
	}
	return &Manager{limit: normLimit(limit), enc: enc, dec: dec}, nil
}

func normLimit(n int) int {
	if n < 1 {
		return DefaultLimit
	}
	return n
}

// Limit returns the maximum number of undo steps.
func (m *Manager) Limit() int { return m.limit }

// SetLimit changes the bound, discarding the oldest undo steps if needed.
func (m *Manager) SetLimit(n int) {
	m.limit = normLimit(n)
	m.trim()
}

// Len returns the number of undo steps available.
func (m *Manager) Len() int { return len(m.undo) }

// RedoLen returns the number of redo steps available.
func (m *Manager) RedoLen() int { return len(m.redo) }

// CanUndo reports whether Undo would restore a snapshot.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would restore a snapshot.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Bytes returns the compressed size of every stored snapshot.
func (m *Manager) Bytes() int {
	n := 0
	for _, e := range m.undo {
		n += e.Size()
	}
	for _, e := range m.redo {
		n += e.Size()
	}
	return n
}

// Snapshot records img as the newest undo step and clears the redo stack.
func (m *Manager) Snapshot(img *image.NRGBA) error {
	e, err := m.encode(img)
	if err != nil {
		return err
	}
	m.undo = append(m.undo, e)
	m.redo = m.redo[:0]
	m.trim()
	logging.Logger().Debug("history: snapshot", "steps", len(m.undo), "bytes", e.Size())
	return nil
}

// Undo replaces img with the newest undo step, saving the current content
// for Redo. It reports false when there is nothing to undo.
func (m *Manager) Undo(img *image.NRGBA) (bool, error) {
	return m.swap(img, &m.undo, &m.redo)
}

// Redo re-applies the most recently undone step. It reports false when
// there is nothing to redo.
func (m *Manager) Redo(img *image.NRGBA) (bool, error) {
	return m.swap(img, &m.redo, &m.undo)
}

// Clear drops every undo and redo step.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

// Close releases the compressor resources. The Manager must not be used
// afterwards.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.Clear()
	m.dec.Close()
	return m.enc.Close()
}

// swap pops from src into img and pushes the previous content of img to dst.
func (m *Manager) swap(img *image.NRGBA, src, dst *[]Entry) (bool, error) {
	if m.closed {
		return false, ErrClosed
	}
	if len(*src) == 0 {
		return false, nil
	}
	top := (*src)[len(*src)-1]
	cur, err := m.encode(img)
	if err != nil {
		return false, err
	}
	if err := m.decode(top, img); err != nil {
		return false, err
	}
	*src = (*src)[:len(*src)-1]
	*dst = append(*dst, cur)
	return true, nil
}

// trim discards the oldest undo entries beyond the limit.
func (m *Manager) trim() {
	if over := len(m.undo) - m.limit; over > 0 {
		n := copy(m.undo, m.undo[over:])
		clear(m.undo[n:])
		m.undo = m.undo[:n]
		logging.Logger().Debug("history: evicted oldest steps", "count", over)
	}
}

func (m *Manager) encode(img *image.NRGBA) (Entry, error) {
	if m.closed {
		return Entry{}, ErrClosed
	}
	if img == nil {
		return Entry{}, fmt.Errorf("history: nil image")
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	row := 4 * w
	var raw []byte
	if img.Stride == row {
		raw = img.Pix[:row*h]
	} else {
		raw = m.scratchBuf(row * h)
		for y := 0; y < h; y++ {
			o := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			copy(raw[y*row:], img.Pix[o:o+row])
		}
	}
	return Entry{width: w, height: h, data: m.enc.EncodeAll(raw, nil)}, nil
}

func (m *Manager) decode(e Entry, img *image.NRGBA) error {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w != e.width || h != e.height {
		return fmt.Errorf("%w: image %dx%d, snapshot %dx%d", ErrSizeMismatch, w, h, e.width, e.height)
	}
	row := 4 * w
	out, err := m.dec.DecodeAll(e.data, m.scratchBuf(0))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	m.scratch = out
	if len(out) != row*h {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrCorrupt, len(out), row*h)
	}
	for y := 0; y < h; y++ {
		o := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(img.Pix[o:o+row], out[y*row:(y+1)*row])
	}
	return nil
}

// scratchBuf returns the reusable scratch slice resized to n bytes.
func (m *Manager) scratchBuf(n int) []byte {
	if cap(m.scratch) < n {
		m.scratch = make([]byte, n)
	}
	return m.scratch[:n]
}
