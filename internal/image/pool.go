package image

import (
	"image"
	"sync"
)

// Pool is a thread-safe pool for reusing off-screen NRGBA buffers.
//
// Pool groups buffers by their dimensions. A buffer handed out by Get is
// always cleared, so pixels from an unrelated earlier draw never leak into a
// new one. Get never fails: when the matching bucket is empty it allocates a
// fresh buffer.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*image.NRGBA
	maxSize int // max buffers per bucket

	hits   int
	misses int
}

// poolKey identifies a bucket of identically sized buffers.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a new buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 means unlimited (use with caution).
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*image.NRGBA),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a cleared buffer of the given size, allocating when none is
// available. Non-positive sizes yield an empty buffer.
func (p *Pool) Get(width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		bucket[n-1] = nil
		p.buckets[key] = bucket[:n-1]
		p.hits++
		p.mu.Unlock()

		clear(buf.Pix)
		return buf
	}
	p.misses++
	p.mu.Unlock()

	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Put returns a buffer to the pool for reuse.
// If buf is nil, empty, or the bucket is at capacity, the buffer is dropped.
func (p *Pool) Put(buf *image.NRGBA) {
	if buf == nil {
		return
	}
	b := buf.Bounds()
	if b.Empty() || b.Min != (image.Point{}) {
		return
	}
	key := poolKey{width: b.Dx(), height: b.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Stats reports how many Get calls were served from the pool and how many
// had to allocate.
func (p *Pool) Stats() (hits, misses int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses
}

// Len returns the number of idle buffers held across all buckets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
