// Package cache provides a small generic LRU cache.
//
//	c := cache.New[key, *image.NRGBA](4, func(img *image.NRGBA) { pool.Put(img) })
//	c.Put(k, scaled)
//	img, ok := c.Get(k)
//
// Cache is safe for concurrent use.
package cache

import "sync"

// node is an entry of the recency list.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// Cache is a fixed-capacity LRU cache. When full, Put evicts the least
// recently used entry and hands its value to the eviction callback.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*node[K, V]
	head     *node[K, V] // most recently used
	tail     *node[K, V] // least recently used
	capacity int
	onEvict  func(V)

	hits, misses uint64
}

// New creates a cache holding at most capacity entries (minimum 1).
// onEvict, if not nil, receives every value that leaves the cache through
// eviction, replacement, Delete or Clear.
func New[K comparable, V any](capacity int, onEvict func(V)) *Cache[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[K, V]{
		entries:  make(map[K]*node[K, V], capacity),
		capacity: capacity,
		onEvict:  onEvict,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.moveToFront(n)
	return n.value, true
}

// Put stores value under key, evicting the least recently used entry if the
// cache is full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	var evicted []V
	if n, ok := c.entries[key]; ok {
		evicted = append(evicted, n.value)
		n.value = value
		c.moveToFront(n)
	} else {
		n := &node[K, V]{key: key, value: value}
		c.entries[key] = n
		c.pushFront(n)
		for len(c.entries) > c.capacity {
			old := c.tail
			c.unlink(old)
			delete(c.entries, old.key)
			evicted = append(evicted, old.value)
		}
	}
	c.mu.Unlock()
	c.evict(evicted)
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	n, ok := c.entries[key]
	if ok {
		c.unlink(n)
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if ok {
		c.evict([]V{n.value})
	}
	return ok
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	evicted := make([]V, 0, len(c.entries))
	for n := c.head; n != nil; n = n.next {
		evicted = append(evicted, n.value)
	}
	c.entries = make(map[K]*node[K, V], c.capacity)
	c.head, c.tail = nil, nil
	c.mu.Unlock()
	c.evict(evicted)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the number of Get hits and misses.
func (c *Cache[K, V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// evict runs the callback outside the lock.
func (c *Cache[K, V]) evict(values []V) {
	if c.onEvict == nil {
		return
	}
	for _, v := range values {
		c.onEvict(v)
	}
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if c.head == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
