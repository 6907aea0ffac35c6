package image

import "sync"

// Pool is a thread-safe pool for reusing Buf instances.
//
// Pool groups buffers by their dimensions. Compositing allocates a scratch
// buffer the size of the target for every isolated group and every clip run,
// so identically-sized buffers come back many times per render.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buf
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identically-sized buffers.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a new buffer pool with the given maximum buffers per bucket.
// A maxPerBucket of 0 or less means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buf),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a transparent buffer from the pool or creates a new one.
// Returns ErrInvalidDimensions if width or height is not positive.
func (p *Pool) Get(width, height int) (*Buf, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return NewBuf(width, height)
}

// Put clears a buffer and returns it to the pool.
// If buf is nil or its bucket is full, the buffer is discarded.
func (p *Pool) Put(buf *Buf) {
	if buf == nil {
		return
	}
	buf.Clear()

	key := poolKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers across all buckets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
