package enhance

import "sync"

// pixmapPool is a thread-safe pool of scratch pixmaps grouped by
// dimensions. Convolution-style filters (sharpen, denoise) read from a
// snapshot of the buffer while writing in place; the snapshot comes from
// here so repeated calls of the same image size do not reallocate.
type pixmapPool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Pixmap
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
}

func newPixmapPool(maxPerBucket int) *pixmapPool {
	return &pixmapPool{
		buckets: make(map[poolKey][]*Pixmap),
		maxSize: maxPerBucket,
	}
}

// get retrieves a pixmap of the given dimensions from the pool or
// allocates a new one. Contents are unspecified; callers overwrite.
func (p *pixmapPool) get(width, height int) *Pixmap {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		pm := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return pm
	}
	p.mu.Unlock()

	pm, err := NewPixmap(width, height)
	if err != nil {
		return nil
	}
	return pm
}

// put returns a pixmap to the pool for reuse. Full buckets discard the
// buffer and let the GC reclaim it.
func (p *pixmapPool) put(pm *Pixmap) {
	if pm == nil {
		return
	}
	key := poolKey{width: pm.width, height: pm.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, pm)
}

// drain empties the pool.
func (p *pixmapPool) drain() {
	p.mu.Lock()
	p.buckets = make(map[poolKey][]*Pixmap)
	p.mu.Unlock()
}
