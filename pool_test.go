package enhance

import "testing"

// TestPoolReuse verifies a returned pixmap is handed out again for the
// same dimensions.
func TestPoolReuse(t *testing.T) {
	p := newPixmapPool(4)

	pm := p.get(8, 6)
	if pm == nil || pm.Width() != 8 || pm.Height() != 6 {
		t.Fatalf("get: got %v", pm)
	}
	p.put(pm)

	again := p.get(8, 6)
	if again != pm {
		t.Error("pool allocated a new pixmap instead of reusing")
	}

	// Different dimensions get a fresh buffer.
	other := p.get(8, 7)
	if other == pm {
		t.Error("pool returned a buffer of the wrong dimensions")
	}
}

// TestPoolBucketCap verifies full buckets discard instead of growing.
func TestPoolBucketCap(t *testing.T) {
	p := newPixmapPool(2)

	a, _ := NewPixmap(4, 4)
	b, _ := NewPixmap(4, 4)
	c, _ := NewPixmap(4, 4)
	p.put(a)
	p.put(b)
	p.put(c) // over cap, dropped

	if got := len(p.buckets[poolKey{4, 4}]); got != 2 {
		t.Errorf("bucket size: got %d, want 2", got)
	}
}

// TestPoolDrain verifies drain empties every bucket.
func TestPoolDrain(t *testing.T) {
	p := newPixmapPool(4)
	p.put(mustPixmap(t, 2, 2))
	p.put(mustPixmap(t, 3, 3))

	p.drain()
	if got := len(p.buckets); got != 0 {
		t.Errorf("buckets after drain: got %d, want 0", got)
	}
}

// TestPoolInvalidDimensions verifies the pool refuses to allocate
// nonsense sizes.
func TestPoolInvalidDimensions(t *testing.T) {
	p := newPixmapPool(4)
	if pm := p.get(0, 5); pm != nil {
		t.Errorf("get(0, 5): got %v, want nil", pm)
	}
}

func mustPixmap(t *testing.T, w, h int) *Pixmap {
	t.Helper()
	pm, err := NewPixmap(w, h)
	if err != nil {
		t.Fatalf("NewPixmap(%d, %d): %v", w, h, err)
	}
	return pm
}
