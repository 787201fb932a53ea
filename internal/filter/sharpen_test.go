package filter

import (
	"bytes"
	"testing"
)

func uniform(w, h int, r, g, b, a uint8) []uint8 {
	data := make([]uint8, w*h*4)
	for i := 0; i < len(data); i += 4 {
		data[i], data[i+1], data[i+2], data[i+3] = r, g, b, a
	}
	return data
}

func snapshotOf(data []uint8) []uint8 {
	s := make([]uint8, len(data))
	copy(s, data)
	return s
}

// TestSharpenUniformIsNoOp verifies flat regions pass through: the kernel
// weights sum to 1.
func TestSharpenUniformIsNoOp(t *testing.T) {
	data := uniform(5, 5, 120, 130, 140, 255)
	original := snapshotOf(data)

	Sharpen(data, snapshotOf(data), 5, 5, 1.5)
	if !bytes.Equal(data, original) {
		t.Error("sharpen changed a uniform image")
	}
}

// TestSharpenZeroAmountIsNoOp verifies amount 0 leaves pixels alone.
func TestSharpenZeroAmountIsNoOp(t *testing.T) {
	data := uniform(4, 4, 10, 20, 30, 255)
	data[(1*4+1)*4] = 200
	original := snapshotOf(data)

	Sharpen(data, snapshotOf(data), 4, 4, 0)
	if !bytes.Equal(data, original) {
		t.Error("sharpen with amount 0 changed pixels")
	}
}

// TestSharpenBorderUntouched verifies the one-pixel border ring keeps its
// original values.
func TestSharpenBorderUntouched(t *testing.T) {
	const w, h = 5, 5
	data := make([]uint8, w*h*4)
	for i := range data {
		data[i] = uint8(i * 7) // arbitrary non-uniform content
	}
	original := snapshotOf(data)

	Sharpen(data, snapshotOf(data), w, h, 2)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 && x < w-1 && y > 0 && y < h-1 {
				continue
			}
			i := (y*w + x) * 4
			if !bytes.Equal(data[i:i+4], original[i:i+4]) {
				t.Fatalf("border pixel (%d, %d) changed", x, y)
			}
		}
	}
}

// TestSharpenAmplifiesEdge verifies a bright pixel on a dark field gets
// brighter and its neighbors darker, in the interior.
func TestSharpenAmplifiesEdge(t *testing.T) {
	const w, h = 5, 5
	data := uniform(w, h, 100, 100, 100, 255)
	center := (2*w + 2) * 4
	data[center] = 180 // red spike at (2, 2)

	Sharpen(data, snapshotOf(data), w, h, 1)

	// Center: (1+4)*180 - 1*(4*100) = 500 clamps to 255.
	if data[center] != 255 {
		t.Errorf("center: got %d, want 255", data[center])
	}
	// Orthogonal neighbor (2, 1): 5*100 - (100+100+100+180) = 20.
	neighbor := (1*w + 2) * 4
	if data[neighbor] != 20 {
		t.Errorf("neighbor: got %d, want 20", data[neighbor])
	}
	// Diagonal neighbor (1, 1) sees no spike: corners have zero weight.
	diagonal := (1*w + 1) * 4
	if data[diagonal] != 100 {
		t.Errorf("diagonal: got %d, want 100", data[diagonal])
	}
}

// TestSharpenReadsSnapshotNotOutput verifies already-written pixels do
// not feed back into the convolution.
func TestSharpenReadsSnapshotNotOutput(t *testing.T) {
	const w, h = 4, 3
	// Two interior pixels side by side with different values; if the
	// filter read its own output, (2, 1) would see the sharpened (1, 1).
	data := uniform(w, h, 100, 100, 100, 255)
	a := (1*w + 1) * 4
	b := (1*w + 2) * 4
	data[a] = 140
	data[b] = 60

	Sharpen(data, snapshotOf(data), w, h, 1)

	// (2, 1): 5*60 - (140 + 100 + 100 + 100) = -140 clamps to 0, using
	// the original 140 at (1, 1), not its sharpened value.
	if data[b] != 0 {
		t.Errorf("pixel b: got %d, want 0", data[b])
	}
	// (1, 1): 5*140 - (100 + 60 + 100 + 100) = 340 clamps to 255.
	if data[a] != 255 {
		t.Errorf("pixel a: got %d, want 255", data[a])
	}
}
