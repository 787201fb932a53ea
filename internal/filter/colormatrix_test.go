package filter

import (
	"bytes"
	"testing"
)

func pixels(vals ...uint8) []uint8 {
	out := make([]uint8, len(vals))
	copy(out, vals)
	return out
}

// TestIdentityPassthrough verifies the identity matrix changes nothing.
func TestIdentityPassthrough(t *testing.T) {
	data := pixels(10, 20, 30, 255, 200, 150, 100, 128)
	original := pixels(data...)

	m := Identity()
	m.Apply(data, 2, 1)
	if !bytes.Equal(data, original) {
		t.Errorf("identity changed pixels: got %v, want %v", data, original)
	}
}

// TestBrightnessScalesAndClamps verifies the brightness stage.
func TestBrightnessScalesAndClamps(t *testing.T) {
	data := pixels(100, 150, 200, 77)

	m := Brightness(1.5)
	m.Apply(data, 1, 1)
	// 100*1.5=150, 150*1.5=225, 200*1.5=300 clamps to 255; alpha untouched.
	want := pixels(150, 225, 255, 77)
	if !bytes.Equal(data, want) {
		t.Errorf("brightness: got %v, want %v", data, want)
	}

	data = pixels(100, 100, 100, 255)
	m = Brightness(0)
	m.Apply(data, 1, 1)
	want = pixels(0, 0, 0, 255)
	if !bytes.Equal(data, want) {
		t.Errorf("brightness 0: got %v, want %v", data, want)
	}
}

// TestContrastMidpoint verifies contrast scales distance from 128.
func TestContrastMidpoint(t *testing.T) {
	data := pixels(64, 128, 200, 255)

	m := Contrast(2)
	m.Apply(data, 1, 1)
	// (64-128)*2+128=0; 128 fixed; (200-128)*2+128=272 clamps.
	want := pixels(0, 128, 255, 255)
	if !bytes.Equal(data, want) {
		t.Errorf("contrast 2: got %v, want %v", data, want)
	}

	data = pixels(64, 128, 200, 255)
	m = Contrast(0)
	m.Apply(data, 1, 1)
	want = pixels(128, 128, 128, 255)
	if !bytes.Equal(data, want) {
		t.Errorf("contrast 0: got %v, want %v", data, want)
	}
}

// TestSaturationGrayscale verifies factor 0 collapses to Rec. 601 luma
// and factor 1 is the identity.
func TestSaturationGrayscale(t *testing.T) {
	data := pixels(100, 150, 200, 255)

	m := Saturation(0)
	m.Apply(data, 1, 1)
	// 0.299*100 + 0.587*150 + 0.114*200 = 140.75, rounds to 141.
	want := pixels(141, 141, 141, 255)
	if !bytes.Equal(data, want) {
		t.Errorf("saturation 0: got %v, want %v", data, want)
	}

	data = pixels(100, 150, 200, 255)
	original := pixels(data...)
	m = Saturation(1)
	m.Apply(data, 1, 1)
	if !bytes.Equal(data, original) {
		t.Errorf("saturation 1: got %v, want %v", data, original)
	}
}

// TestSaturationPreservesGray verifies grays are exact fixed points of
// the saturation stage for any factor: the luma weights sum to 1, so
// gray + f*(c-gray) is c when all channels equal gray, and the rounding
// clamp must not disturb it.
func TestSaturationPreservesGray(t *testing.T) {
	for _, factor := range []float64{0, 0.5, 1, 2} {
		for _, v := range []uint8{0, 1, 89, 90, 128, 254, 255} {
			data := pixels(v, v, v, 255)
			m := Saturation(factor)
			m.Apply(data, 1, 1)
			if data[0] != v || data[1] != v || data[2] != v {
				t.Errorf("saturation %v on gray %d: got %v", factor, v, data[:3])
			}
		}
	}
}

// TestCorrectionPerChannel verifies gain and offset apply independently
// per channel.
func TestCorrectionPerChannel(t *testing.T) {
	data := pixels(50, 100, 240, 31)

	m := Correction(2, 10, 1, -30, 1.5, 0)
	m.Apply(data, 1, 1)
	// 50*2+10=110; 100-30=70; 240*1.5=360 clamps; alpha untouched.
	want := pixels(110, 70, 255, 31)
	if !bytes.Equal(data, want) {
		t.Errorf("correction: got %v, want %v", data, want)
	}
}

// TestLinearStagesMonotonic verifies each linear stage is monotonic in
// its factor within the clamped [0, 255] bounds: growing brightness never
// darkens a channel, growing contrast pushes channels away from the 128
// midpoint, and growing saturation pushes channels away from the pixel's
// luma.
func TestLinearStagesMonotonic(t *testing.T) {
	factors := []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3, 5}

	apply := func(m ColorMatrix, r, g, b uint8) [3]uint8 {
		data := pixels(r, g, b, 255)
		m.Apply(data, 1, 1)
		return [3]uint8{data[0], data[1], data[2]}
	}

	// Brightness: non-decreasing in the factor for every channel.
	prev := [3]uint8{}
	for i, f := range factors {
		got := apply(Brightness(f), 40, 128, 200)
		if i > 0 {
			for c := 0; c < 3; c++ {
				if got[c] < prev[c] {
					t.Errorf("brightness %v: channel %d decreased %d -> %d", f, c, prev[c], got[c])
				}
			}
		}
		prev = got
	}

	// Contrast: channels above 128 non-decreasing, below 128
	// non-increasing, 128 itself fixed.
	prev = [3]uint8{}
	for i, f := range factors {
		got := apply(Contrast(f), 40, 128, 200)
		if got[1] != 128 {
			t.Errorf("contrast %v: midpoint moved to %d", f, got[1])
		}
		if i > 0 {
			if got[0] > prev[0] {
				t.Errorf("contrast %v: dark channel increased %d -> %d", f, prev[0], got[0])
			}
			if got[2] < prev[2] {
				t.Errorf("contrast %v: bright channel decreased %d -> %d", f, prev[2], got[2])
			}
		}
		prev = got
	}

	// Saturation: the pixel (100, 150, 200) has luma 140.75; the red
	// channel sits below it and must not increase with the factor, the
	// blue channel sits above and must not decrease.
	prev = [3]uint8{}
	for i, f := range factors {
		got := apply(Saturation(f), 100, 150, 200)
		if i > 0 {
			if got[0] > prev[0] {
				t.Errorf("saturation %v: below-luma channel increased %d -> %d", f, prev[0], got[0])
			}
			if got[2] < prev[2] {
				t.Errorf("saturation %v: above-luma channel decreased %d -> %d", f, prev[2], got[2])
			}
		}
		prev = got
	}
}
