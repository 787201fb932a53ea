package filter

// Rec. 601 luma weights, shared by the saturation stage and the palette
// sampling path on the GPU side.
const (
	LumR = 0.299
	LumG = 0.587
	LumB = 0.114
)

// ColorMatrix applies a 4x5 color transformation to a pixel buffer.
// The transformation is:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// The fifth column provides bias/offset values. Color values are in
// [0, 255] range during transformation, then clamped back to valid range.
type ColorMatrix struct {
	// Matrix is the 4x5 transformation matrix in row-major order.
	// [0-4] = row 0 (R), [5-9] = row 1 (G), [10-14] = row 2 (B), [15-19] = row 3 (A)
	Matrix [20]float64
}

// Identity returns a matrix that passes pixels through unchanged.
func Identity() ColorMatrix {
	return ColorMatrix{
		Matrix: [20]float64{
			1, 0, 0, 0, 0, // R
			0, 1, 0, 0, 0, // G
			0, 0, 1, 0, 0, // B
			0, 0, 0, 1, 0, // A
		},
	}
}

// Brightness returns a matrix that scales each color channel by factor.
// factor: 0.0 = black, 1.0 = unchanged, 2.0 = twice as bright.
func Brightness(factor float64) ColorMatrix {
	return ColorMatrix{
		Matrix: [20]float64{
			factor, 0, 0, 0, 0,
			0, factor, 0, 0, 0,
			0, 0, factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Contrast returns a matrix that scales each channel's distance from the
// 128 midpoint: (c - 128) * factor + 128.
// factor: 0.0 = flat gray, 1.0 = unchanged, 2.0 = high contrast.
func Contrast(factor float64) ColorMatrix {
	offset := 128 * (1 - factor)
	return ColorMatrix{
		Matrix: [20]float64{
			factor, 0, 0, 0, offset,
			0, factor, 0, 0, offset,
			0, 0, factor, 0, offset,
			0, 0, 0, 1, 0,
		},
	}
}

// Saturation returns a matrix that blends each channel between the pixel's
// Rec. 601 luma (factor 0) and its original value (factor 1):
// c' = gray + factor * (c - gray).
// factor: 0.0 = grayscale, 1.0 = unchanged, 2.0 = oversaturated.
func Saturation(factor float64) ColorMatrix {
	inv := 1 - factor
	return ColorMatrix{
		Matrix: [20]float64{
			LumR*inv + factor, LumG * inv, LumB * inv, 0, 0,
			LumR * inv, LumG*inv + factor, LumB * inv, 0, 0,
			LumR * inv, LumG * inv, LumB*inv + factor, 0, 0,
			0, 0, 0, 1, 0,
		},
	}
}

// Correction returns a matrix applying per-channel gain and offset:
// c' = c*gain + offset.
func Correction(redGain, redOffset, greenGain, greenOffset, blueGain, blueOffset float64) ColorMatrix {
	return ColorMatrix{
		Matrix: [20]float64{
			redGain, 0, 0, 0, redOffset,
			0, greenGain, 0, 0, greenOffset,
			0, 0, blueGain, 0, blueOffset,
			0, 0, 0, 1, 0,
		},
	}
}

// Apply transforms the buffer in place. data is straight RGBA, 4 bytes
// per pixel; width*height*4 must not exceed len(data). Output channels
// are clamped to [0, 255].
func (f *ColorMatrix) Apply(data []uint8, width, height int) {
	m := &f.Matrix
	n := width * height * 4
	for i := 0; i < n; i += 4 {
		r := float64(data[i])
		g := float64(data[i+1])
		b := float64(data[i+2])
		a := float64(data[i+3])

		data[i] = clampUint8(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
		data[i+1] = clampUint8(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
		data[i+2] = clampUint8(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
		data[i+3] = clampUint8(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])
	}
}

// clampUint8 clamps to [0, 255] and rounds to nearest. Rounding (rather
// than truncating) keeps exact-integer results stable under float jitter,
// so values the formulas map to themselves stay fixed points.
func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
