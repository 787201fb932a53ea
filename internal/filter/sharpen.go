package filter

// Sharpen applies an unsharp 3x3 convolution in place. The kernel has
// 1+4*amount at the center, -amount at the four edge-adjacent taps, and
// zero at the corners, so weights sum to 1 and flat regions pass through
// unchanged. The one-pixel border ring is left untouched.
//
// snapshot must hold a copy of data taken before the call; the kernel
// reads neighbors from the snapshot so that already-written pixels do not
// feed back into the convolution. Alpha is preserved.
func Sharpen(data, snapshot []uint8, width, height int, amount float64) {
	if amount == 0 || width < 3 || height < 3 {
		return
	}

	center := 1 + 4*amount
	row := width * 4

	for y := 1; y < height-1; y++ {
		i := (y*width + 1) * 4
		for x := 1; x < width-1; x++ {
			for c := 0; c < 3; c++ {
				v := center*float64(snapshot[i+c]) -
					amount*(float64(snapshot[i+c-4])+
						float64(snapshot[i+c+4])+
						float64(snapshot[i+c-row])+
						float64(snapshot[i+c+row]))
				data[i+c] = clampUint8(v)
			}
			data[i+3] = snapshot[i+3]
			i += 4
		}
	}
}
