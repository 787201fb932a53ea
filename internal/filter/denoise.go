package filter

import "math"

// MaxDenoiseRadius caps the bilateral neighborhood half-width. Intensity
// above 8/3 would otherwise grow the window quadratically with little
// visible gain.
const MaxDenoiseRadius = 8

// DenoiseRadius returns the bilateral neighborhood half-width for a given
// intensity: floor(3*intensity), capped at MaxDenoiseRadius.
func DenoiseRadius(intensity float64) int {
	r := int(3 * intensity)
	if r > MaxDenoiseRadius {
		r = MaxDenoiseRadius
	}
	return r
}

// Denoise applies an edge-preserving bilateral filter in place. Each
// output channel is the weighted average of the neighborhood, where the
// weight of a neighbor falls off with both its spatial distance and its
// intensity difference from the center pixel (sigma 50*intensity for
// both). Neighborhoods are truncated at the image edge rather than
// padded. Alpha is preserved.
//
// snapshot must hold a copy of data taken before the call. Intensity
// below 1/3 yields a zero radius and is a no-op.
func Denoise(data, snapshot []uint8, width, height int, intensity float64) {
	radius := DenoiseRadius(intensity)
	if radius < 1 {
		return
	}
	sigma := 50 * intensity

	// Spatial weights depend only on the offset; range weights only on
	// the channel difference. Both are precomputed.
	size := 2*radius + 1
	spatial := make([]float64, size*size)
	twoSigmaSq := 2 * sigma * sigma
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[(dy+radius)*size+(dx+radius)] = math.Exp(-d2 / twoSigmaSq)
		}
	}
	var rangeLUT [256]float64
	for d := range rangeLUT {
		rangeLUT[d] = math.Exp(-float64(d*d) / twoSigmaSq)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			for c := 0; c < 3; c++ {
				centerVal := snapshot[i+c]
				var sum, wsum float64
				for dy := -radius; dy <= radius; dy++ {
					ny := y + dy
					if ny < 0 || ny >= height {
						continue
					}
					for dx := -radius; dx <= radius; dx++ {
						nx := x + dx
						if nx < 0 || nx >= width {
							continue
						}
						nv := snapshot[(ny*width+nx)*4+c]
						diff := int(nv) - int(centerVal)
						if diff < 0 {
							diff = -diff
						}
						w := spatial[(dy+radius)*size+(dx+radius)] * rangeLUT[diff]
						sum += w * float64(nv)
						wsum += w
					}
				}
				if wsum > 0 {
					data[i+c] = clampUint8(sum / wsum)
				}
			}
			data[i+3] = snapshot[i+3]
		}
	}
}
