package enhance

import (
	"context"
	"sort"
)

// paletteStride samples every 4th pixel in scan order. Dominant-color
// extraction is statistical; a 1/4 sample keeps analysis fast on large
// try-on photos without changing the ranking.
const paletteStride = 4

// quantStep buckets each channel to multiples of 32, collapsing near-equal
// shades so compression noise does not fragment the histogram.
const quantStep = 32

// alphaOpaque is the sampling threshold: pixels at or below this alpha are
// background and excluded from analysis.
const alphaOpaque = 128

// Palette is the result of color analysis: the dominant colors of the
// sampled image plus scheme suggestions derived from the top color.
type Palette struct {
	// Dominant is the most frequent quantized color.
	Dominant RGB `json:"dominant"`

	// Colors are the most frequent quantized colors, most frequent
	// first. May hold fewer entries than requested when the image has
	// fewer distinct quantized colors.
	Colors []RGB `json:"colors"`

	// Complementary is the channel-wise complement of the dominant
	// color.
	Complementary RGB `json:"complementary"`

	// Analogous are the dominant color's hue neighbors at +-30 and
	// +-60 degrees, same saturation and lightness.
	Analogous []RGB `json:"analogous"`
}

// Analyze loads the referenced image and extracts its palette with up to
// count dominant colors. Unlike enhancement, analysis is strict: failures
// are returned as *PaletteError and never degrade silently.
func (e *Engine) Analyze(ctx context.Context, ref string, count int) (Palette, error) {
	if count < 1 {
		return Palette{}, &PaletteError{Ref: ref, Err: errInvalidCount}
	}
	pm, err := e.loader.Load(ctx, ref)
	if err != nil {
		return Palette{}, &PaletteError{Ref: ref, Err: err}
	}
	p, err := extractPalette(pm, count)
	if err != nil {
		return Palette{}, &PaletteError{Ref: ref, Err: err}
	}
	return p, nil
}

// AnalyzePixmap extracts the palette directly from a pixmap.
func (e *Engine) AnalyzePixmap(pm *Pixmap, count int) (Palette, error) {
	if count < 1 {
		return Palette{}, &PaletteError{Err: errInvalidCount}
	}
	if pm == nil {
		return Palette{}, &PaletteError{Err: errNilPixmap}
	}
	p, err := extractPalette(pm, count)
	if err != nil {
		return Palette{}, &PaletteError{Err: err}
	}
	return p, nil
}

// extractPalette builds a quantized histogram over the sampled opaque
// pixels and ranks buckets by frequency. Ties keep sampling order, so the
// result is deterministic for a given image.
func extractPalette(pm *Pixmap, count int) (Palette, error) {
	pixels := pm.width * pm.height
	if pixels == 0 {
		return Palette{}, errEmptyImage
	}

	counts := make(map[RGB]int)
	var order []RGB
	data := pm.data
	for px := 0; px < pixels; px += paletteStride {
		i := px * 4
		if data[i+3] <= alphaOpaque {
			continue
		}
		c := RGB{
			R: int(data[i]) / quantStep * quantStep,
			G: int(data[i+1]) / quantStep * quantStep,
			B: int(data[i+2]) / quantStep * quantStep,
		}
		if counts[c] == 0 {
			order = append(order, c)
		}
		counts[c]++
	}
	if len(order) == 0 {
		return Palette{}, errNoOpaquePixels
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if count > len(order) {
		count = len(order)
	}
	top := make([]RGB, count)
	copy(top, order[:count])

	dominant := top[0]
	return Palette{
		Dominant:      dominant,
		Colors:        top,
		Complementary: dominant.Complement(),
		Analogous: []RGB{
			dominant.rotateHue(30),
			dominant.rotateHue(-30),
			dominant.rotateHue(60),
			dominant.rotateHue(-60),
		},
	}, nil
}
