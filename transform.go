package enhance

import (
	"errors"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Upscale resamples the pixmap to factor times its dimensions using
// Catmull-Rom interpolation. factor must be a finite value greater than
// zero; values below 1 downscale.
func Upscale(pm *Pixmap, factor float64) (*Pixmap, error) {
	if pm == nil {
		return nil, &FilterError{Stage: "upscale", Err: errNilPixmap}
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return nil, &FilterError{Stage: "upscale", Err: errors.New("factor must be finite and positive")}
	}

	w := int(math.Round(float64(pm.width) * factor))
	h := int(math.Round(float64(pm.height) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	src := pm.ToImage()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst), nil
}

// backgroundDistance is the chroma-key tolerance: pixels within this
// Euclidean RGB distance of the corner background color become
// transparent.
const backgroundDistance = 50

// RemoveBackground returns a copy of the pixmap with the background made
// transparent. The top-left corner pixel is taken as the background
// color; every pixel within the keying distance of it gets alpha zero.
// This is a chroma-key heuristic for studio shots with a uniform
// backdrop, not segmentation.
func RemoveBackground(pm *Pixmap) (*Pixmap, error) {
	if pm == nil {
		return nil, &FilterError{Stage: "remove-background", Err: errNilPixmap}
	}

	cr, cg, cb, _ := pm.GetRGBA(0, 0)
	br, bg, bb := float64(cr), float64(cg), float64(cb)

	out := pm.Clone()
	data := out.data
	for i := 0; i < len(data); i += 4 {
		dr := float64(data[i]) - br
		dg := float64(data[i+1]) - bg
		db := float64(data[i+2]) - bb
		if math.Sqrt(dr*dr+dg*dg+db*db) < backgroundDistance {
			data[i+3] = 0
		}
	}
	return out, nil
}
