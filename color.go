package enhance

import "math"

// RGB is a color with 8-bit components in [0, 255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL is a color in hue/saturation/lightness space.
// Hue is in degrees [0, 360); saturation and lightness are percentages
// [0, 100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// ToHSL converts an RGB color to HSL. The conversion is exact up to
// rounding: a full RGB -> HSL -> RGB round trip reproduces each channel
// within one unit.
func (c RGB) ToHSL() HSL {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l := (maxC + minC) / 2

	var h, s float64
	if maxC != minC {
		d := maxC - minC
		if l > 0.5 {
			s = d / (2 - maxC - minC)
		} else {
			s = d / (maxC + minC)
		}
		switch maxC {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h *= 60
	}

	hi := int(math.Round(h)) % 360
	if hi < 0 {
		hi += 360
	}
	return HSL{
		H: hi,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ToRGB converts an HSL color back to RGB.
func (c HSL) ToRGB() RGB {
	h := math.Mod(float64(c.H), 360)
	if h < 0 {
		h += 360
	}
	s := float64(c.S) / 100
	l := float64(c.L) / 100

	ch := (1 - math.Abs(2*l-1)) * s
	x := ch * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - ch/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = ch, x, 0
	case h < 120:
		r, g, b = x, ch, 0
	case h < 180:
		r, g, b = 0, ch, x
	case h < 240:
		r, g, b = 0, x, ch
	case h < 300:
		r, g, b = x, 0, ch
	default:
		r, g, b = ch, 0, x
	}

	return RGB{
		R: clampChannel(math.Round((r + m) * 255)),
		G: clampChannel(math.Round((g + m) * 255)),
		B: clampChannel(math.Round((b + m) * 255)),
	}
}

// Complement returns the channel-wise complement (255 - c).
func (c RGB) Complement() RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// rotateHue returns the color with hue rotated by the given number of
// degrees at the same saturation and lightness.
func (c RGB) rotateHue(degrees int) RGB {
	hsl := c.ToHSL()
	h := (hsl.H + degrees) % 360
	if h < 0 {
		h += 360
	}
	return HSL{H: h, S: hsl.S, L: hsl.L}.ToRGB()
}

func clampChannel(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}
