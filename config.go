package enhance

import (
	"errors"
	"math"
)

// Config describes one enhancement request. Brightness, contrast and
// saturation are multiplicative factors with 1.0 as the neutral value;
// sharpness and denoise are intensities with 0 as the neutral value.
// Numeric fields are not clamped on input; each stage clamps its own
// output to the valid [0, 255] channel range.
type Config struct {
	Brightness float64
	Contrast   float64
	Saturation float64
	Sharpness  float64
	Denoise    float64

	// UseHardware requests the GPU backend. Hardware that is absent or
	// fails to initialize silently falls back to the software path.
	//
	// The hardware path serves only brightness, contrast and saturation;
	// sharpness, denoise and color correction are skipped there. This is
	// a capability gap between the backends, not a fallback condition.
	UseHardware bool

	// ColorCorrection, when non-nil, applies per-channel gain and offset
	// as the final stage: out = clamp(in*gain + offset, 0, 255).
	ColorCorrection *ColorCorrection
}

// ColorCorrection holds per-channel multiplicative gain and additive
// offset.
type ColorCorrection struct {
	RedGain     float64
	RedOffset   float64
	GreenGain   float64
	GreenOffset float64
	BlueGain    float64
	BlueOffset  float64
}

// DefaultConfig returns the identity configuration: all factors 1, all
// intensities 0, software backend.
func DefaultConfig() Config {
	return Config{
		Brightness: 1,
		Contrast:   1,
		Saturation: 1,
	}
}

// isIdentity reports whether the correction leaves every channel
// unchanged.
func (c *ColorCorrection) isIdentity() bool {
	return c.RedGain == 1 && c.RedOffset == 0 &&
		c.GreenGain == 1 && c.GreenOffset == 0 &&
		c.BlueGain == 1 && c.BlueOffset == 0
}

// validate rejects parameters that would produce a non-finite or
// out-of-domain computation.
func (cfg *Config) validate() error {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"brightness", cfg.Brightness},
		{"contrast", cfg.Contrast},
		{"saturation", cfg.Saturation},
		{"sharpness", cfg.Sharpness},
		{"denoise", cfg.Denoise},
	} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return &FilterError{Stage: v.name, Err: errors.New("non-finite parameter")}
		}
	}
	if cfg.Sharpness < 0 {
		return &FilterError{Stage: "sharpen", Err: errors.New("negative intensity")}
	}
	if cfg.Denoise < 0 {
		return &FilterError{Stage: "denoise", Err: errors.New("negative intensity")}
	}
	if cc := cfg.ColorCorrection; cc != nil {
		for _, v := range []float64{
			cc.RedGain, cc.RedOffset, cc.GreenGain,
			cc.GreenOffset, cc.BlueGain, cc.BlueOffset,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &FilterError{Stage: "color-correction", Err: errors.New("non-finite parameter")}
			}
		}
	}
	return nil
}
