package enhance

import (
	"errors"
	"math"
	"testing"
)

// TestDefaultConfigIsIdentity verifies the default configuration changes
// nothing.
func TestDefaultConfigIsIdentity(t *testing.T) {
	if !isIdentity(DefaultConfig()) {
		t.Error("DefaultConfig is not identity")
	}
}

// TestIsIdentity covers the identity short-circuit edge cases.
func TestIsIdentity(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"brightness", Config{Brightness: 1.2, Contrast: 1, Saturation: 1}, false},
		{"sharpness", Config{Brightness: 1, Contrast: 1, Saturation: 1, Sharpness: 0.5}, false},
		// Denoise below 1/3 yields a zero radius and is effectively off.
		{"tiny denoise", Config{Brightness: 1, Contrast: 1, Saturation: 1, Denoise: 0.2}, true},
		{"denoise", Config{Brightness: 1, Contrast: 1, Saturation: 1, Denoise: 1}, false},
		{
			"identity correction",
			Config{Brightness: 1, Contrast: 1, Saturation: 1, ColorCorrection: &ColorCorrection{
				RedGain: 1, GreenGain: 1, BlueGain: 1,
			}},
			true,
		},
		{
			"correction",
			Config{Brightness: 1, Contrast: 1, Saturation: 1, ColorCorrection: &ColorCorrection{
				RedGain: 1.1, GreenGain: 1, BlueGain: 1,
			}},
			false,
		},
	}
	for _, c := range cases {
		if got := isIdentity(c.cfg); got != c.want {
			t.Errorf("%s: isIdentity = %v, want %v", c.name, got, c.want)
		}
	}
}

// TestConfigValidate verifies parameter validation rejects non-finite and
// out-of-domain values with a *FilterError.
func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"NaN brightness", Config{Brightness: math.NaN(), Contrast: 1, Saturation: 1}},
		{"Inf contrast", Config{Brightness: 1, Contrast: math.Inf(1), Saturation: 1}},
		{"negative sharpness", Config{Brightness: 1, Contrast: 1, Saturation: 1, Sharpness: -1}},
		{"negative denoise", Config{Brightness: 1, Contrast: 1, Saturation: 1, Denoise: -0.1}},
		{
			"NaN correction",
			Config{Brightness: 1, Contrast: 1, Saturation: 1, ColorCorrection: &ColorCorrection{
				RedGain: math.NaN(), GreenGain: 1, BlueGain: 1,
			}},
		},
	}
	for _, c := range cases {
		err := c.cfg.validate()
		if err == nil {
			t.Errorf("%s: validate passed, want error", c.name)
			continue
		}
		var fe *FilterError
		if !errors.As(err, &fe) {
			t.Errorf("%s: error %v is not a *FilterError", c.name, err)
		}
	}

	cfg := DefaultConfig()
	if err := cfg.validate(); err != nil {
		t.Errorf("default config: validate failed: %v", err)
	}
}
