// Package enhance implements an image enhancement and color analysis engine.
//
// The engine applies a configurable stack of pixel-level enhancements
// (brightness, contrast, saturation, sharpening, denoising, per-channel
// color correction) to a source image and, independently, extracts dominant
// color palettes with derived complementary and analogous colors.
//
// Enhancement runs through one of two interchangeable backends: a pure CPU
// per-pixel path, always available, and an optional GPU compute path enabled
// by blank-importing the gpu subpackage:
//
//	import _ "github.com/gogpu/enhance/gpu" // enables GPU acceleration
//
// Both backends produce numerically consistent results for the linear
// stages (brightness, contrast, saturation) up to backend precision. The
// GPU path does not implement sharpen, denoise, or color correction; those
// stages are silently skipped when hardware is selected. This is a
// documented capability gap, not a fallback bug.
//
// Basic usage:
//
//	eng := enhance.New()
//	defer eng.Close()
//
//	cfg := enhance.DefaultConfig()
//	cfg.Brightness = 1.2
//	cfg.Sharpness = 0.5
//
//	res := eng.Enhance(ctx, "https://example.com/photo.jpg", cfg)
//	if res.Enhanced {
//	    // res.Ref is an encoded-image locator (store key or data: URI)
//	}
//
// Enhancement is best-effort: a source that cannot be fetched or decoded,
// or a stage that fails, degrades to returning the original reference with
// Result.Enhanced set to false. Color analysis, by contrast, fails
// explicitly: a palette is never fabricated from an empty or fully
// transparent image.
package enhance
