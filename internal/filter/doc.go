// Package filter implements the CPU pixel transforms of the enhancement
// pipeline: 4x5 color matrix stages (brightness, contrast, saturation,
// per-channel color correction) and the convolution stages (sharpen,
// bilateral denoise).
//
// All functions operate on straight (non-premultiplied) RGBA byte
// buffers, 4 bytes per pixel, row-major. Each stage clamps its own output
// to [0, 255] before the next stage reads it; stages are therefore not
// composable into a single matrix.
package filter
