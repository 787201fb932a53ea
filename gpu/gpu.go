//go:build !nogpu

// Package gpu registers the hardware accelerator for the linear
// enhancement stages (brightness, contrast, saturation).
//
// Import this package to opt in to GPU enhancement. The accelerator uses
// wgpu/hal compute shaders; if no usable device is found (no Vulkan
// available), registration still succeeds and the accelerator reports the
// failed probe, so requests fall back to the CPU path.
//
// Usage:
//
//	import _ "github.com/gogpu/enhance/gpu" // enable GPU acceleration
package gpu

import (
	"github.com/gogpu/enhance"
	gpuimpl "github.com/gogpu/enhance/internal/gpu"
)

func init() {
	accel := &gpuimpl.ColorAccelerator{}
	if err := enhance.RegisterAccelerator(accel); err != nil {
		enhance.Logger().Warn("GPU accelerator not available", "err", err)
	}
}
