package enhance

import (
	"errors"
	"sync"
)

// Capability is the result of probing a hardware backend. Initialization
// failure is reported here as an explicit capability-absent signal rather
// than surfaced as an error or a crash; the orchestrator's backend
// selection consumes it.
type Capability struct {
	// Available reports whether the hardware path can serve requests.
	Available bool

	// Reason describes why the hardware path is unavailable. Empty when
	// Available is true.
	Reason string
}

// RenderTarget provides pixel buffer access for accelerator output.
// The Data slice must be in straight RGBA format, 4 bytes per pixel,
// laid out row by row.
type RenderTarget struct {
	Data          []uint8
	Width, Height int
}

// Accelerator is an optional hardware acceleration provider for the
// linear enhancement stages. Sharpen, denoise, and color correction are
// not part of the accelerator contract; the orchestrator skips them on
// the hardware path.
//
// Implementations are provided by backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/enhance/gpu" // enables GPU acceleration
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-color").
	Name() string

	// Init acquires hardware resources. Called once during registration.
	// A failed probe is not an error: Init records the failure and
	// Probe reports it.
	Init() error

	// Close releases hardware resources.
	Close()

	// Probe reports whether the hardware path is usable. Called by the
	// orchestrator on every hardware-preferring request.
	Probe() Capability

	// Adjust applies brightness, contrast and saturation, in that order,
	// to the target in place. Returns ErrBackendUnavailable if the
	// operation cannot run on hardware; the caller falls back to the
	// software path.
	Adjust(target RenderTarget, brightness, contrast, saturation float64) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator registers a hardware accelerator for optional GPU
// enhancement.
//
// Only one accelerator can be registered; subsequent calls replace the
// previous one. The accelerator's Init method is called during
// registration. If Init returns an error the accelerator is not
// registered and the error is returned; an accelerator whose hardware
// probe failed may still register and report the failure via Probe.
//
// Typical usage via blank import in backend packages:
//
//	func init() {
//	    _ = enhance.RegisterAccelerator(&ColorAccelerator{})
//	}
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("enhance: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// RegisteredAccelerator returns the currently registered accelerator, or
// nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}
