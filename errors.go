package enhance

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable indicates the hardware backend cannot serve this
// operation. The orchestrator recovers by falling back to the software
// path; the error is never surfaced to Enhance callers.
var ErrBackendUnavailable = errors.New("enhance: hardware backend unavailable")

// DecodeError reports that a source reference could not be fetched or
// decoded (unsupported format, network failure, corrupt data).
type DecodeError struct {
	Ref string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("enhance: decode %q: %v", e.Ref, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FilterError reports an invalid enhancement parameter: a non-finite
// factor or an out-of-domain intensity. It aborts the remaining pipeline
// stages; the orchestrator then returns the original image reference.
type FilterError struct {
	Stage string
	Err   error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("enhance: %s: %v", e.Stage, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// PaletteError reports that color analysis could not produce a palette.
// Unlike enhancement, analysis never degrades silently.
type PaletteError struct {
	Ref string
	Err error
}

func (e *PaletteError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("enhance: analyze: %v", e.Err)
	}
	return fmt.Sprintf("enhance: analyze %q: %v", e.Ref, e.Err)
}

func (e *PaletteError) Unwrap() error { return e.Err }

// Analysis failure causes.
var (
	errEmptyImage     = errors.New("empty image")
	errNoOpaquePixels = errors.New("no opaque pixels sampled")
	errInvalidCount   = errors.New("color count must be at least 1")
	errNilPixmap      = errors.New("nil pixmap")
)
