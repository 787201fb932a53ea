package enhance

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/gogpu/enhance/internal/filter"
)

// jpegQuality is the encoder setting for enhancement output. High enough
// that recompression artifacts stay invisible on try-on imagery.
const jpegQuality = 95

// EngineOption configures an Engine during creation.
//
// Example:
//
//	// Default engine: registered accelerator (if any), in-memory output
//	eng := enhance.New()
//
//	// Custom fetcher and persistent output store
//	eng := enhance.New(enhance.WithFetcher(f), enhance.WithStore(s))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	fetcher Fetcher
	store   ByteStore

	accelerator Accelerator
	accelSet    bool
}

// WithFetcher sets a custom fetcher for resolving image references.
// The default fetcher understands http(s) URLs, data: URIs, and local
// file paths.
func WithFetcher(f Fetcher) EngineOption {
	return func(o *engineOptions) {
		o.fetcher = f
	}
}

// WithStore sets a byte store. The engine consults it before fetching
// source bytes and writes enhancement output to it; the returned locator
// is then the store key instead of a data: URI.
func WithStore(s ByteStore) EngineOption {
	return func(o *engineOptions) {
		o.store = s
	}
}

// WithAccelerator pins the engine to a specific accelerator instead of
// the process-wide registered one. Passing nil forces the software path
// regardless of registration; tests use this to exercise fallback.
func WithAccelerator(a Accelerator) EngineOption {
	return func(o *engineOptions) {
		o.accelerator = a
		o.accelSet = true
	}
}

// Engine is the enhancement and color-analysis orchestrator. It owns a
// loader with its decoded-image cache and a pool of convolution scratch
// buffers.
//
// An Engine is safe for concurrent use. Software enhancement runs fully
// parallel; dispatches to the hardware accelerator are serialized because
// the device queue is a single resource.
type Engine struct {
	loader *Loader
	store  ByteStore
	pool   *pixmapPool

	accelerator Accelerator
	accelSet    bool

	gpuMu sync.Mutex
}

// New creates an engine.
func New(opts ...EngineOption) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		loader:      NewLoader(o.fetcher, o.store),
		store:       o.store,
		pool:        newPixmapPool(4),
		accelerator: o.accelerator,
		accelSet:    o.accelSet,
	}
}

// Close releases the engine's pooled buffers. The process-wide
// accelerator is not closed; it may be shared by other engines.
func (e *Engine) Close() {
	e.pool.drain()
	e.loader.clear()
}

// Loader returns the engine's image loader, for cache control
// (invalidation) and direct pixmap access.
func (e *Engine) Loader() *Loader { return e.loader }

// Backend names for Result.Backend.
const (
	BackendSoftware = "software"
	BackendHardware = "hardware"
)

// Result describes the outcome of an Enhance call.
type Result struct {
	// Ref locates the output image: the byte store key when a store is
	// configured, a data: URI otherwise. When enhancement was skipped or
	// failed, Ref is the original input reference.
	Ref string

	// Enhanced reports whether the pipeline ran. False for identity
	// configurations and for degraded (failed) requests.
	Enhanced bool

	// Backend is BackendHardware or BackendSoftware when Enhanced is
	// true. A request that asked for hardware but fell back reports
	// BackendSoftware.
	Backend string

	// Err carries the cause when the request degraded to the original
	// reference. Enhancement is best-effort; callers may ignore it.
	Err error
}

// Enhance loads the referenced image, runs the enhancement pipeline with
// the given configuration, and returns a locator for the JPEG output.
//
// Enhancement never fails the caller: on decode errors or invalid
// parameters the result carries the original reference with Enhanced
// false and the cause in Err. An identity configuration short-circuits
// to the original reference without decoding.
func (e *Engine) Enhance(ctx context.Context, ref string, cfg Config) Result {
	if isIdentity(cfg) {
		return Result{Ref: ref}
	}
	if err := cfg.validate(); err != nil {
		Logger().Warn("enhance: invalid configuration", "ref", ref, "error", err)
		return Result{Ref: ref, Err: err}
	}

	src, err := e.loader.Load(ctx, ref)
	if err != nil {
		Logger().Warn("enhance: source unavailable", "ref", ref, "error", err)
		return Result{Ref: ref, Err: err}
	}

	out, backend := e.run(src, cfg)

	encoded, err := out.EncodeJPEGBytes(jpegQuality)
	if err != nil {
		Logger().Warn("enhance: encode failed", "ref", ref, "error", err)
		return Result{Ref: ref, Err: err}
	}

	loc := e.locate(ctx, ref, cfg, encoded)
	return Result{Ref: loc, Enhanced: true, Backend: backend}
}

// EnhancePixmap runs the pipeline directly on a pixmap and returns a new
// pixmap, leaving the input untouched. Unlike Enhance it is strict:
// invalid parameters are returned as *FilterError.
func (e *Engine) EnhancePixmap(pm *Pixmap, cfg Config) (*Pixmap, error) {
	if pm == nil {
		return nil, &FilterError{Stage: "input", Err: errNilPixmap}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	out, _ := e.run(pm, cfg)
	return out, nil
}

// run executes the pipeline stages on a copy of src in fixed order:
// brightness, contrast, saturation, sharpen, denoise, color correction.
// Neutral stages are skipped. Returns the output and the backend that
// served the request.
//
// The hardware path covers only the linear stages; sharpen, denoise and
// color correction are outside the accelerator contract and are skipped
// there, a capability gap between the backends rather than a fallback
// condition.
func (e *Engine) run(src *Pixmap, cfg Config) (*Pixmap, string) {
	out := src.Clone()
	w, h := out.width, out.height
	data := out.data

	backend := BackendSoftware
	if cfg.UseHardware {
		if e.adjustHardware(out, cfg) {
			backend = BackendHardware
		} else {
			e.adjustSoftware(data, w, h, cfg)
		}
	} else {
		e.adjustSoftware(data, w, h, cfg)
	}

	if backend == BackendHardware {
		if cfg.Sharpness > 0 || filter.DenoiseRadius(cfg.Denoise) > 0 ||
			(cfg.ColorCorrection != nil && !cfg.ColorCorrection.isIdentity()) {
			Logger().Debug("enhance: convolution and correction stages skipped on hardware path")
		}
		return out, backend
	}

	if cfg.Sharpness > 0 {
		e.withSnapshot(out, func(snapshot []uint8) {
			filter.Sharpen(data, snapshot, w, h, cfg.Sharpness)
		})
	}
	if filter.DenoiseRadius(cfg.Denoise) > 0 {
		e.withSnapshot(out, func(snapshot []uint8) {
			filter.Denoise(data, snapshot, w, h, cfg.Denoise)
		})
	}
	if cc := cfg.ColorCorrection; cc != nil && !cc.isIdentity() {
		m := filter.Correction(cc.RedGain, cc.RedOffset, cc.GreenGain, cc.GreenOffset, cc.BlueGain, cc.BlueOffset)
		m.Apply(data, w, h)
	}
	return out, backend
}

// adjustSoftware applies the linear stages on the CPU. Each stage clamps
// its output before the next runs, so the matrices are applied separately
// rather than composed.
func (e *Engine) adjustSoftware(data []uint8, w, h int, cfg Config) {
	if cfg.Brightness != 1 {
		m := filter.Brightness(cfg.Brightness)
		m.Apply(data, w, h)
	}
	if cfg.Contrast != 1 {
		m := filter.Contrast(cfg.Contrast)
		m.Apply(data, w, h)
	}
	if cfg.Saturation != 1 {
		m := filter.Saturation(cfg.Saturation)
		m.Apply(data, w, h)
	}
}

// adjustHardware tries the linear stages on the accelerator. Returns
// false when no accelerator is usable or the dispatch failed; the pixmap
// is unmodified in that case and the caller falls back to software.
func (e *Engine) adjustHardware(pm *Pixmap, cfg Config) bool {
	a := e.currentAccelerator()
	if a == nil {
		return false
	}
	if cap := a.Probe(); !cap.Available {
		Logger().Debug("enhance: hardware unavailable", "accelerator", a.Name(), "reason", cap.Reason)
		return false
	}

	e.gpuMu.Lock()
	defer e.gpuMu.Unlock()

	target := RenderTarget{Data: pm.data, Width: pm.width, Height: pm.height}
	if err := a.Adjust(target, cfg.Brightness, cfg.Contrast, cfg.Saturation); err != nil {
		Logger().Warn("enhance: hardware adjust failed, falling back", "accelerator", a.Name(), "error", err)
		return false
	}
	return true
}

// currentAccelerator resolves the accelerator for this engine: the pinned
// one when WithAccelerator was used (possibly nil), the process-wide
// registered one otherwise.
func (e *Engine) currentAccelerator() Accelerator {
	if e.accelSet {
		return e.accelerator
	}
	return RegisteredAccelerator()
}

// withSnapshot runs fn with a pooled copy of the pixmap's pixels. The
// convolution stages read neighbors from the snapshot while writing in
// place.
func (e *Engine) withSnapshot(pm *Pixmap, fn func(snapshot []uint8)) {
	scratch := e.pool.get(pm.width, pm.height)
	if scratch == nil {
		scratch = pm.Clone()
		fn(scratch.data)
		return
	}
	copy(scratch.data, pm.data)
	fn(scratch.data)
	e.pool.put(scratch)
}

// locate turns encoded output bytes into a locator: a store key when a
// byte store is configured, a data: URI otherwise.
func (e *Engine) locate(ctx context.Context, ref string, cfg Config, encoded []byte) string {
	if e.store == nil {
		return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded)
	}
	key := outputKey(ref, cfg)
	e.store.Put(ctx, key, encoded)
	return key
}

// outputKey derives a stable store key from the source reference and the
// full configuration, so distinct configurations of the same source do
// not collide.
func outputKey(ref string, cfg Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%g|%g|%g|%g|%g|%v", ref,
		cfg.Brightness, cfg.Contrast, cfg.Saturation, cfg.Sharpness, cfg.Denoise, cfg.UseHardware)
	if cc := cfg.ColorCorrection; cc != nil {
		fmt.Fprintf(h, "|%g|%g|%g|%g|%g|%g",
			cc.RedGain, cc.RedOffset, cc.GreenGain, cc.GreenOffset, cc.BlueGain, cc.BlueOffset)
	}
	return fmt.Sprintf("enhanced/%x.jpg", h.Sum(nil)[:16])
}

// isIdentity reports whether the configuration changes no pixels.
func isIdentity(cfg Config) bool {
	return cfg.Brightness == 1 && cfg.Contrast == 1 && cfg.Saturation == 1 &&
		cfg.Sharpness == 0 && filter.DenoiseRadius(cfg.Denoise) == 0 &&
		(cfg.ColorCorrection == nil || cfg.ColorCorrection.isIdentity())
}
