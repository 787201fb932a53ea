//go:build !nogpu

// Package gpu implements the wgpu/hal hardware accelerator for the linear
// enhancement stages (brightness, contrast, saturation). It is wired into
// an engine via the public blank-import package.
package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/enhance"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ColorAccelerator dispatches the linear enhancement stages as a single
// compute pass over a packed-u32 pixel buffer. A failed hardware probe is
// not an error: the accelerator registers anyway and reports the failure
// through Probe, so the orchestrator selects the software path.
type ColorAccelerator struct {
	mu  sync.Mutex
	log *slog.Logger

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	ready  bool
	reason string
}

var _ enhance.Accelerator = (*ColorAccelerator)(nil)

func (a *ColorAccelerator) Name() string { return "wgpu-color" }

// SetLogger wires the accelerator into the enhance logging configuration.
func (a *ColorAccelerator) SetLogger(l *slog.Logger) {
	a.mu.Lock()
	a.log = l
	a.mu.Unlock()
}

func (a *ColorAccelerator) logger() *slog.Logger {
	if a.log != nil {
		return a.log
	}
	return enhance.Logger()
}

// Init probes for a usable device and builds the compute pipeline. A
// probe failure is recorded for Probe and does not fail registration.
func (a *ColorAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.ready = false
		a.reason = err.Error()
		a.logger().Debug("gpu: hardware probe failed", "reason", a.reason)
	}
	return nil
}

// Probe reports whether the hardware path is usable.
func (a *ColorAccelerator) Probe() enhance.Capability {
	a.mu.Lock()
	defer a.mu.Unlock()
	return enhance.Capability{Available: a.ready, Reason: a.reason}
}

// Close releases the pipeline, device and instance.
func (a *ColorAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipeline()
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.queue = nil
	a.ready = false
	a.reason = "closed"
}

// adjustParams mirrors the shader's Params uniform. Padded to 32 bytes
// for uniform buffer alignment.
type adjustParams struct {
	Width      uint32
	Height     uint32
	Brightness float32
	Contrast   float32
	Saturation float32
	_          [3]uint32
}

// Adjust applies brightness, contrast and saturation to the target in
// place via one compute dispatch. Returns ErrBackendUnavailable when the
// device is absent; any dispatch failure is reported so the caller can
// fall back to software with the target unmodified.
func (a *ColorAccelerator) Adjust(target enhance.RenderTarget, brightness, contrast, saturation float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return enhance.ErrBackendUnavailable
	}
	if target.Width <= 0 || target.Height <= 0 || len(target.Data) < target.Width*target.Height*4 {
		return fmt.Errorf("gpu: invalid render target %dx%d", target.Width, target.Height)
	}

	w, h := uint32(target.Width), uint32(target.Height)
	pixelCount := target.Width * target.Height
	pixelBufSize := uint64(pixelCount * 4)

	storageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "color_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storageBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "color_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	params := adjustParams{
		Width: w, Height: h,
		Brightness: float32(brightness),
		Contrast:   float32(contrast),
		Saturation: float32(saturation),
	}
	paramSize := uint64(unsafe.Sizeof(params))
	uniformBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "color_params", Size: paramSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	defer a.device.DestroyBuffer(uniformBuf)

	a.queue.WriteBuffer(storageBuf, 0, packPixels(target.Data, pixelCount))
	a.queue.WriteBuffer(uniformBuf, 0, unsafe.Slice((*byte)(unsafe.Pointer(&params)), paramSize)) //nolint:gosec // safe struct serialization

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "color_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "color_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("color_adjust"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "color_pass"})
	computePass.SetPipeline(a.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()
	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixels(readback, target.Data, pixelCount)
	return nil
}

func (a *ColorAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipeline(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.ready = true
	a.logger().Info("gpu: accelerator initialized", "device", selected.Info.Name)
	return nil
}

func (a *ColorAccelerator) createPipeline() error {
	spirv, err := compileShaderToSPIRV(colorShaderSource)
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "color_adjust",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "color_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "color_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "color_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *ColorAccelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// packPixels packs RGBA bytes into little-endian u32 words for the
// shader's storage buffer.
func packPixels(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		srcIdx := i * 4
		r := uint32(data[srcIdx+0])
		g := uint32(data[srcIdx+1])
		b := uint32(data[srcIdx+2])
		a := uint32(data[srcIdx+3])
		packed := r | (g << 8) | (b << 16) | (a << 24)
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

// unpackPixels unpacks the shader's u32 words back into RGBA bytes.
func unpackPixels(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		dstIdx := i * 4
		dst[dstIdx+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
		dst[dstIdx+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
		dst[dstIdx+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		dst[dstIdx+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
	}
}
