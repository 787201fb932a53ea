package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// colorShaderSource is the compute shader for the linear enhancement
// stages. Pixels arrive packed one per u32 (R in the low byte, A in the
// high byte, little-endian). Each stage clamps to [0, 255] before the
// next reads, matching the CPU pipeline exactly; the stages cannot be
// folded into one matrix because of the intermediate clamps.
const colorShaderSource = `
struct Params {
    width: u32,
    height: u32,
    brightness: f32,
    contrast: f32,
    saturation: f32,
    pad0: u32,
    pad1: u32,
    pad2: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read_write> pixels: array<u32>;

fn clamp_rgb(c: vec3<f32>) -> vec3<f32> {
    return clamp(c, vec3<f32>(0.0), vec3<f32>(255.0));
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let idx = gid.y * params.width + gid.x;
    let packed = pixels[idx];
    var rgb = vec3<f32>(
        f32(packed & 0xFFu),
        f32((packed >> 8u) & 0xFFu),
        f32((packed >> 16u) & 0xFFu),
    );
    let alpha = (packed >> 24u) & 0xFFu;

    rgb = clamp_rgb(rgb * params.brightness);
    rgb = clamp_rgb((rgb - vec3<f32>(128.0)) * params.contrast + vec3<f32>(128.0));
    let gray = dot(rgb, vec3<f32>(0.299, 0.587, 0.114));
    rgb = clamp_rgb(vec3<f32>(gray) + (rgb - vec3<f32>(gray)) * params.saturation);

    let r = u32(rgb.x + 0.5);
    let g = u32(rgb.y + 0.5);
    let b = u32(rgb.z + 0.5);
    pixels[idx] = r | (g << 8u) | (b << 16u) | (alpha << 24u);
}
`

// compileShaderToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
// SPIR-V is little-endian 32-bit words.
func compileShaderToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
