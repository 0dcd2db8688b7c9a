package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-rig/engine/skeleton"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPUSlotVertexSource is the WGSL definition of the VertexInput struct for slot pipelines.
// Matches GPUSlotVertex layout exactly (48 bytes).
const GPUSlotVertexSource = `struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) light: vec4<f32>,
    @location(3) dark: vec4<f32>,
};
`

// GPUSlotVertex is the GPU-aligned representation of one emitted slot vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUSlotVertexSource).
// Size: 48 bytes (no padding required).
type GPUSlotVertex struct {
	Position [2]float32 // offset  0: world position (8 bytes)
	TexCoord [2]float32 // offset  8: UV texture coordinate (8 bytes)
	Light    [4]float32 // offset 16: RGBA tint (16 bytes)
	Dark     [4]float32 // offset 32: RGBA dark tint for two-color tinting (16 bytes)
}

// NewGPUSlotVertex converts an emitted world vertex to its GPU layout.
//
// Parameters:
//   - v: the world vertex
//
// Returns:
//   - GPUSlotVertex: the GPU vertex
func NewGPUSlotVertex(v skeleton.WorldVertex) GPUSlotVertex {
	return GPUSlotVertex{
		Position: [2]float32{v.Position.X, v.Position.Y},
		TexCoord: [2]float32{v.UV.X, v.UV.Y},
		Light:    v.Light.Array(),
		Dark:     v.Dark.Array(),
	}
}

// Size returns the size of the GPUSlotVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSlotVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSlotVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUSlotVertex) Marshal() []byte {
	return g.appendTo(make([]byte, 0, 48))
}

func (g *GPUSlotVertex) appendTo(buf []byte) []byte {
	for _, f := range g.Position {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range g.TexCoord {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range g.Light {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	for _, f := range g.Dark {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

// SlotVertexLayout returns the vertex buffer layout matching GPUSlotVertex, for use in a render
// pipeline descriptor.
//
// Returns:
//   - wgpu.VertexBufferLayout: the vertex buffer layout
func SlotVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 48,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
		},
	}
}
