package uniforms

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniforms struct bound at group 0, binding 0.
// Matches GPUFrameUniforms layout exactly (16 bytes).
//
//go:embed assets/frame_uniforms.wgsl
var GPUFrameUniformSource string

// GPUFrameUniformSize is the size in bytes of GPUFrameUniforms once marshaled.
const GPUFrameUniformSize = 16

// GPUFrameUniforms is the per-frame uniform block read by every fragment shader.
// Size: 16 bytes (vec2 aligned to 8, no padding).
type GPUFrameUniforms struct {
	Aspect float32    // offset 0: width / height of the window
	Time   float32    // offset 4: seconds since the render loop started
	Cursor [2]float32 // offset 8: cursor in [0, 1] with y up, or (-1, -1) outside the window
}

// Size returns the size of the GPUFrameUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUFrameUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniforms into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUFrameUniforms) Marshal() []byte {
	buf := make([]byte, GPUFrameUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Aspect))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Time))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Cursor[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Cursor[1]))
	return buf
}
