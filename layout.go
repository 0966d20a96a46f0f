package lines

import (
	"encoding/binary"
	"math"
)

// Buffer layout constants shared by every consumer of the scene transform
// block and the line descriptor buffer. The uniform block follows std140
// (each matrix column padded to 16-byte alignment, which mat4x4 satisfies
// naturally); the descriptor buffer follows std430 (tight packing, with
// vec3 fields rounded up to 16 bytes).
const (
	// SceneUniformSize is the byte size of the scene transform uniform
	// block: viewProj mat4 (64) + runner mat4 (64) + viewport vec2 (8) +
	// trailing pad to a 16-byte multiple (8).
	SceneUniformSize = 144

	// LineRecordStride is the byte stride of one line record in the
	// storage buffer: p0 vec3 + pad (16) + p1 vec3 + thickness (16) +
	// color vec4 (16) + model mat4 (64).
	LineRecordStride = 112
)

// EncodeSceneUniform encodes the scene transform into its std140 uniform
// block representation, little-endian float32.
func EncodeSceneUniform(st *SceneTransform) []byte {
	buf := make([]byte, SceneUniformSize)
	off := putMat4(buf, 0, st.ViewProj)
	off = putMat4(buf, off, st.Runner)
	off = putFloat32(buf, off, st.Viewport.X)
	putFloat32(buf, off, st.Viewport.Y)
	// Bytes 136..143 stay zero (std140 block size padding).
	return buf
}

// EncodeLineRecords encodes line records into their std430 storage buffer
// representation. The thickness scalar packs into the pad slot after p1,
// matching the declared shader-side struct.
func EncodeLineRecords(records []LineRecord) []byte {
	buf := make([]byte, len(records)*LineRecordStride)
	off := 0
	for i := range records {
		rec := &records[i]
		off = putVec3(buf, off, rec.P0)
		off = putFloat32(buf, off, 0) // vec3 alignment pad
		off = putVec3(buf, off, rec.P1)
		off = putFloat32(buf, off, rec.Thickness)
		off = putFloat32(buf, off, rec.Color.R)
		off = putFloat32(buf, off, rec.Color.G)
		off = putFloat32(buf, off, rec.Color.B)
		off = putFloat32(buf, off, rec.Color.A)
		off = putMat4(buf, off, rec.Model)
	}
	return buf
}

func putFloat32(buf []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	return off + 4
}

func putVec3(buf []byte, off int, v Vec3) int {
	off = putFloat32(buf, off, v.X)
	off = putFloat32(buf, off, v.Y)
	return putFloat32(buf, off, v.Z)
}

func putMat4(buf []byte, off int, m Mat4) int {
	for _, v := range m {
		off = putFloat32(buf, off, v)
	}
	return off
}
