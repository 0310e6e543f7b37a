package m3

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f32"
)

// Mgl returns m as an mgl64.Mat3. The element order is unchanged: mathgl
// stores column-major column-vector matrices, which share the flat layout
// of Matrix3.
func (m Matrix3) Mgl() mgl64.Mat3 {
	return mgl64.Mat3(m)
}

// FromMgl converts an mgl64.Mat3 to a Matrix3 without reordering.
func FromMgl(m mgl64.Mat3) Matrix3 {
	return Matrix3(m)
}

// Float32 returns m narrowed to float32 in the same element order, ready
// for a uniform upload.
func (m Matrix3) Float32() f32.Mat3 {
	var out f32.Mat3
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
