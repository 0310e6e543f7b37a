package m4

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f32"
)

// Mgl returns m as an mgl64.Mat4 with the same element order.
func (m Matrix4) Mgl() mgl64.Mat4 {
	return mgl64.Mat4(m)
}

// FromMgl converts an mgl64.Mat4 without reordering.
func FromMgl(m mgl64.Mat4) Matrix4 {
	return Matrix4(m)
}

// Mgl returns v as an mgl64.Vec3.
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3(v)
}

// Float32 returns m narrowed to float32 in upload order.
func (m Matrix4) Float32() f32.Mat4 {
	var out f32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
