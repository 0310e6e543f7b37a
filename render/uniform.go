// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

const (
	// mat3x3<f32> stores three vec3 columns, each padded to 16 bytes.
	mat3UniformSize = 48

	// mat4x4<f32> is four tightly packed vec4 columns.
	mat4UniformSize = 64
)

// PackMatrix3 encodes m as a WGSL mat3x3<f32> uniform. The flat element
// order of Matrix3 is already column-major for the shader, so each run of
// three elements becomes one padded column.
func PackMatrix3(m m3.Matrix3) []byte {
	f := m.Float32()
	buf := make([]byte, mat3UniformSize)
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			off := col*16 + row*4
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f[col*3+row]))
		}
	}
	return buf
}

// PackMatrix4 encodes m as a WGSL mat4x4<f32> uniform, verbatim.
func PackMatrix4(m m4.Matrix4) []byte {
	buf := make([]byte, mat4UniformSize)
	for i, v := range m.Float32() {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// DrawableSize returns the device-pixel size of a canvas displayed at
// cssWidth x cssHeight logical pixels with the given device pixel ratio:
// floor(dpr * css) per axis. A non-positive ratio counts as 1.
func DrawableSize(cssWidth, cssHeight, dpr float64) (int, int) {
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}
	return int(math.Floor(cssWidth * dpr)), int(math.Floor(cssHeight * dpr))
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}
