// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image/color"

	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

// Stage identifies a programmable pipeline stage.
type Stage uint8

// Shader stages.
const (
	StageVertex Stage = iota + 1
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// ShaderID is an opaque handle to a compiled shader.
type ShaderID uint32

// ProgramID is an opaque handle to a linked program.
type ProgramID uint32

// Backend is the render collaborator consumed by every scene.
//
// Matrices are uploaded in their flat element order with no transpose.
// Implementations are not safe for concurrent use; drive each backend from
// one goroutine.
type Backend interface {
	// CompileShader compiles WGSL source for the given stage.
	CompileShader(stage Stage, source string) (ShaderID, error)

	// LinkProgram combines a vertex and a fragment shader.
	LinkProgram(vs, fs ShaderID) (ProgramID, error)

	// Resize sets the drawable size in device pixels. Hosts recompute the
	// projection after every resize.
	Resize(width, height int) error

	// Size returns the drawable size in device pixels.
	Size() (width, height int)

	// Clear fills the drawable with c.
	Clear(c color.Color)

	// SetUniformMatrix3 uploads a 3x3 matrix uniform.
	SetUniformMatrix3(p ProgramID, name string, m m3.Matrix3) error

	// SetUniformMatrix4 uploads a 4x4 matrix uniform.
	SetUniformMatrix4(p ProgramID, name string, m m4.Matrix4) error

	// Draw renders mesh with program p using the uniforms uploaded so far.
	Draw(p ProgramID, mesh *Mesh) error

	// Flush completes the frame. Backends that record draws submit them
	// here.
	Flush() error

	// Destroy releases every resource. The backend is unusable afterwards.
	Destroy()
}
