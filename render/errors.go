// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

var (
	// ErrUnknownShader is returned when a ShaderID was not produced by the
	// backend or was released.
	ErrUnknownShader = errors.New("render: unknown shader")

	// ErrUnknownProgram is returned when a ProgramID was not produced by
	// the backend.
	ErrUnknownProgram = errors.New("render: unknown program")

	// ErrInvalidShader is returned by CompileShader when naga cannot parse
	// or lower the WGSL source.
	ErrInvalidShader = errors.New("render: invalid shader")

	// ErrStageMismatch is returned when a source lacks the entry point for
	// its stage, or when LinkProgram receives shaders of the wrong stages.
	ErrStageMismatch = errors.New("render: shader stage mismatch")

	// ErrUnknownUniform is returned when uploading to a name the program
	// does not declare.
	ErrUnknownUniform = errors.New("render: unknown uniform")

	// ErrUniformType is returned for a matrix type that does not match the
	// declaration, or by the GPU backend for a uniform it cannot feed.
	ErrUniformType = errors.New("render: uniform type mismatch")

	// ErrUniformNotSet is returned by Draw when a declared uniform has not
	// been uploaded.
	ErrUniformNotSet = errors.New("render: uniform not set")

	// ErrNoUniform is returned by LinkProgram when the vertex stage has no
	// matrix uniform matching its input dimension.
	ErrNoUniform = errors.New("render: no transform uniform")

	// ErrInvalidSize is returned for non-positive drawable sizes.
	ErrInvalidSize = errors.New("render: invalid size")

	// ErrInvalidMesh is returned by Draw for malformed meshes or meshes whose
	// dimension differs from the program's vertex input.
	ErrInvalidMesh = errors.New("render: invalid mesh")

	// ErrGPUTimeout is returned by Flush when the GPU does not finish the
	// frame in time.
	ErrGPUTimeout = errors.New("render: gpu timeout")

	// ErrDestroyed is returned by any call after Destroy.
	ErrDestroyed = errors.New("render: backend destroyed")
)
