// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import _ "embed"

// Shader2D is a WGSL source with vs_main and fs_main entry points. The
// vertex stage reads vec2 positions and applies the mat3x3 uniform
// u_matrix.
//
//go:embed shaders/transform2d.wgsl
var Shader2D string

// Shader3D is the 3D counterpart of Shader2D: vec4 positions (w = 1) and a
// mat4x4 uniform u_matrix.
//
//go:embed shaders/transform3d.wgsl
var Shader3D string

// TransformUniform is the uniform name both built-in shaders use.
const TransformUniform = "u_matrix"
