// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the collaborator that turns a composed matrix into
// pixels.
//
// Every scene talks to a Backend: compile a vertex and a fragment shader,
// link them, size the drawable, clear, upload matrix uniforms and draw
// triangle meshes. Two implementations exist:
//
//   - Software rasterizes on the CPU into an *image.RGBA with
//     golang.org/x/image/vector. It needs no GPU and is what tests and the
//     preview server use.
//   - GPU (build tag !nogpu) drives a gogpu/wgpu HAL device. It can run on
//     a host-provided device (NewGPUFromProvider) or on the headless noop
//     device (NewNoopGPU).
//
// # Shaders and uniforms
//
// Shaders are WGSL. Compiling reflects the source for its entry points,
// its var<uniform> matrix declarations and the dimension of the vertex
// position input (@location(0)). Linking picks the first vertex-stage
// uniform whose type matches that dimension (mat3x3 for vec2 input,
// mat4x4 for vec3/vec4) as the transform applied to vertices. Shader2D and
// Shader3D are ready-made sources using the uniform name u_matrix.
//
// # Matrix upload
//
// m3.Matrix3 and m4.Matrix4 are uploaded in their flat element order with
// no transpose; see PackMatrix3 and PackMatrix4 for the byte layout. The
// GPU vertex shaders remap clip depth from [-1, 1] to [0, 1].
//
// # Drawable size
//
// Hosts size the drawable in device pixels with DrawableSize and
// recompute their projection matrix whenever the size changes.
//
// # Example
//
//	b := render.NewSoftware(400, 300)
//	vs, _ := b.CompileShader(render.StageVertex, render.Shader2D)
//	fs, _ := b.CompileShader(render.StageFragment, render.Shader2D)
//	prog, _ := b.LinkProgram(vs, fs)
//	b.Clear(color.White)
//	_ = b.SetUniformMatrix3(prog, render.TransformUniform, m3.Projection(400, 300))
//	_ = b.Draw(prog, render.Rect(50, 50, 100, 100, color.RGBA{B: 255, A: 255}))
//	_ = b.Flush()
//	_ = b.Target().SavePNG("out.png")
package render
