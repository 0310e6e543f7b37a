// Package affine provides the transform algebra and composition protocol
// used by the WebGL-style tutorial scenes in this module, together with the
// render collaborators that consume the composed matrices.
//
// # Overview
//
// The module is organized leaves first:
//
//	m3/       3x3 homogeneous matrices for 2D (identity, scale, rotation,
//	          translation, projection, multiply, inverse, point transform)
//	m4/       4x4 matrices for 3D (per-axis rotations, orthographic and
//	          perspective projection, look-at, inverse)
//	compose/  folding an ordered queue of tagged transforms into one matrix
//	render/   the render collaborator: compile, link, resize, clear,
//	          upload a matrix uniform, draw (software and WebGPU HAL backends)
//	scene/    the tutorial scenes, YAML scene files and the frame runner
//
// # Matrix Convention
//
// Matrices are flat row-major arrays under the row-vector convention:
// a point p is transformed as p·M, so translation lives in the last row
// (elements 6 and 7 for a 3x3 matrix). This is the same memory layout a
// column-major GPU API expects for the same transform, so composed matrices
// are uploaded verbatim without a transpose.
//
// Multiply(a, b) applies b first, then a. Folding a queue left to right with
// Multiply therefore applies the last queued transform to vertices first:
//
//	queue:   projection, translation, rotation
//	effect:  rotate, then translate, then project to clip space
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/affine/compose"
//	    "github.com/gogpu/affine/m3"
//	)
//
//	set := compose.Set[m3.Matrix3]{
//	    compose.Projection:  m3.Projection(800, 600),
//	    compose.Translation: m3.Translation(100, 100),
//	    compose.Rotation:    m3.Rotation(m3.DegToRad(30)),
//	}
//	u := compose.Compose(compose.M3, compose.DefaultQueue, set)
//
// # Logging
//
// The module is silent by default. Call SetLogger to route diagnostics from
// render, scene and the preview server to a slog.Logger.
package affine

// Version is the current version of the module.
const Version = "0.3.0"
