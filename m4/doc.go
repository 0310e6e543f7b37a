// Package m4 implements 4x4 homogeneous matrices for 3D transforms and
// projections.
//
// Matrix4 follows the same convention as m3.Matrix3: a flat row-major array
// under the row-vector convention, so a point (x, y, z) is transformed as
// (x, y, z, 1) times the matrix and the translation sits in m[12], m[13] and
// m[14]. In memory this is the column-major layout GL, WGSL and mathgl
// expect, and a Matrix4 can be uploaded without a transpose.
//
// Clip space follows WebGL: x, y and z all in [-1, 1] after the divide.
// Backends targeting a [0, 1] depth range remap z in the vertex stage.
//
// Rotation directions are those of the classic WebGL tutorials and differ
// from m3: ZRotation(a) equals m3.Rotation(-a) embedded in 3D.
package m4
