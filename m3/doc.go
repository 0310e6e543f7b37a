// Package m3 implements 3x3 homogeneous matrices for 2D affine transforms.
//
// A Matrix3 is a flat row-major array under the row-vector convention:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	| m[6] m[7] m[8] |
//
// A point (x, y) is transformed as the row vector (x, y, 1) times the matrix:
//
//	x' = x*m[0] + y*m[3] + m[6]
//	y' = x*m[1] + y*m[4] + m[7]
//	w' = x*m[2] + y*m[5] + m[8]
//
// so the translation sits in m[6] and m[7] and the last column is
// conventionally (0, 0, 1). The layout is identical in memory to a
// column-major matrix under the column-vector convention, which is what
// GL, WGSL and mathgl use.
//
// All functions are pure: they return new values and never modify their
// arguments. Singular matrices and zero-length vectors are numeric edge
// cases, not errors; see Inverse, Invert and Normalize.
package m3
