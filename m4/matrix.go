package m4

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the determinant magnitude below which Invert reports a
// singular matrix.
const Epsilon = 1e-10

// ErrSingularMatrix is returned by Invert for non-invertible input.
var ErrSingularMatrix = errors.New("m4: singular matrix")

// Matrix4 is a 4x4 matrix stored row-major under the row-vector convention.
type Matrix4 [16]float64

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by (tx, ty, tz).
func Translation(tx, ty, tz float64) Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		tx, ty, tz, 1,
	}
}

// XRotation returns a rotation about the x axis by angle radians.
func XRotation(angle float64) Matrix4 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// YRotation returns a rotation about the y axis by angle radians.
func YRotation(angle float64) Matrix4 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// ZRotation returns a rotation about the z axis by angle radians.
func ZRotation(angle float64) Matrix4 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// AxisRotation returns a rotation by angle radians about axis. The axis is
// normalized first; a zero axis yields a matrix that collapses x, y and z.
func AxisRotation(axis Vec3, angle float64) Matrix4 {
	n := Normalize(axis)
	x, y, z := n[0], n[1], n[2]
	xx, yy, zz := x*x, y*y, z*z
	c := math.Cos(angle)
	s := math.Sin(angle)
	omc := 1 - c
	return Matrix4{
		xx + (1-xx)*c, x*y*omc + z*s, x*z*omc - y*s, 0,
		x*y*omc - z*s, yy + (1-yy)*c, y*z*omc + x*s, 0,
		x*z*omc + y*s, y*z*omc - x*s, zz + (1-zz)*c, 0,
		0, 0, 0, 1,
	}
}

// Scaling returns a matrix scaling by (sx, sy, sz).
func Scaling(sx, sy, sz float64) Matrix4 {
	return Matrix4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	}
}

// Projection maps pixel space [0,width]x[0,height]x[-depth/2,depth/2] to
// clip space with y flipped so row 0 is the top.
func Projection(width, height, depth float64) Matrix4 {
	return Matrix4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, 2 / depth, 0,
		-1, 1, 0, 1,
	}
}

// Orthographic returns an orthographic projection of the box bounded by
// left, right, bottom, top, near and far into clip space.
func Orthographic(left, right, bottom, top, near, far float64) Matrix4 {
	return Matrix4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, 2 / (near - far), 0,
		(left + right) / (left - right),
		(bottom + top) / (bottom - top),
		(near + far) / (near - far),
		1,
	}
}

// Perspective returns a perspective projection with vertical field of view
// fovy (radians), the given aspect ratio, and near/far clip distances
// measured along -z.
func Perspective(fovy, aspect, near, far float64) Matrix4 {
	f := math.Tan(math.Pi*0.5 - 0.5*fovy)
	rangeInv := 1 / (near - far)
	return Matrix4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) * rangeInv, -1,
		0, 0, near * far * rangeInv * 2, 0,
	}
}

// LookAt returns a camera matrix placed at camera and facing target, with
// up as the approximate up direction. The inverse of the result is the view
// matrix. If up is parallel to the viewing direction the x axis normalizes
// to zero and the matrix is singular.
func LookAt(camera, target, up Vec3) Matrix4 {
	z := Normalize(Subtract(camera, target))
	x := Normalize(Cross(up, z))
	y := Normalize(Cross(z, x))
	return Matrix4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		camera[0], camera[1], camera[2], 1,
	}
}

// Multiply returns the product of a and b such that transforming a point
// by the result equals transforming it by b and then by a.
func Multiply(a, b Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = b[r*4+0]*a[0*4+c] +
				b[r*4+1]*a[1*4+c] +
				b[r*4+2]*a[2*4+c] +
				b[r*4+3]*a[3*4+c]
		}
	}
	return out
}

// minors holds the twelve 2x2 sub-determinants shared by Determinant and
// Inverse.
type minors struct {
	b00, b01, b02, b03, b04, b05 float64
	b06, b07, b08, b09, b10, b11 float64
}

func minorsOf(m *Matrix4) minors {
	return minors{
		b00: m[0]*m[5] - m[1]*m[4],
		b01: m[0]*m[6] - m[2]*m[4],
		b02: m[0]*m[7] - m[3]*m[4],
		b03: m[1]*m[6] - m[2]*m[5],
		b04: m[1]*m[7] - m[3]*m[5],
		b05: m[2]*m[7] - m[3]*m[6],
		b06: m[8]*m[13] - m[9]*m[12],
		b07: m[8]*m[14] - m[10]*m[12],
		b08: m[8]*m[15] - m[11]*m[12],
		b09: m[9]*m[14] - m[10]*m[13],
		b10: m[9]*m[15] - m[11]*m[13],
		b11: m[10]*m[15] - m[11]*m[14],
	}
}

func (k minors) det() float64 {
	return k.b00*k.b11 - k.b01*k.b10 + k.b02*k.b09 +
		k.b03*k.b08 - k.b04*k.b07 + k.b05*k.b06
}

// Determinant returns the determinant of m.
func Determinant(m Matrix4) float64 {
	return minorsOf(&m).det()
}

// Inverse returns the inverse of m. Singular input is not detected; the
// result then holds Inf or NaN elements. Use Invert for a checked inverse.
func Inverse(m Matrix4) Matrix4 {
	k := minorsOf(&m)
	d := 1 / k.det()
	return Matrix4{
		(m[5]*k.b11 - m[6]*k.b10 + m[7]*k.b09) * d,
		(m[2]*k.b10 - m[1]*k.b11 - m[3]*k.b09) * d,
		(m[13]*k.b05 - m[14]*k.b04 + m[15]*k.b03) * d,
		(m[10]*k.b04 - m[9]*k.b05 - m[11]*k.b03) * d,

		(m[6]*k.b08 - m[4]*k.b11 - m[7]*k.b07) * d,
		(m[0]*k.b11 - m[2]*k.b08 + m[3]*k.b07) * d,
		(m[14]*k.b02 - m[12]*k.b05 - m[15]*k.b01) * d,
		(m[8]*k.b05 - m[10]*k.b02 + m[11]*k.b01) * d,

		(m[4]*k.b10 - m[5]*k.b08 + m[7]*k.b06) * d,
		(m[1]*k.b08 - m[0]*k.b10 - m[3]*k.b06) * d,
		(m[12]*k.b04 - m[13]*k.b02 + m[15]*k.b00) * d,
		(m[9]*k.b02 - m[8]*k.b04 - m[11]*k.b00) * d,

		(m[5]*k.b07 - m[4]*k.b09 - m[6]*k.b06) * d,
		(m[0]*k.b09 - m[1]*k.b07 + m[2]*k.b06) * d,
		(m[13]*k.b01 - m[12]*k.b03 - m[14]*k.b00) * d,
		(m[8]*k.b03 - m[9]*k.b01 + m[10]*k.b00) * d,
	}
}

// Invert is the checked form of Inverse.
func Invert(m Matrix4) (Matrix4, error) {
	det := Determinant(m)
	if math.Abs(det) < Epsilon || math.IsNaN(det) {
		return Matrix4{}, fmt.Errorf("%w (det=%g)", ErrSingularMatrix, det)
	}
	return Inverse(m), nil
}

// Transpose returns the transpose of m.
func Transpose(m Matrix4) Matrix4 {
	return Matrix4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// TransformPoint applies m to (v, 1) and divides by the resulting w.
func TransformPoint(m Matrix4, v Vec3) Vec3 {
	x, y, z := v[0], v[1], v[2]
	d := x*m[3] + y*m[7] + z*m[11] + m[15]
	return Vec3{
		(x*m[0] + y*m[4] + z*m[8] + m[12]) / d,
		(x*m[1] + y*m[5] + z*m[9] + m[13]) / d,
		(x*m[2] + y*m[6] + z*m[10] + m[14]) / d,
	}
}

// TransformVector multiplies the homogeneous vector v by m with no divide.
func TransformVector(m Matrix4, v Vec4) Vec4 {
	var out Vec4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i] += v[j] * m[j*4+i]
		}
	}
	return out
}

// TransformDirection applies the upper 3x3 of m to v, ignoring translation.
func TransformDirection(m Matrix4, v Vec3) Vec3 {
	x, y, z := v[0], v[1], v[2]
	return Vec3{
		x*m[0] + y*m[4] + z*m[8],
		x*m[1] + y*m[5] + z*m[9],
		x*m[2] + y*m[6] + z*m[10],
	}
}

// TransformNormal transforms a surface normal by the inverse transpose of
// m so it stays perpendicular under non-uniform scale. The result is not
// renormalized.
func TransformNormal(m Matrix4, v Vec3) Vec3 {
	mi := Inverse(m)
	x, y, z := v[0], v[1], v[2]
	return Vec3{
		x*mi[0] + y*mi[1] + z*mi[2],
		x*mi[4] + y*mi[5] + z*mi[6],
		x*mi[8] + y*mi[9] + z*mi[10],
	}
}

// Translate, XRotate, YRotate, ZRotate, AxisRotate and Scale post-multiply
// m by the matching constructor, so the new transform is applied first.
func Translate(m Matrix4, tx, ty, tz float64) Matrix4 {
	return Multiply(m, Translation(tx, ty, tz))
}

func XRotate(m Matrix4, angle float64) Matrix4 {
	return Multiply(m, XRotation(angle))
}

func YRotate(m Matrix4, angle float64) Matrix4 {
	return Multiply(m, YRotation(angle))
}

func ZRotate(m Matrix4, angle float64) Matrix4 {
	return Multiply(m, ZRotation(angle))
}

func AxisRotate(m Matrix4, axis Vec3, angle float64) Matrix4 {
	return Multiply(m, AxisRotation(axis, angle))
}

func Scale(m Matrix4, sx, sy, sz float64) Matrix4 {
	return Multiply(m, Scaling(sx, sy, sz))
}

// At returns the element at row, col.
func (m Matrix4) At(row, col int) float64 {
	return m[row*4+col]
}

// IsFinite reports whether no element is NaN or infinite.
func (m Matrix4) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether a and b differ by at most eps per element.
func ApproxEqual(a, b Matrix4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func (m Matrix4) String() string {
	return fmt.Sprintf("[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11], m[12], m[13], m[14], m[15])
}
