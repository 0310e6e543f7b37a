package m3

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the determinant magnitude below which Invert reports a
// singular matrix.
const Epsilon = 1e-10

// ErrSingularMatrix is returned by Invert when the determinant is within
// Epsilon of zero.
var ErrSingularMatrix = errors.New("m3: singular matrix")

// Matrix3 is a 3x3 matrix stored row-major under the row-vector convention.
// See the package documentation for the element layout.
type Matrix3 [9]float64

// Identity returns the identity matrix.
func Identity() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translation returns a matrix translating by (tx, ty).
func Translation(tx, ty float64) Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		tx, ty, 1,
	}
}

// Rotation returns a rotation matrix for the given angle in radians.
// With the y axis pointing down (pixel space) positive angles turn
// counter-clockwise on screen.
func Rotation(angle float64) Matrix3 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return Matrix3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Scaling returns a matrix scaling by (sx, sy).
func Scaling(sx, sy float64) Matrix3 {
	return Matrix3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Projection maps pixel space [0,width]x[0,height] to clip space
// [-1,1]x[-1,1]. The y axis is flipped so that pixel row 0 is the top of
// clip space.
func Projection(width, height float64) Matrix3 {
	return Matrix3{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}

// Multiply returns the product of a and b such that transforming a point by
// the result is the same as transforming it by b first and then by a.
//
// In the row-vector convention this is the matrix product b·a; the argument
// order is what lets call sites write chains as
// Multiply(Multiply(projection, translation), rotation).
func Multiply(a, b Matrix3) Matrix3 {
	var out Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = b[r*3+0]*a[0*3+c] +
				b[r*3+1]*a[1*3+c] +
				b[r*3+2]*a[2*3+c]
		}
	}
	return out
}

// Determinant returns the determinant of m.
func Determinant(m Matrix3) float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[3]*(m[1]*m[8]-m[2]*m[7]) +
		m[6]*(m[1]*m[5]-m[2]*m[4])
}

// Inverse returns the inverse of m using the adjugate over the determinant.
//
// Inverse does not guard against singular input: when the determinant is
// zero or close to it the result contains Inf or NaN elements, which
// propagate visibly through later products. Callers that need a checked
// result use Invert.
func Inverse(m Matrix3) Matrix3 {
	t00 := m[4]*m[8] - m[5]*m[7]
	t10 := m[1]*m[8] - m[2]*m[7]
	t20 := m[1]*m[5] - m[2]*m[4]
	d := 1.0 / (m[0]*t00 - m[3]*t10 + m[6]*t20)
	return Matrix3{
		d * t00,
		-d * t10,
		d * t20,
		-d * (m[3]*m[8] - m[5]*m[6]),
		d * (m[0]*m[8] - m[2]*m[6]),
		-d * (m[0]*m[5] - m[2]*m[3]),
		d * (m[3]*m[7] - m[4]*m[6]),
		-d * (m[0]*m[7] - m[1]*m[6]),
		d * (m[0]*m[4] - m[1]*m[3]),
	}
}

// Invert is the checked form of Inverse. It returns ErrSingularMatrix when
// the determinant magnitude is below Epsilon.
func Invert(m Matrix3) (Matrix3, error) {
	det := Determinant(m)
	if math.Abs(det) < Epsilon || math.IsNaN(det) {
		return Matrix3{}, fmt.Errorf("%w (det=%g)", ErrSingularMatrix, det)
	}
	return Inverse(m), nil
}

// Transpose returns the transpose of m.
func Transpose(m Matrix3) Matrix3 {
	return Matrix3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// TransformPoint applies m to the homogeneous point (v[0], v[1], 1) and
// divides by the resulting w component.
func TransformPoint(m Matrix3, v Vec2) Vec2 {
	d := v[0]*m[2] + v[1]*m[5] + m[8]
	return Vec2{
		(v[0]*m[0] + v[1]*m[3] + m[6]) / d,
		(v[0]*m[1] + v[1]*m[4] + m[7]) / d,
	}
}

// TransformVector applies the linear part of m to v (no translation, no
// perspective divide).
func TransformVector(m Matrix3, v Vec2) Vec2 {
	return Vec2{
		v[0]*m[0] + v[1]*m[3],
		v[0]*m[1] + v[1]*m[4],
	}
}

// Translate returns Multiply(m, Translation(tx, ty)).
func Translate(m Matrix3, tx, ty float64) Matrix3 {
	return Multiply(m, Translation(tx, ty))
}

// Rotate returns Multiply(m, Rotation(angle)).
func Rotate(m Matrix3, angle float64) Matrix3 {
	return Multiply(m, Rotation(angle))
}

// Scale returns Multiply(m, Scaling(sx, sy)).
func Scale(m Matrix3, sx, sy float64) Matrix3 {
	return Multiply(m, Scaling(sx, sy))
}

// Project returns Multiply(m, Projection(width, height)).
func Project(m Matrix3, width, height float64) Matrix3 {
	return Multiply(m, Projection(width, height))
}

// At returns the element at the given row and column.
func (m Matrix3) At(row, col int) float64 {
	return m[row*3+col]
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Matrix3) IsIdentity() bool {
	return m == Identity()
}

// IsFinite reports whether every element of m is finite.
func (m Matrix3) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether a and b differ by at most eps per element.
func ApproxEqual(a, b Matrix3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// String formats m as three rows.
func (m Matrix3) String() string {
	return fmt.Sprintf("[%g %g %g; %g %g %g; %g %g %g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}
