package m3

import "math"

// NormalizeEpsilon is the length below which Normalize returns the zero
// vector instead of dividing.
const NormalizeEpsilon = 1e-5

// Vec2 is a 2-element vector. Points and directions share the type; the
// caller tracks which one a value represents.
type Vec2 [2]float64

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// X returns the first component.
func (v Vec2) X() float64 { return v[0] }

// Y returns the second component.
func (v Vec2) Y() float64 { return v[1] }

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v[0] + w[0], v[1] + w[1]}
}

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v[0] - w[0], v[1] - w[1]}
}

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// Length returns the magnitude of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1])
}

// Approx reports whether v and w differ by at most eps per component.
func (v Vec2) Approx(w Vec2, eps float64) bool {
	return math.Abs(v[0]-w[0]) <= eps && math.Abs(v[1]-w[1]) <= eps
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// Normalize returns v scaled to unit length.
//
// Vectors shorter than NormalizeEpsilon normalize to the zero vector
// (0, 0) rather than dividing by a near-zero length. This is the defined
// result for degenerate input, not an error.
func Normalize(v Vec2) Vec2 {
	l := Distance(Vec2{}, v)
	if l > NormalizeEpsilon {
		return Vec2{v[0] / l, v[1] / l}
	}
	return Vec2{}
}

// Reflect reflects the incident vector i about the normal n:
// i - 2*dot(n, i)*n. The normal is expected to be unit length.
func Reflect(i, n Vec2) Vec2 {
	d := Dot(n, i)
	return Vec2{i[0] - 2*d*n[0], i[1] - 2*d*n[1]}
}

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 {
	return d * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 {
	return r * 180 / math.Pi
}
