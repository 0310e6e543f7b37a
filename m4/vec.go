package m4

import "math"

// NormalizeEpsilon is the length at or below which Normalize returns the
// zero vector.
const NormalizeEpsilon = 1e-5

// Vec3 is a point or direction in 3D.
type Vec3 [3]float64

// Vec4 is a homogeneous 4-component vector.
type Vec4 [4]float64

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Approx reports whether v and w differ by at most eps per component.
func (v Vec3) Approx(w Vec3, eps float64) bool {
	return math.Abs(v[0]-w[0]) <= eps &&
		math.Abs(v[1]-w[1]) <= eps &&
		math.Abs(v[2]-w[2]) <= eps
}

// Length returns the magnitude of v.
func (v Vec3) Length() float64 {
	return math.Sqrt(Dot(v, v))
}

// Cross returns the cross product a x b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Subtract returns a - b.
func Subtract(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float64 {
	return Subtract(a, b).Length()
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// no longer than NormalizeEpsilon.
func Normalize(v Vec3) Vec3 {
	l := v.Length()
	if l > NormalizeEpsilon {
		return Vec3{v[0] / l, v[1] / l, v[2] / l}
	}
	return Vec3{}
}

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 { return d * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 { return r * 180 / math.Pi }
