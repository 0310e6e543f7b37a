package m4

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/affine/m3"
)

const epsilon = 1e-9

func sampleMatrices() map[string]Matrix4 {
	return map[string]Matrix4{
		"identity":     Identity(),
		"translation":  Translation(10, -20, 30),
		"x rotation":   XRotation(0.4),
		"y rotation":   YRotation(DegToRad(40)),
		"z rotation":   ZRotation(-1.3),
		"axis":         AxisRotation(V3(1, 2, 3), 0.9),
		"scaling":      Scaling(2, 3, 0.5),
		"projection":   Projection(800, 600, 400),
		"orthographic": Orthographic(0, 640, 480, 0, 200, -200),
		"perspective":  Perspective(DegToRad(60), 4.0/3.0, 1, 2000),
		"look at":      LookAt(V3(100, 150, 200), V3(0, 35, 0), V3(0, 1, 0)),
		"composite": Multiply(
			Multiply(Perspective(1, 1.5, 1, 100), Translation(-5, 2, -50)),
			Multiply(XRotation(0.3), Scaling(1, 2, 3)),
		),
	}
}

func randomAffine(r *rand.Rand) Matrix4 {
	m := Translation(r.Float64()*100-50, r.Float64()*100-50, r.Float64()*100-50)
	m = XRotate(m, r.Float64()*2*math.Pi)
	m = YRotate(m, r.Float64()*2*math.Pi)
	m = ZRotate(m, r.Float64()*2*math.Pi)
	return Scale(m, 0.5+r.Float64()*2, 0.5+r.Float64()*2, 0.5+r.Float64()*2)
}

func TestConstructorLayouts(t *testing.T) {
	c, s := math.Cos(0.25), math.Sin(0.25)
	tests := []struct {
		name string
		got  Matrix4
		want Matrix4
	}{
		{"translation", Translation(1, 2, 3), Matrix4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}},
		{"x rotation", XRotation(0.25), Matrix4{1, 0, 0, 0, 0, c, s, 0, 0, -s, c, 0, 0, 0, 0, 1}},
		{"y rotation", YRotation(0.25), Matrix4{c, 0, -s, 0, 0, 1, 0, 0, s, 0, c, 0, 0, 0, 0, 1}},
		{"z rotation", ZRotation(0.25), Matrix4{c, s, 0, 0, -s, c, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}},
		{"scaling", Scaling(2, 3, 4), Matrix4{2, 0, 0, 0, 0, 3, 0, 0, 0, 0, 4, 0, 0, 0, 0, 1}},
		{"projection", Projection(200, 100, 400), Matrix4{0.01, 0, 0, 0, 0, -0.02, 0, 0, 0, 0, 0.005, 0, -1, 1, 0, 1}},
		{"z axis rotation", AxisRotation(V3(0, 0, 7), 0.25), ZRotation(0.25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !ApproxEqual(tt.got, tt.want, epsilon) {
				t.Errorf("got %v\nwant %v", tt.got, tt.want)
			}
		})
	}
}

func TestMatchesMathgl(t *testing.T) {
	axis := V3(1, -2, 0.5)
	a := Multiply(Translation(1, 2, 3), XRotation(0.7))
	b := Multiply(Scaling(2, 2, 0.5), YRotation(-0.2))
	eye, center, up := V3(3, 4, 5), V3(0, 1, 0), V3(0, 1, 0)

	tests := []struct {
		name string
		got  Matrix4
		want mgl64.Mat4
	}{
		{"translation", Translation(4, 5, 6), mgl64.Translate3D(4, 5, 6)},
		{"scaling", Scaling(1, 2, 3), mgl64.Scale3D(1, 2, 3)},
		{"x rotation", XRotation(0.9), mgl64.HomogRotate3DX(0.9)},
		{"y rotation", YRotation(0.9), mgl64.HomogRotate3DY(0.9)},
		{"z rotation", ZRotation(0.9), mgl64.HomogRotate3DZ(0.9)},
		{"axis rotation", AxisRotation(axis, 1.1), mgl64.HomogRotate3D(1.1, Normalize(axis).Mgl())},
		{"orthographic", Orthographic(-3, 5, -2, 4, 0.5, 50), mgl64.Ortho(-3, 5, -2, 4, 0.5, 50)},
		{"perspective", Perspective(DegToRad(60), 1.6, 0.1, 500), mgl64.Perspective(DegToRad(60), 1.6, 0.1, 500)},
		// LookAt builds the camera matrix; mathgl returns the view matrix.
		{"look at", LookAt(eye, center, up), mgl64.LookAtV(eye.Mgl(), center.Mgl(), up.Mgl()).Inv()},
		{"multiply", Multiply(a, b), a.Mgl().Mul4(b.Mgl())},
		{"inverse", Inverse(a), a.Mgl().Inv()},
		{"transpose", Transpose(a), a.Mgl().Transpose()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !ApproxEqual(tt.got, FromMgl(tt.want), 1e-9) {
				t.Errorf("got %v\nmathgl %v", tt.got, FromMgl(tt.want))
			}
		})
	}
}

func TestDeterminantMatchesMathgl(t *testing.T) {
	for name, m := range sampleMatrices() {
		want := m.Mgl().Det()
		if got := Determinant(m); math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("%s: Determinant = %v, mathgl %v", name, got, want)
		}
	}
}

func TestIdentityLaws(t *testing.T) {
	for name, m := range sampleMatrices() {
		t.Run(name, func(t *testing.T) {
			if got := Multiply(Identity(), m); !ApproxEqual(got, m, epsilon) {
				t.Errorf("Multiply(I, m) = %v", got)
			}
			if got := Multiply(m, Identity()); !ApproxEqual(got, m, epsilon) {
				t.Errorf("Multiply(m, I) = %v", got)
			}
		})
	}
}

func TestAssociativity(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 50; i++ {
		a, b, c := randomAffine(r), randomAffine(r), randomAffine(r)
		if l, rr := Multiply(Multiply(a, b), c), Multiply(a, Multiply(b, c)); !ApproxEqual(l, rr, 1e-6) {
			t.Fatalf("iteration %d: (ab)c = %v\na(bc) = %v", i, l, rr)
		}
	}
}

func TestInverse(t *testing.T) {
	for name, m := range sampleMatrices() {
		t.Run(name, func(t *testing.T) {
			if got := Multiply(m, Inverse(m)); !ApproxEqual(got, Identity(), 1e-6) {
				t.Errorf("m * inverse(m) = %v", got)
			}
		})
	}
}

func TestInverseRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 1))
	for i := 0; i < 100; i++ {
		m := randomAffine(r)
		p := V3(r.Float64()*100, r.Float64()*100, r.Float64()*100)
		if back := TransformPoint(Inverse(m), TransformPoint(m, p)); !back.Approx(p, 1e-6) {
			t.Fatalf("iteration %d: %v came back as %v", i, p, back)
		}
	}
}

func TestInvert(t *testing.T) {
	if _, err := Invert(Scaling(1, 0, 1)); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("Invert(singular) error = %v, want ErrSingularMatrix", err)
	}
	if _, err := Invert(Matrix4{}); !errors.Is(err, ErrSingularMatrix) {
		t.Errorf("Invert(zero) error = %v, want ErrSingularMatrix", err)
	}
	m := sampleMatrices()["composite"]
	inv, err := Invert(m)
	if err != nil {
		t.Fatalf("Invert() unexpected error: %v", err)
	}
	if inv != Inverse(m) {
		t.Errorf("Invert and Inverse disagree")
	}
	if Inverse(Scaling(1, 0, 1)).IsFinite() {
		t.Errorf("Inverse of singular matrix is finite")
	}
}

func TestRotationsCancel(t *testing.T) {
	for _, a := range []float64{0.1, 1, math.Pi, -2.5} {
		pairs := map[string]Matrix4{
			"x":    Multiply(XRotation(a), XRotation(-a)),
			"y":    Multiply(YRotation(a), YRotation(-a)),
			"z":    Multiply(ZRotation(a), ZRotation(-a)),
			"axis": Multiply(AxisRotation(V3(1, 1, 1), a), AxisRotation(V3(1, 1, 1), -a)),
		}
		for name, m := range pairs {
			if !ApproxEqual(m, Identity(), epsilon) {
				t.Errorf("%s rotation %v then %v = %v", name, a, -a, m)
			}
		}
	}
}

func TestZRotationOpposesM3(t *testing.T) {
	a := 0.8
	z := ZRotation(a)
	r := m3.Rotation(-a)
	got := m3.Matrix3{z[0], z[1], 0, z[4], z[5], 0, 0, 0, 1}
	if !m3.ApproxEqual(got, r, epsilon) {
		t.Errorf("upper 2x2 of ZRotation(%v) = %v, want m3.Rotation(%v) = %v", a, got, -a, r)
	}
}

func TestProjectionCorners(t *testing.T) {
	p := Projection(400, 300, 400)
	tests := []struct {
		in, want Vec3
	}{
		{V3(0, 0, 0), V3(-1, 1, 0)},
		{V3(400, 300, 0), V3(1, -1, 0)},
		{V3(200, 150, 200), V3(0, 0, 1)},
		{V3(0, 300, -200), V3(-1, -1, -1)},
	}
	for _, tt := range tests {
		if got := TransformPoint(p, tt.in); !got.Approx(tt.want, epsilon) {
			t.Errorf("Projection maps %v to %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrthographicBox(t *testing.T) {
	p := Orthographic(0, 640, 480, 0, 200, -200)
	if got := TransformPoint(p, V3(0, 0, 0)); !got.Approx(V3(-1, 1, 0), epsilon) {
		t.Errorf("top-left maps to %v", got)
	}
	if got := TransformPoint(p, V3(640, 480, 200)); !got.Approx(V3(1, -1, 1), epsilon) {
		t.Errorf("bottom-right-front maps to %v", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := 1.0, 100.0
	p := Perspective(DegToRad(90), 1, near, far)
	if got := TransformPoint(p, V3(0, 0, -near)); math.Abs(got[2]+1) > epsilon {
		t.Errorf("near plane z = %v, want -1", got[2])
	}
	if got := TransformPoint(p, V3(0, 0, -far)); math.Abs(got[2]-1) > epsilon {
		t.Errorf("far plane z = %v, want 1", got[2])
	}
	// 90 degree fov: a point at 45 degrees lands on the top edge.
	if got := TransformPoint(p, V3(0, 10, -10)); math.Abs(got[1]-1) > epsilon {
		t.Errorf("edge y = %v, want 1", got[1])
	}
}

func TestLookAt(t *testing.T) {
	cam := LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0))
	if !ApproxEqual(cam, Translation(0, 0, 5), epsilon) {
		t.Errorf("LookAt down -z = %v, want translation", cam)
	}
	view := Inverse(LookAt(V3(10, 20, 30), V3(1, 2, 3), V3(0, 1, 0)))
	got := TransformPoint(view, V3(1, 2, 3))
	if math.Abs(got[0]) > 1e-6 || math.Abs(got[1]) > 1e-6 || got[2] >= 0 {
		t.Errorf("target in view space = %v, want on -z axis", got)
	}
	if d := Distance(V3(10, 20, 30), V3(1, 2, 3)); math.Abs(-got[2]-d) > 1e-6 {
		t.Errorf("target depth = %v, want %v", -got[2], d)
	}
}

func TestTransforms(t *testing.T) {
	m := Multiply(Translation(5, 6, 7), Scaling(2, 1, 1))
	if got := TransformDirection(m, V3(1, 1, 1)); !got.Approx(V3(2, 1, 1), epsilon) {
		t.Errorf("TransformDirection = %v", got)
	}
	if got := TransformVector(m, Vec4{1, 1, 1, 0}); got != (Vec4{2, 1, 1, 0}) {
		t.Errorf("TransformVector(w=0) = %v", got)
	}
	if got := TransformVector(m, Vec4{1, 1, 1, 1}); got != (Vec4{7, 7, 8, 1}) {
		t.Errorf("TransformVector(w=1) = %v", got)
	}

	// The normal of the plane x+y=0 must stay perpendicular to the
	// stretched in-plane direction.
	n := TransformNormal(m, V3(1, 1, 0))
	inPlane := TransformDirection(m, V3(1, -1, 0))
	if d := Dot(n, inPlane); math.Abs(d) > epsilon {
		t.Errorf("transformed normal %v not perpendicular to %v (dot %v)", n, inPlane, d)
	}
}

func TestChainHelpers(t *testing.T) {
	base := Perspective(1, 1, 1, 10)
	axis := V3(0, 1, 1)
	tests := []struct {
		name      string
		got, want Matrix4
	}{
		{"translate", Translate(base, 1, 2, 3), Multiply(base, Translation(1, 2, 3))},
		{"x rotate", XRotate(base, 0.2), Multiply(base, XRotation(0.2))},
		{"y rotate", YRotate(base, 0.2), Multiply(base, YRotation(0.2))},
		{"z rotate", ZRotate(base, 0.2), Multiply(base, ZRotation(0.2))},
		{"axis rotate", AxisRotate(base, axis, 0.2), Multiply(base, AxisRotation(axis, 0.2))},
		{"scale", Scale(base, 1, 2, 3), Multiply(base, Scaling(1, 2, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v\nwant %v", tt.got, tt.want)
			}
		})
	}
}

func TestAtAndFloat32(t *testing.T) {
	m := Translation(1, 2, 3)
	if m.At(3, 0) != 1 || m.At(3, 2) != 3 || m.At(0, 3) != 0 {
		t.Errorf("At() reads the wrong element")
	}
	f := m.Float32()
	for i := range m {
		if float64(f[i]) != m[i] {
			t.Errorf("Float32()[%d] = %v, want %v", i, f[i], m[i])
		}
	}
}
