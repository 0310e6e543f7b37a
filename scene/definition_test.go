package scene

import (
	"math"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/affine/compose"
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
	"github.com/gogpu/affine/render"
)

const eps = 1e-9

// toPixel maps a 2D point through m and back to pixel coordinates.
func toPixel(m m3.Matrix3, x, y float64, w, h int) (float64, float64) {
	p := m3.TransformPoint(m, m3.V2(x, y))
	return (p[0] + 1) / 2 * float64(w), (1 - p[1]) / 2 * float64(h)
}

func TestTriangleMotion(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		width   int
		wantX   float64
	}{
		{"start", 0, 800, 0},
		{"two seconds", 2 * time.Second, 800, 300},
		{"wrapped", 5 * time.Second, 800, 150},
		{"narrow canvas does not wrap", 3 * time.Second, 150, 450},
	}
	tri := NewTriangle()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tri.Compose(Frame{Elapsed: tt.elapsed, Width: tt.width, Height: 600})
			require.Equal(t, 2, c.Dim)
			x, y := toPixel(c.M3, 0, 0, tt.width, 600)
			assert.InDelta(t, tt.wantX, x, 1e-6, spew.Sdump(c.M3))
			assert.InDelta(t, 100, y, 1e-6)
		})
	}
}

func TestQuadCorners(t *testing.T) {
	c := NewQuad().Compose(Frame{Width: 640, Height: 480})
	x, y := toPixel(c.M3, 0, 0, 640, 480)
	assert.InDelta(t, 100, x, 1e-6)
	assert.InDelta(t, 100, y, 1e-6)
	x, y = toPixel(c.M3, 2*QuadImageWidth, 2*QuadImageHeight, 640, 480)
	assert.InDelta(t, 100+2*QuadImageWidth, x, 1e-6)
	assert.InDelta(t, 100+2*QuadImageHeight, y, 1e-6)
}

func TestLetterFComposition(t *testing.T) {
	c := NewLetterF().Compose(Frame{Width: 400, Height: 300})
	require.Equal(t, 3, c.Dim)

	want := m4.Orthographic(0, 400, 300, 0, 200, -200)
	want = m4.Multiply(want, m4.Scaling(1, 1, 1))
	want = m4.Multiply(want, m4.Translation(100, 100, 0))
	want = m4.Multiply(want, m4.YRotation(m4.DegToRad(40)))
	assert.True(t, m4.ApproxEqual(want, c.M4, eps), "got %s\nwant %s", c.M4, want)

	// The F's origin lands at pixel (100, 100).
	p := m4.TransformPoint(c.M4, m4.V3(0, 0, 0))
	assert.InDelta(t, 100.0/400*2-1, p[0], 1e-9)
	assert.InDelta(t, 1-100.0/300*2, p[1], 1e-9)
}

func TestDefinitionPivot(t *testing.T) {
	d := &Definition{
		SceneName:   "pivot",
		Dim:         2,
		Geometry:    render.Rect(0, 0, 80, 40, red),
		Translation: []float64{200, 150},
		Rotation:    &Rotation{Degrees: 180},
		Pivot:       []float64{40, 20},
	}
	require.NoError(t, d.Validate())
	c := d.Compose(Frame{Width: 400, Height: 300})

	// With the default queue the pivot moves to the translation point, so
	// a half turn sends the top-left corner to the bottom-right.
	x, y := toPixel(c.M3, 0, 0, 400, 300)
	assert.InDelta(t, 240, x, 1e-6)
	assert.InDelta(t, 170, y, 1e-6)
	x, y = toPixel(c.M3, 40, 20, 400, 300)
	assert.InDelta(t, 200, x, 1e-6)
	assert.InDelta(t, 150, y, 1e-6)
}

func TestDefinitionRotationSpeed(t *testing.T) {
	d := &Definition{
		SceneName: "spin",
		Dim:       3,
		Geometry:  LetterF(),
		Queue:     compose.Queue{compose.Rotation},
		Rotation:  &Rotation{Degrees: 10, Speed: 20, Axis: m4.Vec3{1, 0, 0}},
	}
	// Only rotation is queued, so the projection is left out.
	c := d.Compose(Frame{Elapsed: 4 * time.Second, Width: 100, Height: 100})
	assert.True(t, m4.ApproxEqual(m4.XRotation(m4.DegToRad(90)), c.M4, eps))
}

func TestRotation3DAxes(t *testing.T) {
	angle := 0.7
	assert.Equal(t, m4.XRotation(angle), rotation3D(m4.Vec3{1, 0, 0}, angle))
	assert.Equal(t, m4.YRotation(angle), rotation3D(m4.Vec3{0, 1, 0}, angle))
	assert.Equal(t, m4.ZRotation(angle), rotation3D(m4.Vec3{}, angle))
	axis := m4.Vec3{1, 1, 0}
	assert.Equal(t, m4.AxisRotation(axis, angle), rotation3D(axis, angle))
}

func TestProjectionMatrix(t *testing.T) {
	tests := []struct {
		name string
		p    Projection
		want m4.Matrix4
	}{
		{"pixels default depth", Projection{}, m4.Projection(200, 100, defaultDepth)},
		{"pixels depth", Projection{Kind: ProjectPixels, Depth: 50}, m4.Projection(200, 100, 50)},
		{"orthographic", Projection{Kind: ProjectOrthographic, Near: 200, Far: -200}, m4.Orthographic(0, 200, 100, 0, 200, -200)},
		{"perspective defaults", Projection{Kind: ProjectPerspective}, m4.Perspective(m4.DegToRad(defaultFOV), 2, defaultNear, defaultFar)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, m4.ApproxEqual(tt.want, tt.p.matrix(200, 100), eps))
		})
	}
}

func TestDefinitionValidate(t *testing.T) {
	base := func() *Definition {
		return &Definition{SceneName: "ok", Dim: 2, Geometry: Triangle(10, red)}
	}
	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"empty name", func(d *Definition) { d.SceneName = "" }},
		{"bad dim", func(d *Definition) { d.Dim = 4 }},
		{"nil mesh", func(d *Definition) { d.Geometry = nil }},
		{"mesh dim mismatch", func(d *Definition) { d.Dim = 3 }},
		{"duplicate kind", func(d *Definition) { d.Queue = compose.Queue{compose.Scale, compose.Scale} }},
		{"short translation", func(d *Definition) { d.Translation = []float64{1} }},
		{"long scale", func(d *Definition) { d.Scale = []float64{1, 1, 1} }},
		{"2d perspective", func(d *Definition) { d.Projection.Kind = ProjectPerspective }},
		{"unknown projection", func(d *Definition) { d.Projection.Kind = "fisheye" }},
		{"2d axis", func(d *Definition) { d.Rotation = &Rotation{Axis: m4.Vec3{1, 0, 0}} }},
	}
	require.NoError(t, base().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(d)
			assert.Error(t, d.Validate())
		})
	}
}

func TestDefinitionDefaults(t *testing.T) {
	d := &Definition{SceneName: "d", Dim: 3, Geometry: LetterF()}
	vs, fs := d.Shaders()
	assert.Equal(t, render.Shader3D, vs)
	assert.Equal(t, render.Shader3D, fs)
	assert.Equal(t, render.TransformUniform, d.Uniform())
	assert.Equal(t, compose.DefaultQueue, d.queue())

	r, g, b, a := d.ClearColor().RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0xffff, 0xffff, 0xffff}, [4]uint32{r, g, b, a})

	// Without any transforms only the projection remains.
	c := d.Compose(Frame{Width: 300, Height: 200})
	assert.True(t, m4.ApproxEqual(m4.Projection(300, 200, defaultDepth), c.M4, eps))
}

func TestComposedHelpers(t *testing.T) {
	c := Composed{Dim: 2, M3: m3.Translation(1, 2)}
	assert.Len(t, c.Elements(), 9)
	assert.True(t, c.IsFinite())

	c = Composed{Dim: 3, M4: m4.Identity()}
	assert.Len(t, c.Elements(), 16)
	c.M4[5] = math.Inf(1)
	assert.False(t, c.IsFinite())

	b := render.NewSoftware(4, 4)
	assert.Error(t, Composed{}.Upload(b, 1, render.TransformUniform))
}
