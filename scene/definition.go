package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/affine/compose"
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
	"github.com/gogpu/affine/render"
)

// ErrInvalidScene reports a definition that cannot be composed.
var ErrInvalidScene = errors.New("scene: invalid scene")

// ProjectionKind selects how a 3D definition reaches clip space. 2D
// definitions always use the pixel projection.
type ProjectionKind string

// Projection kinds.
const (
	// ProjectPixels maps pixel coordinates straight to clip space.
	ProjectPixels ProjectionKind = "pixels"

	// ProjectOrthographic uses m4.Orthographic(0, w, h, 0, Near, Far).
	ProjectOrthographic ProjectionKind = "orthographic"

	// ProjectPerspective uses m4.Perspective(FOV, w/h, Near, Far).
	ProjectPerspective ProjectionKind = "perspective"
)

// Projection parameters. Zero values fall back to the defaults below.
type Projection struct {
	Kind  ProjectionKind
	Depth float64
	Near  float64
	Far   float64
	FOV   float64 // degrees
}

const (
	defaultDepth = 400
	defaultNear  = 1
	defaultFar   = 2000
	defaultFOV   = 60
)

func (p Projection) matrix(w, h float64) m4.Matrix4 {
	near, far := p.Near, p.Far
	if near == 0 && far == 0 {
		near, far = defaultNear, defaultFar
	}
	switch p.Kind {
	case ProjectOrthographic:
		return m4.Orthographic(0, w, h, 0, near, far)
	case ProjectPerspective:
		fov := p.FOV
		if fov == 0 {
			fov = defaultFOV
		}
		return m4.Perspective(m4.DegToRad(fov), w/h, near, far)
	default:
		depth := p.Depth
		if depth == 0 {
			depth = defaultDepth
		}
		return m4.Projection(w, h, depth)
	}
}

// Rotation is an angle that may advance with time.
type Rotation struct {
	Degrees float64
	// Speed is in degrees per second.
	Speed float64
	// Axis is used by 3D definitions. Zero means the z axis.
	Axis m4.Vec3
}

func (r Rotation) radians(f Frame) float64 {
	return m3.DegToRad(r.Degrees + r.Speed*f.Seconds())
}

// Definition is a data-driven Scene. Nil transform fields are left out of
// the composition set.
type Definition struct {
	SceneName string

	// Dim is 2 or 3 and must match Geometry.Dim.
	Dim      int
	Geometry *render.Mesh

	// Queue is the composition order. Nil means compose.DefaultQueue.
	Queue compose.Queue

	Projection Projection

	Scale       []float64
	Translation []float64
	Rotation    *Rotation
	Pivot       []float64

	// Velocity moves the translation in pixels per second. With Wrap > 0
	// the x and y offsets wrap modulo the drawable size minus Wrap.
	Velocity []float64
	Wrap     float64

	Clear color.RGBA

	// VertexSource and FragmentSource default to the built-in shader for
	// Dim.
	VertexSource   string
	FragmentSource string
	UniformName    string
}

var (
	_ Scene        = (*Definition)(nil)
	_ ClearColorer = (*Definition)(nil)
)

// Name implements Scene.
func (d *Definition) Name() string { return d.SceneName }

// Shaders implements Scene.
func (d *Definition) Shaders() (string, string) {
	def := render.Shader2D
	if d.Dim == 3 {
		def = render.Shader3D
	}
	vs, fs := d.VertexSource, d.FragmentSource
	if vs == "" {
		vs = def
	}
	if fs == "" {
		fs = def
	}
	return vs, fs
}

// Uniform implements Scene.
func (d *Definition) Uniform() string {
	if d.UniformName == "" {
		return render.TransformUniform
	}
	return d.UniformName
}

// Mesh implements Scene.
func (d *Definition) Mesh() *render.Mesh { return d.Geometry }

// ClearColor implements ClearColorer. A zero Clear means white.
func (d *Definition) ClearColor() color.Color {
	if d.Clear == (color.RGBA{}) {
		return color.White
	}
	return d.Clear
}

// Validate checks that every vector matches Dim and the queue is sound.
func (d *Definition) Validate() error {
	if d.SceneName == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidScene)
	}
	if d.Dim != 2 && d.Dim != 3 {
		return fmt.Errorf("%w: %q has dimension %d", ErrInvalidScene, d.SceneName, d.Dim)
	}
	if err := d.Geometry.Validate(); err != nil {
		return fmt.Errorf("scene %q: %w", d.SceneName, err)
	}
	if d.Geometry.Dim != d.Dim {
		return fmt.Errorf("%w: %q is %dD with a %dD mesh", ErrInvalidScene, d.SceneName, d.Dim, d.Geometry.Dim)
	}
	if d.Queue != nil {
		if err := d.Queue.Validate(); err != nil {
			return fmt.Errorf("scene %q: %w", d.SceneName, err)
		}
	}
	vectors := []struct {
		name string
		v    []float64
	}{
		{"scale", d.Scale},
		{"translation", d.Translation},
		{"pivot", d.Pivot},
		{"velocity", d.Velocity},
	}
	for _, vec := range vectors {
		if vec.v != nil && len(vec.v) != d.Dim {
			return fmt.Errorf("%w: %q %s has %d components, want %d",
				ErrInvalidScene, d.SceneName, vec.name, len(vec.v), d.Dim)
		}
	}
	if d.Dim == 2 && d.Projection.Kind != "" && d.Projection.Kind != ProjectPixels {
		return fmt.Errorf("%w: %q: 2D scenes only support the pixels projection", ErrInvalidScene, d.SceneName)
	}
	switch d.Projection.Kind {
	case "", ProjectPixels, ProjectOrthographic, ProjectPerspective:
	default:
		return fmt.Errorf("%w: %q: unknown projection %q", ErrInvalidScene, d.SceneName, d.Projection.Kind)
	}
	if d.Rotation != nil && d.Dim == 2 && d.Rotation.Axis != (m4.Vec3{}) && d.Rotation.Axis != (m4.Vec3{0, 0, 1}) {
		return fmt.Errorf("%w: %q: 2D rotation is about z only", ErrInvalidScene, d.SceneName)
	}
	return nil
}

func (d *Definition) queue() compose.Queue {
	if d.Queue == nil {
		return compose.DefaultQueue
	}
	return d.Queue
}

// offset returns the translation at frame f, or nil without one.
func (d *Definition) offset(f Frame) []float64 {
	if d.Translation == nil && d.Velocity == nil {
		return nil
	}
	out := make([]float64, d.Dim)
	copy(out, d.Translation)
	if d.Velocity == nil {
		return out
	}
	t := f.Seconds()
	spans := []float64{float64(f.Width) - d.Wrap, float64(f.Height) - d.Wrap, 0}
	for i, v := range d.Velocity {
		off := v * t
		if d.Wrap > 0 && spans[i] > 0 {
			off = math.Mod(off, spans[i])
			if off < 0 {
				off += spans[i]
			}
		}
		out[i] += off
	}
	return out
}

// Compose implements Scene.
func (d *Definition) Compose(f Frame) Composed {
	w, h := float64(f.Width), float64(f.Height)
	if d.Dim == 2 {
		return Composed{Dim: 2, M3: d.compose2D(f, w, h)}
	}
	return Composed{Dim: 3, M4: d.compose3D(f, w, h)}
}

func (d *Definition) compose2D(f Frame, w, h float64) m3.Matrix3 {
	set := compose.Set[m3.Matrix3]{
		compose.Projection: m3.Projection(w, h),
	}
	if s := d.Scale; s != nil {
		set[compose.Scale] = m3.Scaling(s[0], s[1])
	}
	if t := d.offset(f); t != nil {
		set[compose.Translation] = m3.Translation(t[0], t[1])
	}
	if d.Rotation != nil {
		set[compose.Rotation] = m3.Rotation(d.Rotation.radians(f))
	}
	if p := d.Pivot; p != nil {
		set[compose.PivotRecenter] = compose.Pivot2D(p[0], p[1])
	}
	return compose.Compose(compose.M3, d.queue(), set)
}

func (d *Definition) compose3D(f Frame, w, h float64) m4.Matrix4 {
	set := compose.Set[m4.Matrix4]{
		compose.Projection: d.Projection.matrix(w, h),
	}
	if s := d.Scale; s != nil {
		set[compose.Scale] = m4.Scaling(s[0], s[1], s[2])
	}
	if t := d.offset(f); t != nil {
		set[compose.Translation] = m4.Translation(t[0], t[1], t[2])
	}
	if r := d.Rotation; r != nil {
		set[compose.Rotation] = rotation3D(r.Axis, r.radians(f))
	}
	if p := d.Pivot; p != nil {
		set[compose.PivotRecenter] = compose.Pivot3D(p[0], p[1], p[2])
	}
	return compose.Compose(compose.M4, d.queue(), set)
}

// rotation3D uses the dedicated constructor for a principal axis.
func rotation3D(axis m4.Vec3, angle float64) m4.Matrix4 {
	switch axis {
	case m4.Vec3{1, 0, 0}:
		return m4.XRotation(angle)
	case m4.Vec3{0, 1, 0}:
		return m4.YRotation(angle)
	case m4.Vec3{}, m4.Vec3{0, 0, 1}:
		return m4.ZRotation(angle)
	default:
		return m4.AxisRotation(axis, angle)
	}
}
