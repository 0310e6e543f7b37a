package scene

import (
	"fmt"
	"image/color"
	"time"

	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
	"github.com/gogpu/affine/render"
)

// Frame is the input to one composition: time since the scene started and
// the drawable size in device pixels.
type Frame struct {
	Elapsed time.Duration
	Width   int
	Height  int
}

// Seconds returns Elapsed in seconds.
func (f Frame) Seconds() float64 {
	return f.Elapsed.Seconds()
}

// Composed is the single matrix a scene produces for a frame.
type Composed struct {
	// Dim is 2 for a Matrix3 result and 3 for a Matrix4 result.
	Dim int
	M3  m3.Matrix3
	M4  m4.Matrix4
}

// Elements returns the matrix in its flat upload order.
func (c Composed) Elements() []float64 {
	if c.Dim == 2 {
		return c.M3[:]
	}
	return c.M4[:]
}

// IsFinite reports whether every element is finite.
func (c Composed) IsFinite() bool {
	if c.Dim == 2 {
		return c.M3.IsFinite()
	}
	return c.M4.IsFinite()
}

// Upload sets the matrix as uniform name of program p.
func (c Composed) Upload(b render.Backend, p render.ProgramID, name string) error {
	switch c.Dim {
	case 2:
		return b.SetUniformMatrix3(p, name, c.M3)
	case 3:
		return b.SetUniformMatrix4(p, name, c.M4)
	default:
		return fmt.Errorf("scene: composed matrix has dimension %d", c.Dim)
	}
}

func (c Composed) String() string {
	if c.Dim == 2 {
		return c.M3.String()
	}
	return c.M4.String()
}

// Scene is one drawable, animated transform setup.
type Scene interface {
	// Name is the registry key.
	Name() string

	// Shaders returns the WGSL vertex and fragment sources.
	Shaders() (vertex, fragment string)

	// Uniform names the transform uniform the composed matrix goes to.
	Uniform() string

	// Mesh returns the geometry drawn every frame.
	Mesh() *render.Mesh

	// Compose returns the frame's composed transform.
	Compose(f Frame) Composed
}

// ClearColorer is implemented by scenes that clear to something other
// than white.
type ClearColorer interface {
	ClearColor() color.Color
}

func clearColor(s Scene) color.Color {
	if cc, ok := s.(ClearColorer); ok {
		return cc.ClearColor()
	}
	return color.White
}
