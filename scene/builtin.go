package scene

import (
	"image/color"

	"github.com/gogpu/affine/compose"
	"github.com/gogpu/affine/m4"
	"github.com/gogpu/affine/render"
)

// Nominal size of the image the quad scene stands in for. The quad is
// drawn at twice this size.
const (
	QuadImageWidth  = 160
	QuadImageHeight = 120
)

// Names of the built-in scenes.
const (
	TriangleScene = "triangle"
	QuadScene     = "quad"
	LetterFScene  = "letter-f"
)

// NewTriangle returns the "triangle" scene: a 100 px triangle at y = 100
// whose x advances at 150 px/s, wrapping at the drawable width minus 200.
func NewTriangle() *Definition {
	return &Definition{
		SceneName:   TriangleScene,
		Dim:         2,
		Geometry:    Triangle(100, color.RGBA{R: 230, G: 80, B: 60, A: 255}),
		Queue:       compose.TutorialQueue,
		Scale:       []float64{1, 1},
		Translation: []float64{0, 100},
		Rotation:    &Rotation{},
		Velocity:    []float64{150, 0},
		Wrap:        200,
	}
}

// NewQuad returns the "quad" scene: a rectangle twice the nominal image
// size with its top-left corner at (100, 100).
func NewQuad() *Definition {
	return &Definition{
		SceneName:   QuadScene,
		Dim:         2,
		Geometry:    render.Rect(0, 0, 2*QuadImageWidth, 2*QuadImageHeight, color.RGBA{R: 250, G: 200, B: 40, A: 255}),
		Queue:       compose.TutorialQueue,
		Scale:       []float64{1, 1},
		Translation: []float64{100, 100},
		Rotation:    &Rotation{},
	}
}

// NewLetterF returns the "letter-f" scene: the F under
// orthographic(0, w, h, 0, 200, -200), translated to (100, 100, 0) and
// turned 40 degrees about y, with back faces culled.
func NewLetterF() *Definition {
	mesh := LetterF()
	mesh.Cull = true
	return &Definition{
		SceneName:   LetterFScene,
		Dim:         3,
		Geometry:    mesh,
		Queue:       compose.TutorialQueue,
		Projection:  Projection{Kind: ProjectOrthographic, Near: 200, Far: -200},
		Scale:       []float64{1, 1, 1},
		Translation: []float64{100, 100, 0},
		Rotation:    &Rotation{Degrees: 40, Axis: m4.Vec3{0, 1, 0}},
	}
}

// Builtins returns a registry holding the built-in scenes.
func Builtins() *Registry {
	r := NewRegistry()
	for _, d := range []*Definition{NewTriangle(), NewQuad(), NewLetterF()} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}
