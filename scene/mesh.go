package scene

import (
	"fmt"
	"image/color"

	"github.com/gogpu/affine/render"
)

// Triangle returns a right triangle with legs of length size at the
// origin, wound counter-clockwise on screen.
func Triangle(size float64, c color.RGBA) *render.Mesh {
	return &render.Mesh{
		Dim:       2,
		Positions: []float64{0, 0, 0, size, size, 0},
		Color:     c,
	}
}

// letterFPositions is a 100x150x30 letter F: three front quads, three back
// quads and ten side quads, two triangles each.
var letterFPositions = []float64{
	// left column front
	0, 0, 0, 30, 0, 0, 0, 150, 0,
	0, 150, 0, 30, 0, 0, 30, 150, 0,
	// top rung front
	30, 0, 0, 100, 0, 0, 30, 30, 0,
	30, 30, 0, 100, 0, 0, 100, 30, 0,
	// middle rung front
	30, 60, 0, 67, 60, 0, 30, 90, 0,
	30, 90, 0, 67, 60, 0, 67, 90, 0,
	// left column back
	0, 0, 30, 30, 0, 30, 0, 150, 30,
	0, 150, 30, 30, 0, 30, 30, 150, 30,
	// top rung back
	30, 0, 30, 100, 0, 30, 30, 30, 30,
	30, 30, 30, 100, 0, 30, 100, 30, 30,
	// middle rung back
	30, 60, 30, 67, 60, 30, 30, 90, 30,
	30, 90, 30, 67, 60, 30, 67, 90, 30,
	// top
	0, 0, 0, 100, 0, 0, 100, 0, 30,
	0, 0, 0, 100, 0, 30, 0, 0, 30,
	// top rung right
	100, 0, 0, 100, 30, 0, 100, 30, 30,
	100, 0, 0, 100, 30, 30, 100, 0, 30,
	// under top rung
	30, 30, 0, 30, 30, 30, 100, 30, 30,
	30, 30, 0, 100, 30, 30, 100, 30, 0,
	// between top rung and middle
	30, 30, 0, 30, 30, 30, 30, 60, 30,
	30, 30, 0, 30, 60, 30, 30, 60, 0,
	// top of middle rung
	30, 60, 0, 30, 60, 30, 67, 60, 30,
	30, 60, 0, 67, 60, 30, 67, 60, 0,
	// right of middle rung
	67, 60, 0, 67, 60, 30, 67, 90, 30,
	67, 60, 0, 67, 90, 30, 67, 90, 0,
	// bottom of middle rung
	30, 90, 0, 30, 90, 30, 67, 90, 30,
	30, 90, 0, 67, 90, 30, 67, 90, 0,
	// right of bottom
	30, 90, 0, 30, 90, 30, 30, 150, 30,
	30, 90, 0, 30, 150, 30, 30, 150, 0,
	// bottom
	0, 150, 0, 0, 150, 30, 30, 150, 30,
	0, 150, 0, 30, 150, 30, 30, 150, 0,
	// left side
	0, 0, 0, 0, 0, 30, 0, 150, 30,
	0, 0, 0, 0, 150, 30, 0, 150, 0,
}

// letterFFaces holds one colour per quad in letterFPositions order.
var letterFFaces = []color.RGBA{
	{200, 70, 120, 255}, {200, 70, 120, 255}, {200, 70, 120, 255},
	{80, 70, 200, 255}, {80, 70, 200, 255}, {80, 70, 200, 255},
	{70, 200, 210, 255},
	{200, 200, 70, 255},
	{210, 100, 70, 255},
	{210, 160, 70, 255},
	{70, 180, 210, 255},
	{100, 70, 210, 255},
	{76, 210, 100, 255},
	{140, 210, 80, 255},
	{90, 130, 110, 255},
	{160, 160, 220, 255},
}

// LetterF returns the 3D letter F with per-face colours.
func LetterF() *render.Mesh {
	colors := make([]color.RGBA, 0, 2*len(letterFFaces))
	for _, c := range letterFFaces {
		colors = append(colors, c, c)
	}
	return &render.Mesh{
		Dim:       3,
		Positions: append([]float64(nil), letterFPositions...),
		Colors:    colors,
	}
}

// MeshByName builds one of the named meshes: "triangle", "rect" or
// "letter-f". size is the triangle leg or the rectangle width and height.
func MeshByName(name string, size []float64, c color.RGBA) (*render.Mesh, error) {
	switch name {
	case "triangle":
		leg := 100.0
		if len(size) > 0 {
			leg = size[0]
		}
		return Triangle(leg, c), nil
	case "rect":
		w, h := 100.0, 100.0
		switch len(size) {
		case 0:
		case 2:
			w, h = size[0], size[1]
		default:
			return nil, fmt.Errorf("%w: rect size needs 2 values, got %d", ErrInvalidScene, len(size))
		}
		return render.Rect(0, 0, w, h, c), nil
	case "letter-f":
		return LetterF(), nil
	default:
		return nil, fmt.Errorf("%w: unknown mesh %q", ErrInvalidScene, name)
	}
}
