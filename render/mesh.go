// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image/color"
)

// Mesh is an unindexed triangle list.
type Mesh struct {
	// Dim is the number of position components per vertex, 2 or 3.
	Dim int

	// Positions holds Dim values per vertex, three vertices per triangle.
	Positions []float64

	// Colors holds one flat colour per triangle. When shorter than the
	// triangle count the remaining triangles use Color.
	Colors []color.RGBA

	// Color is the fallback fill colour.
	Color color.RGBA

	// Cull discards triangles whose clip-space winding is clockwise.
	Cull bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	if m.Dim <= 0 {
		return 0
	}
	return len(m.Positions) / m.Dim
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return m.VertexCount() / 3
}

// Validate checks the dimension and that positions form whole triangles.
func (m *Mesh) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrInvalidMesh)
	}
	if m.Dim != 2 && m.Dim != 3 {
		return fmt.Errorf("%w: dimension %d", ErrInvalidMesh, m.Dim)
	}
	if len(m.Positions)%(m.Dim*3) != 0 {
		return fmt.Errorf("%w: %d values do not form whole %dD triangles",
			ErrInvalidMesh, len(m.Positions), m.Dim)
	}
	return nil
}

// Vertex returns vertex i with z = 0 for 2D meshes.
func (m *Mesh) Vertex(i int) (x, y, z float64) {
	base := i * m.Dim
	x, y = m.Positions[base], m.Positions[base+1]
	if m.Dim == 3 {
		z = m.Positions[base+2]
	}
	return x, y, z
}

// TriangleColor returns the fill colour of triangle t.
func (m *Mesh) TriangleColor(t int) color.RGBA {
	if t < len(m.Colors) {
		return m.Colors[t]
	}
	return m.Color
}

// Rect returns a 2D mesh of two triangles covering the rectangle at
// (x, y) with the given size. The triangles wind counter-clockwise on
// screen once projected with m3.Projection.
func Rect(x, y, width, height float64, c color.RGBA) *Mesh {
	x1, y1 := x+width, y+height
	return &Mesh{
		Dim: 2,
		Positions: []float64{
			x, y, x, y1, x1, y,
			x, y1, x1, y1, x1, y,
		},
		Color: c,
	}
}
