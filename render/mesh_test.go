// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image/color"
	"testing"
)

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *Mesh
		wantErr bool
	}{
		{"nil", nil, true},
		{"empty 2d", &Mesh{Dim: 2}, false},
		{"triangle", &Mesh{Dim: 2, Positions: []float64{0, 0, 1, 0, 0, 1}}, false},
		{"partial triangle", &Mesh{Dim: 2, Positions: []float64{0, 0, 1, 0}}, true},
		{"3d triangle", &Mesh{Dim: 3, Positions: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}}, false},
		{"bad dim", &Mesh{Dim: 4, Positions: make([]float64, 12)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("error %v is not ErrInvalidMesh", err)
			}
		})
	}
}

func TestMeshAccessors(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	m := Rect(10, 20, 30, 40, blue)
	m.Colors = []color.RGBA{red}

	if m.VertexCount() != 6 || m.TriangleCount() != 2 {
		t.Errorf("counts = %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if m.TriangleColor(0) != red || m.TriangleColor(1) != blue {
		t.Errorf("colors = %v, %v", m.TriangleColor(0), m.TriangleColor(1))
	}
	x, y, z := m.Vertex(5)
	if x != 40 || y != 20 || z != 0 {
		t.Errorf("Vertex(5) = %v,%v,%v", x, y, z)
	}
	if (&Mesh{}).VertexCount() != 0 {
		t.Error("zero mesh should have no vertices")
	}
}
