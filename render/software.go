// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

// Software is a CPU Backend.
//
// Each Draw transforms the mesh vertices with the program's transform
// uniform, maps clip space to pixels with y pointing down, and fills every
// surviving triangle with its flat colour using an anti-aliasing vector
// rasterizer. Triangles are painted in submission order with no depth test;
// consecutive triangles of one colour are filled as a single path.
// A triangle is dropped when any vertex has w <= 0, a clip z outside
// [-1, 1] or a non-finite coordinate.
//
// Example:
//
//	b := render.NewSoftware(400, 300)
//	vs, _ := b.CompileShader(render.StageVertex, render.Shader2D)
//	fs, _ := b.CompileShader(render.StageFragment, render.Shader2D)
//	prog, _ := b.LinkProgram(vs, fs)
//	_ = b.SetUniformMatrix3(prog, "u_matrix", m3.Projection(400, 300))
//	_ = b.Draw(prog, render.Rect(10, 10, 100, 50, color.RGBA{R: 255, A: 255}))
//	img := b.Image()
type Software struct {
	registry
	target    *PixmapTarget
	rast      *vector.Rasterizer
	log       *slog.Logger
	destroyed bool
	drawn     int
	culled    int
}

var _ Backend = (*Software)(nil)

// NewSoftware creates a software backend with a width x height drawable.
// Non-positive sizes are clamped to 1; call Resize to get an error instead.
func NewSoftware(width, height int, opts ...SoftwareOption) *Software {
	var o softwareOptions
	for _, opt := range opts {
		opt(&o)
	}
	width, height = max(width, 1), max(height, 1)
	if o.target == nil {
		o.target = NewPixmapTarget(width, height)
	} else if o.target.Width() != width || o.target.Height() != height {
		o.target.Resize(width, height)
	}
	if o.logger == nil {
		o.logger = affine.Logger()
	}
	return &Software{
		registry: newRegistry(),
		target:   o.target,
		rast:     vector.NewRasterizer(width, height),
		log:      o.logger,
	}
}

// CompileShader implements Backend.
func (s *Software) CompileShader(stage Stage, source string) (ShaderID, error) {
	if s.destroyed {
		return 0, ErrDestroyed
	}
	id, _, err := s.compile(stage, source)
	return id, err
}

// LinkProgram implements Backend.
func (s *Software) LinkProgram(vs, fs ShaderID) (ProgramID, error) {
	if s.destroyed {
		return 0, ErrDestroyed
	}
	id, p, err := s.link(vs, fs)
	if err != nil {
		return 0, err
	}
	s.log.Info("render: program linked", "backend", "software", "program", id,
		"dim", p.dim, "transform", p.transform.decl.Name)
	return id, nil
}

// Resize implements Backend. The drawable contents are discarded.
func (s *Software) Resize(width, height int) error {
	if err := checkSize(width, height); err != nil {
		return err
	}
	if width == s.target.Width() && height == s.target.Height() {
		return nil
	}
	s.target.Resize(width, height)
	s.rast.Reset(width, height)
	s.log.Debug("render: resize", "backend", "software", "width", width, "height", height)
	return nil
}

// Size implements Backend.
func (s *Software) Size() (int, int) {
	return s.target.Width(), s.target.Height()
}

// Clear implements Backend.
func (s *Software) Clear(c color.Color) {
	s.target.Clear(c)
}

// SetUniformMatrix3 implements Backend.
func (s *Software) SetUniformMatrix3(id ProgramID, name string, m m3.Matrix3) error {
	p, err := s.program(id)
	if err != nil {
		return err
	}
	return p.setMatrix3(name, m)
}

// SetUniformMatrix4 implements Backend.
func (s *Software) SetUniformMatrix4(id ProgramID, name string, m m4.Matrix4) error {
	p, err := s.program(id)
	if err != nil {
		return err
	}
	return p.setMatrix4(name, m)
}

// Draw implements Backend.
func (s *Software) Draw(id ProgramID, mesh *Mesh) error {
	if s.destroyed {
		return ErrDestroyed
	}
	p, err := s.program(id)
	if err != nil {
		return err
	}
	if err := p.ready(mesh); err != nil {
		return err
	}

	w, h := s.Size()
	dst := s.target.Image()

	// Consecutive triangles of one colour share a path so their common
	// edges are covered once.
	var (
		run     color.RGBA
		pending bool
	)
	flush := func() {
		if !pending {
			return
		}
		s.rast.DrawOp = draw.Over
		s.rast.Draw(dst, dst.Bounds(), image.NewUniform(run), image.Point{})
		pending = false
	}

	var clip [3]clipVertex
	for t := 0; t < mesh.TriangleCount(); t++ {
		visible := true
		for i := range clip {
			clip[i] = transformVertex(p.transform, mesh, t*3+i)
			if !clip[i].inDepth() {
				visible = false
			}
		}
		if !visible {
			continue
		}
		if mesh.Cull && !frontFacing(clip) {
			s.culled++
			continue
		}

		c := mesh.TriangleColor(t)
		if pending && c != run {
			flush()
		}
		if !pending {
			s.rast.Reset(w, h)
			run, pending = c, true
		}
		s.addTriangle(clip, w, h)
		s.drawn++
	}
	flush()
	return nil
}

// addTriangle appends one triangle to the current path, wound so that
// every triangle in a run adds coverage with the same sign.
func (s *Software) addTriangle(clip [3]clipVertex, w, h int) {
	var px, py [3]float32
	for i, v := range clip {
		px[i], py[i] = v.toPixel(w, h)
	}
	if (px[1]-px[0])*(py[2]-py[0])-(px[2]-px[0])*(py[1]-py[0]) < 0 {
		px[1], px[2] = px[2], px[1]
		py[1], py[2] = py[2], py[1]
	}
	s.rast.MoveTo(px[0], py[0])
	s.rast.LineTo(px[1], py[1])
	s.rast.LineTo(px[2], py[2])
	s.rast.ClosePath()
}

// Flush implements Backend. Software draws land immediately, so Flush only
// reports per-frame counters.
func (s *Software) Flush() error {
	if s.destroyed {
		return ErrDestroyed
	}
	s.log.Debug("render: flush", "backend", "software", "triangles", s.drawn, "culled", s.culled)
	s.drawn, s.culled = 0, 0
	return nil
}

// Destroy implements Backend.
func (s *Software) Destroy() {
	if s.destroyed {
		return
	}
	s.reset()
	s.destroyed = true
}

// Image returns the drawable. It is replaced by Resize.
func (s *Software) Image() *image.RGBA {
	return s.target.Image()
}

// Target returns the drawable target.
func (s *Software) Target() *PixmapTarget {
	return s.target
}

// clipVertex is a vertex after the perspective divide.
type clipVertex struct {
	x, y, z float64
	ok      bool
}

func (v clipVertex) inDepth() bool {
	return v.ok && v.z >= -1 && v.z <= 1
}

// toPixel maps clip space to pixel coordinates, row 0 at the top.
func (v clipVertex) toPixel(width, height int) (float32, float32) {
	px := (v.x + 1) * 0.5 * float64(width)
	py := (1 - v.y) * 0.5 * float64(height)
	return float32(px), float32(py)
}

const minW = 1e-9

func transformVertex(u *uniformValue, mesh *Mesh, i int) clipVertex {
	x, y, z := mesh.Vertex(i)
	if u.decl.Type == UniformMat3 {
		m := u.m3
		w := x*m[2] + y*m[5] + m[8]
		if w <= minW {
			return clipVertex{}
		}
		p := m3.TransformPoint(m, m3.V2(x, y))
		return finiteVertex(p[0], p[1], 0)
	}
	v := m4.TransformVector(u.m4, m4.Vec4{x, y, z, 1})
	if v[3] <= minW {
		return clipVertex{}
	}
	return finiteVertex(v[0]/v[3], v[1]/v[3], v[2]/v[3])
}

// finiteVertex drops vertices a non-finite matrix produced.
func finiteVertex(x, y, z float64) clipVertex {
	for _, c := range [...]float64{x, y, z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return clipVertex{}
		}
	}
	return clipVertex{x: x, y: y, z: z, ok: true}
}

// frontFacing reports counter-clockwise winding in clip space.
func frontFacing(v [3]clipVertex) bool {
	area := (v[1].x-v[0].x)*(v[2].y-v[0].y) - (v[2].x-v[0].x)*(v[1].y-v[0].y)
	return area > 0
}
