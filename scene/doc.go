// Package scene describes animated transform scenes and drives them on a
// render.Backend.
//
// A Scene supplies shader sources, a mesh and, for every Frame, the set of
// named transforms that the compose package folds into one matrix. The
// Runner owns the per-frame loop: resize, clear, compose, upload, draw and
// flush.
//
// Three scenes are built in: "triangle", a 2D triangle sliding along x at
// 150 px/s; "quad", a 2D rectangle; and "letter-f", a 3D letter F under an
// orthographic projection with back faces culled. More scenes can be
// loaded from YAML with LoadConfig.
//
//	reg := scene.Builtins()
//	s, _ := reg.Get("letter-f")
//	r := scene.NewRunner(render.NewSoftware(400, 300), s)
//	if err := r.Init(); err != nil { ... }
//	composed, err := r.Step(scene.Frame{Width: 400, Height: 300})
package scene
