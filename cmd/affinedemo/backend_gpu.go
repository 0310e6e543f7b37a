//go:build !nogpu

package main

import (
	"image"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/render"
)

func newNoopBackend(w, h int) (render.Backend, func() *image.RGBA, error) {
	g, err := render.NewNoopGPU(w, h, render.WithGPULogger(affine.Logger()))
	if err != nil {
		return nil, nil, err
	}
	return g, g.Image, nil
}
