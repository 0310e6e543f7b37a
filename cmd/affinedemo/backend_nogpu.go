//go:build nogpu

package main

import (
	"errors"
	"image"

	"github.com/gogpu/affine/render"
)

func newNoopBackend(int, int) (render.Backend, func() *image.RGBA, error) {
	return nil, nil, errors.New("built with nogpu")
}
