// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// NewNoopGPU creates a GPU backend on the HAL noop device. Every GPU call
// succeeds without touching hardware, which exercises the full pipeline
// setup and frame encoding in headless environments. The read-back image
// holds no rendered pixels.
func NewNoopGPU(width, height int, opts ...GPUOption) (*GPU, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("render: noop instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("render: noop instance has no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("render: open noop device: %w", err)
	}
	g, err := NewGPU(openDev.Device, openDev.Queue, width, height, opts...)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	g.release = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return g, nil
}
