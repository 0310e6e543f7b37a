// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	"log/slog"
	"time"
)

// GPUOption configures a GPU backend.
type GPUOption func(*gpuOptions)

type gpuOptions struct {
	spirv    bool
	readback bool
	timeout  time.Duration
	logger   *slog.Logger
}

func defaultGPUOptions() gpuOptions {
	return gpuOptions{readback: true, timeout: submitTimeout}
}

// WithSPIRV precompiles every shader to SPIR-V with naga instead of
// handing WGSL to the driver.
func WithSPIRV() GPUOption {
	return func(o *gpuOptions) {
		o.spirv = true
	}
}

// WithoutReadback skips the copy of each flushed frame into the CPU
// target. Hosts that present the texture themselves use it.
func WithoutReadback() GPUOption {
	return func(o *gpuOptions) {
		o.readback = false
	}
}

// WithSubmitTimeout bounds how long Flush waits for the GPU. Non-positive
// values leave the default.
func WithSubmitTimeout(d time.Duration) GPUOption {
	return func(o *gpuOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithGPULogger overrides the module logger for one GPU backend.
func WithGPULogger(l *slog.Logger) GPUOption {
	return func(o *gpuOptions) {
		o.logger = l
	}
}
