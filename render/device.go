// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ErrNoHAL is returned when a device provider does not expose HAL device
// and queue objects.
var ErrNoHAL = errors.New("render: provider does not expose HAL device and queue")

// DeviceHandle provides GPU device access from the host application.
//
// The GPU backend receives its device from the host and never creates one
// for a windowed application. Hosts such as gogpu implement the interface
// and additionally expose the HAL objects through
//
//	HalDevice() any
//	HalQueue() any
//
// which NewGPUFromProvider requires.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no device. Passing it to
// NewGPUFromProvider fails with ErrNoHAL; hosts use it to force the
// software backend.
type NullDeviceHandle struct{}

func (NullDeviceHandle) Device() gpucontext.Device   { return nil }
func (NullDeviceHandle) Queue() gpucontext.Queue     { return nil }
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns TextureFormatUndefined.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}
