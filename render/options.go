// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "log/slog"

// SoftwareOption configures a Software backend.
//
// Example:
//
//	b := render.NewSoftware(800, 600, render.WithTarget(target))
type SoftwareOption func(*softwareOptions)

type softwareOptions struct {
	target *PixmapTarget
	logger *slog.Logger
}

// WithTarget renders into an existing target instead of allocating one.
// Resize still replaces the target's image.
func WithTarget(t *PixmapTarget) SoftwareOption {
	return func(o *softwareOptions) {
		o.target = t
	}
}

// WithLogger overrides the module logger for one software backend.
func WithLogger(l *slog.Logger) SoftwareOption {
	return func(o *softwareOptions) {
		o.logger = l
	}
}
