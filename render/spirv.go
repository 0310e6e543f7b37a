// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileSPIRV compiles WGSL source to SPIR-V words with naga.
func CompileSPIRV(source string) ([]uint32, error) {
	raw, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("render: compile wgsl: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("render: spir-v length %d is not a multiple of 4", len(raw))
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[i*4]) |
			uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 |
			uint32(raw[i*4+3])<<24
	}
	if len(words) == 0 || words[0] != spirvMagic {
		return nil, fmt.Errorf("render: naga output is not SPIR-V")
	}
	return words, nil
}
