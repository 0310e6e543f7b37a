// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// UniformType is the WGSL type of a uniform.
type UniformType uint8

// Uniform types. Only the matrix types can be uploaded.
const (
	UniformMat3 UniformType = iota + 1
	UniformMat4

	// UniformOther is any uniform that is not a f32 3x3 or 4x4 matrix:
	// structs, vectors, arrays.
	UniformOther
)

func (t UniformType) String() string {
	switch t {
	case UniformMat3:
		return "mat3x3<f32>"
	case UniformMat4:
		return "mat4x4<f32>"
	case UniformOther:
		return "other"
	default:
		return "unknown"
	}
}

// Size returns the uniform buffer size in bytes under WGSL layout rules,
// or 0 for types the backends cannot upload.
func (t UniformType) Size() int {
	switch t {
	case UniformMat3:
		return mat3UniformSize
	case UniformMat4:
		return mat4UniformSize
	default:
		return 0
	}
}

// Uniform is one reflected var<uniform> declaration.
type Uniform struct {
	Name    string
	Type    UniformType
	Group   int
	Binding int
}

// ShaderInfo is what Reflect learns from a WGSL source.
type ShaderInfo struct {
	// Vertex and Fragment report which entry points the source defines.
	Vertex   bool
	Fragment bool

	// VertexEntry and FragmentEntry are the entry point names.
	VertexEntry   string
	FragmentEntry string

	// Uniforms lists the matrix uniforms in declaration order.
	Uniforms []Uniform

	// Unsupported lists the other uniforms in declaration order.
	Unsupported []Uniform

	// VertexDim is the component count of the vertex entry's @location(0)
	// input, or 0 when there is none.
	VertexDim int
}

// Lookup returns the matrix uniform with the given name.
func (si *ShaderInfo) Lookup(name string) (Uniform, bool) {
	for _, u := range si.Uniforms {
		if u.Name == name {
			return u, true
		}
	}
	return Uniform{}, false
}

// Reflect parses and lowers WGSL source with naga, then reads the entry
// points, the uniform globals and the vertex position input from the IR.
// The module is not validated; the GPU backend leaves that to the driver.
func Reflect(source string) (ShaderInfo, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return ShaderInfo{}, fmt.Errorf("%w: %w", ErrInvalidShader, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return ShaderInfo{}, fmt.Errorf("%w: %w", ErrInvalidShader, err)
	}

	var info ShaderInfo
	for _, gv := range module.GlobalVariables {
		if gv.Space != ir.SpaceUniform {
			continue
		}
		u := Uniform{Name: gv.Name, Type: uniformType(module, gv.Type)}
		if gv.Binding != nil {
			u.Group = int(gv.Binding.Group)
			u.Binding = int(gv.Binding.Binding)
		}
		if u.Type == UniformOther {
			info.Unsupported = append(info.Unsupported, u)
			continue
		}
		info.Uniforms = append(info.Uniforms, u)
	}

	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		switch ep.Stage {
		case ir.StageVertex:
			if info.Vertex {
				continue
			}
			info.Vertex = true
			info.VertexEntry = ep.Name
			info.VertexDim = vertexInputDim(module, ep.Function.Arguments)
		case ir.StageFragment:
			if !info.Fragment {
				info.Fragment = true
				info.FragmentEntry = ep.Name
			}
		}
	}
	return info, nil
}

func uniformType(m *ir.Module, h ir.TypeHandle) UniformType {
	if int(h) >= len(m.Types) {
		return UniformOther
	}
	mt, ok := m.Types[h].Inner.(ir.MatrixType)
	if !ok || mt.Scalar.Kind != ir.ScalarFloat || mt.Scalar.Width != 4 || mt.Columns != mt.Rows {
		return UniformOther
	}
	switch mt.Columns {
	case ir.Vec3:
		return UniformMat3
	case ir.Vec4:
		return UniformMat4
	default:
		return UniformOther
	}
}

// vertexInputDim finds @location(0) among the arguments, or among the
// members of a struct argument.
func vertexInputDim(m *ir.Module, args []ir.FunctionArgument) int {
	for _, arg := range args {
		if arg.Binding != nil {
			if isLocation0(*arg.Binding) {
				return vectorSize(m, arg.Type)
			}
			continue
		}
		if int(arg.Type) >= len(m.Types) {
			continue
		}
		st, ok := m.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, member := range st.Members {
			if member.Binding != nil && isLocation0(*member.Binding) {
				return vectorSize(m, member.Type)
			}
		}
	}
	return 0
}

func isLocation0(b ir.Binding) bool {
	switch lb := b.(type) {
	case ir.LocationBinding:
		return lb.Location == 0
	case *ir.LocationBinding:
		return lb.Location == 0
	default:
		return false
	}
}

func vectorSize(m *ir.Module, h ir.TypeHandle) int {
	if int(h) >= len(m.Types) {
		return 0
	}
	if vt, ok := m.Types[h].Inner.(ir.VectorType); ok {
		return int(vt.Size)
	}
	return 0
}
