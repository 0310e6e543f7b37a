// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

// shaderRecord is a compiled shader as the registry sees it.
type shaderRecord struct {
	stage  Stage
	source string
	info   ShaderInfo
}

// uniformValue is the last uploaded value of one uniform.
type uniformValue struct {
	decl Uniform
	set  bool
	m3   m3.Matrix3
	m4   m4.Matrix4
}

func (v *uniformValue) bytes() []byte {
	if v.decl.Type == UniformMat3 {
		return PackMatrix3(v.m3)
	}
	return PackMatrix4(v.m4)
}

// program is a linked program: its merged uniforms, the transform uniform
// applied to vertices, and the mesh dimension it accepts.
type program struct {
	vs, fs      ShaderID
	uniforms    []*uniformValue
	unsupported []Uniform
	transform   *uniformValue
	dim         int
}

func (p *program) lookup(name string) (*uniformValue, error) {
	for _, u := range p.uniforms {
		if u.decl.Name == name {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
}

func (p *program) setMatrix3(name string, m m3.Matrix3) error {
	u, err := p.lookup(name)
	if err != nil {
		return err
	}
	if u.decl.Type != UniformMat3 {
		return fmt.Errorf("%w: %q is %s, got mat3x3", ErrUniformType, name, u.decl.Type)
	}
	u.m3, u.set = m, true
	return nil
}

func (p *program) setMatrix4(name string, m m4.Matrix4) error {
	u, err := p.lookup(name)
	if err != nil {
		return err
	}
	if u.decl.Type != UniformMat4 {
		return fmt.Errorf("%w: %q is %s, got mat4x4", ErrUniformType, name, u.decl.Type)
	}
	u.m4, u.set = m, true
	return nil
}

// ready checks that every uniform has a value and mesh fits the program.
func (p *program) ready(mesh *Mesh) error {
	for _, u := range p.uniforms {
		if !u.set {
			return fmt.Errorf("%w: %q", ErrUniformNotSet, u.decl.Name)
		}
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	if mesh.Dim != p.dim {
		return fmt.Errorf("%w: %dD mesh for %dD program", ErrInvalidMesh, mesh.Dim, p.dim)
	}
	return nil
}

// registry hands out shader and program ids and owns their bookkeeping.
// Both backends embed one.
type registry struct {
	nextShader  ShaderID
	nextProgram ProgramID
	shaders     map[ShaderID]*shaderRecord
	programs    map[ProgramID]*program
}

func newRegistry() registry {
	return registry{
		shaders:  make(map[ShaderID]*shaderRecord),
		programs: make(map[ProgramID]*program),
	}
}

func (r *registry) compile(stage Stage, source string) (ShaderID, *shaderRecord, error) {
	info, err := Reflect(source)
	if err != nil {
		return 0, nil, err
	}
	switch stage {
	case StageVertex:
		if !info.Vertex {
			return 0, nil, fmt.Errorf("%w: no @vertex entry point", ErrStageMismatch)
		}
	case StageFragment:
		if !info.Fragment {
			return 0, nil, fmt.Errorf("%w: no @fragment entry point", ErrStageMismatch)
		}
	default:
		return 0, nil, fmt.Errorf("%w: stage %d", ErrStageMismatch, stage)
	}
	r.nextShader++
	rec := &shaderRecord{stage: stage, source: source, info: info}
	r.shaders[r.nextShader] = rec
	return r.nextShader, rec, nil
}

func (r *registry) shader(id ShaderID, want Stage) (*shaderRecord, error) {
	rec, ok := r.shaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShader, id)
	}
	if rec.stage != want {
		return nil, fmt.Errorf("%w: shader %d is %s, want %s", ErrStageMismatch, id, rec.stage, want)
	}
	return rec, nil
}

func (r *registry) link(vs, fs ShaderID) (ProgramID, *program, error) {
	vrec, err := r.shader(vs, StageVertex)
	if err != nil {
		return 0, nil, err
	}
	frec, err := r.shader(fs, StageFragment)
	if err != nil {
		return 0, nil, err
	}

	p := &program{vs: vs, fs: fs}
	switch vrec.info.VertexDim {
	case 2:
		p.dim = 2
	case 3, 4:
		p.dim = 3
	default:
		return 0, nil, fmt.Errorf("%w: vertex entry has no vec2/vec3/vec4 @location(0) input", ErrStageMismatch)
	}

	add := func(u Uniform) error {
		if existing, err := p.lookup(u.Name); err == nil {
			if existing.decl.Type != u.Type {
				return fmt.Errorf("%w: %q declared as %s and %s", ErrUniformType, u.Name, existing.decl.Type, u.Type)
			}
			return nil
		}
		p.uniforms = append(p.uniforms, &uniformValue{decl: u})
		return nil
	}
	for _, u := range vrec.info.Uniforms {
		if err := add(u); err != nil {
			return 0, nil, err
		}
	}
	for _, u := range frec.info.Uniforms {
		if err := add(u); err != nil {
			return 0, nil, err
		}
	}
	p.unsupported = append(append(p.unsupported, vrec.info.Unsupported...), frec.info.Unsupported...)

	want := UniformMat3
	if p.dim == 3 {
		want = UniformMat4
	}
	for _, u := range vrec.info.Uniforms {
		if u.Type == want {
			p.transform, _ = p.lookup(u.Name)
			break
		}
	}
	if p.transform == nil {
		return 0, nil, fmt.Errorf("%w: %dD vertex stage needs a %s uniform", ErrNoUniform, p.dim, want)
	}

	r.nextProgram++
	r.programs[r.nextProgram] = p
	return r.nextProgram, p, nil
}

func (r *registry) program(id ProgramID) (*program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProgram, id)
	}
	return p, nil
}

func (r *registry) reset() {
	clear(r.shaders)
	clear(r.programs)
}
