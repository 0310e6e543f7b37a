// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package render

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/affine"
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

const (
	gpuFormat          = gputypes.TextureFormatBGRA8Unorm
	copyPitchAlignment = 256
	submitTimeout      = 5 * time.Second
	pollInterval       = 200 * time.Microsecond
)

// GPU is a Backend on a gogpu/wgpu HAL device.
//
// CompileShader creates one shader module per call, LinkProgram builds the
// uniform bind group layout and two render pipelines (with and without
// back-face culling), and Draw uploads a vertex buffer plus one uniform
// buffer per declared uniform. Draws are recorded until Flush, which
// encodes a single render pass into an offscreen BGRA texture and, unless
// disabled, reads the frame back into a PixmapTarget.
type GPU struct {
	registry
	device  hal.Device
	queue   hal.Queue
	release func()
	log     *slog.Logger
	opts    gpuOptions

	width, height uint32
	texture       hal.Texture
	view          hal.TextureView
	target        *PixmapTarget

	modules   map[ShaderID]hal.ShaderModule
	pipelines map[ProgramID]*gpuPipeline
	pending   []*gpuDraw

	clearColor gputypes.Color
	clearNext  bool
	destroyed  bool
}

var _ Backend = (*GPU)(nil)

type gpuPipeline struct {
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	culled        hal.RenderPipeline
}

type gpuDraw struct {
	pipeline    hal.RenderPipeline
	vertBuf     hal.Buffer
	uniformBufs []hal.Buffer
	bindGroup   hal.BindGroup
	vertCount   uint32
}

// NewGPU creates a GPU backend on an existing device and queue.
func NewGPU(device hal.Device, queue hal.Queue, width, height int, opts ...GPUOption) (*GPU, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("render: nil device or queue")
	}
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	o := defaultGPUOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = affine.Logger()
	}
	g := &GPU{
		registry:  newRegistry(),
		device:    device,
		queue:     queue,
		log:       o.logger,
		opts:      o,
		target:    NewPixmapTarget(width, height),
		modules:   make(map[ShaderID]hal.ShaderModule),
		pipelines: make(map[ProgramID]*gpuPipeline),
	}
	if err := g.ensureTexture(uint32(width), uint32(height)); err != nil { //nolint:gosec // checked positive
		return nil, err
	}
	return g, nil
}

// NewGPUFromProvider creates a GPU backend on the host's device. The
// provider must expose HalDevice() and HalQueue() returning hal.Device and
// hal.Queue.
func NewGPUFromProvider(provider DeviceHandle, width, height int, opts ...GPUOption) (*GPU, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewGPU(device, queue, width, height, opts...)
}

// CompileShader implements Backend.
func (g *GPU) CompileShader(stage Stage, source string) (ShaderID, error) {
	if g.destroyed {
		return 0, ErrDestroyed
	}
	id, _, err := g.compile(stage, source)
	if err != nil {
		return 0, err
	}

	label := fmt.Sprintf("affine_%s_shader_%d", stage, id)
	desc := &hal.ShaderModuleDescriptor{Label: label, Source: hal.ShaderSource{WGSL: source}}
	if g.opts.spirv {
		words, err := CompileSPIRV(source)
		if err != nil {
			delete(g.shaders, id)
			return 0, err
		}
		desc.Source = hal.ShaderSource{SPIRV: words}
	}
	module, err := g.device.CreateShaderModule(desc)
	if err != nil {
		delete(g.shaders, id)
		return 0, fmt.Errorf("render: create %s: %w", label, err)
	}
	g.modules[id] = module
	return id, nil
}

// LinkProgram implements Backend.
func (g *GPU) LinkProgram(vs, fs ShaderID) (ProgramID, error) {
	if g.destroyed {
		return 0, ErrDestroyed
	}
	id, p, err := g.link(vs, fs)
	if err != nil {
		return 0, err
	}
	if len(p.unsupported) > 0 {
		delete(g.programs, id)
		u := p.unsupported[0]
		return 0, fmt.Errorf("%w: %q at group %d binding %d is not a mat3x3 or mat4x4",
			ErrUniformType, u.Name, u.Group, u.Binding)
	}
	for _, u := range p.uniforms {
		if u.decl.Group != 0 {
			delete(g.programs, id)
			return 0, fmt.Errorf("%w: %q is in group %d, only group 0 is bound",
				ErrUniformType, u.decl.Name, u.decl.Group)
		}
	}
	pl, err := g.createPipelines(id, p)
	if err != nil {
		delete(g.programs, id)
		return 0, err
	}
	g.pipelines[id] = pl
	g.log.Info("render: program linked", "backend", "gpu", "program", id,
		"dim", p.dim, "uniforms", len(p.uniforms), "spirv", g.opts.spirv)
	return id, nil
}

func vertexLayout(dim int) []gputypes.VertexBufferLayout {
	posFormat := gputypes.VertexFormatFloat32x2
	posSize := uint64(8)
	if dim == 3 {
		posFormat = gputypes.VertexFormatFloat32x4
		posSize = 16
	}
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: posSize + 16,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: posFormat, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x4, Offset: posSize, ShaderLocation: 1},
			},
		},
	}
}

func (g *GPU) createPipelines(id ProgramID, p *program) (*gpuPipeline, error) {
	vrec := g.shaders[p.vs]
	frec := g.shaders[p.fs]
	pl := &gpuPipeline{}

	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    uint32(u.decl.Binding), //nolint:gosec // parsed from a small literal
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	uniformLayout, err := g.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   fmt.Sprintf("affine_uniform_layout_%d", id),
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create uniform layout: %w", err)
	}
	pl.uniformLayout = uniformLayout

	pipeLayout, err := g.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            fmt.Sprintf("affine_pipe_layout_%d", id),
		BindGroupLayouts: []hal.BindGroupLayout{uniformLayout},
	})
	if err != nil {
		g.destroyPipeline(pl)
		return nil, fmt.Errorf("render: create pipeline layout: %w", err)
	}
	pl.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	build := func(label string, cull gputypes.CullMode) (hal.RenderPipeline, error) {
		return g.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  label,
			Layout: pipeLayout,
			Vertex: hal.VertexState{
				Module:     g.modules[p.vs],
				EntryPoint: vrec.info.VertexEntry,
				Buffers:    vertexLayout(p.dim),
			},
			Fragment: &hal.FragmentState{
				Module:     g.modules[p.fs],
				EntryPoint: frec.info.FragmentEntry,
				Targets: []gputypes.ColorTargetState{
					{
						Format:    gpuFormat,
						Blend:     &premulBlend,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			Primitive: gputypes.PrimitiveState{
				Topology:  gputypes.PrimitiveTopologyTriangleList,
				FrontFace: gputypes.FrontFaceCCW,
				CullMode:  cull,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
		})
	}
	if pl.pipeline, err = build(fmt.Sprintf("affine_pipeline_%d", id), gputypes.CullModeNone); err != nil {
		g.destroyPipeline(pl)
		return nil, fmt.Errorf("render: create pipeline: %w", err)
	}
	if pl.culled, err = build(fmt.Sprintf("affine_pipeline_culled_%d", id), gputypes.CullModeBack); err != nil {
		g.destroyPipeline(pl)
		return nil, fmt.Errorf("render: create culled pipeline: %w", err)
	}
	return pl, nil
}

// Resize implements Backend.
func (g *GPU) Resize(width, height int) error {
	if g.destroyed {
		return ErrDestroyed
	}
	if err := checkSize(width, height); err != nil {
		return err
	}
	if uint32(width) == g.width && uint32(height) == g.height { //nolint:gosec // checked positive
		return nil
	}
	g.target.Resize(width, height)
	g.log.Debug("render: resize", "backend", "gpu", "width", width, "height", height)
	return g.ensureTexture(uint32(width), uint32(height)) //nolint:gosec // checked positive
}

func (g *GPU) ensureTexture(w, h uint32) error {
	g.destroyTexture()
	tex, err := g.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "affine_frame",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gpuFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("render: create frame texture: %w", err)
	}
	view, err := g.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "affine_frame_view",
	})
	if err != nil {
		g.device.DestroyTexture(tex)
		return fmt.Errorf("render: create frame view: %w", err)
	}
	g.texture, g.view = tex, view
	g.width, g.height = w, h
	return nil
}

func (g *GPU) destroyTexture() {
	if g.view != nil {
		g.device.DestroyTextureView(g.view)
		g.view = nil
	}
	if g.texture != nil {
		g.device.DestroyTexture(g.texture)
		g.texture = nil
	}
}

// Size implements Backend.
func (g *GPU) Size() (int, int) {
	return int(g.width), int(g.height)
}

// Clear implements Backend. The clear happens as the load operation of the
// next Flush.
func (g *GPU) Clear(c color.Color) {
	r, gr, b, a := c.RGBA()
	g.clearColor = gputypes.Color{
		R: float64(r) / 0xffff,
		G: float64(gr) / 0xffff,
		B: float64(b) / 0xffff,
		A: float64(a) / 0xffff,
	}
	g.clearNext = true
}

// SetUniformMatrix3 implements Backend.
func (g *GPU) SetUniformMatrix3(id ProgramID, name string, m m3.Matrix3) error {
	p, err := g.program(id)
	if err != nil {
		return err
	}
	return p.setMatrix3(name, m)
}

// SetUniformMatrix4 implements Backend.
func (g *GPU) SetUniformMatrix4(id ProgramID, name string, m m4.Matrix4) error {
	p, err := g.program(id)
	if err != nil {
		return err
	}
	return p.setMatrix4(name, m)
}

// Draw implements Backend. Uniform values are captured at call time, so a
// program can be drawn several times per frame with different matrices.
func (g *GPU) Draw(id ProgramID, mesh *Mesh) error {
	if g.destroyed {
		return ErrDestroyed
	}
	p, err := g.program(id)
	if err != nil {
		return err
	}
	if err := p.ready(mesh); err != nil {
		return err
	}
	pl := g.pipelines[id]
	if mesh.VertexCount() == 0 {
		return nil
	}

	d := &gpuDraw{
		pipeline:  pl.pipeline,
		vertCount: uint32(mesh.VertexCount()), //nolint:gosec // mesh sizes fit uint32
	}
	if mesh.Cull {
		d.pipeline = pl.culled
	}

	d.vertBuf, err = g.createAndUploadBuffer("affine_vertices", buildVertices(mesh),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	entries := make([]gputypes.BindGroupEntry, 0, len(p.uniforms))
	for _, u := range p.uniforms {
		data := u.bytes()
		buf, err := g.createAndUploadBuffer("affine_uniform_"+u.decl.Name, data,
			gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		if err != nil {
			g.releaseDraw(d)
			return err
		}
		d.uniformBufs = append(d.uniformBufs, buf)
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: uint32(u.decl.Binding), //nolint:gosec // parsed from a small literal
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: uint64(len(data)),
			},
		})
	}
	d.bindGroup, err = g.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "affine_bind",
		Layout:  pl.uniformLayout,
		Entries: entries,
	})
	if err != nil {
		g.releaseDraw(d)
		return fmt.Errorf("render: create bind group: %w", err)
	}
	g.pending = append(g.pending, d)
	return nil
}

func (g *GPU) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := g.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("render: create %s: %w", label, err)
	}
	g.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// buildVertices interleaves position and colour as float32. 3D positions
// carry w = 1.
func buildVertices(mesh *Mesh) []byte {
	posFloats := 2
	if mesh.Dim == 3 {
		posFloats = 4
	}
	stride := (posFloats + 4) * 4
	out := make([]byte, 0, mesh.VertexCount()*stride)
	put := func(v float64) {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(v)))
	}
	for i := 0; i < mesh.TriangleCount()*3; i++ {
		x, y, z := mesh.Vertex(i)
		put(x)
		put(y)
		if mesh.Dim == 3 {
			put(z)
			put(1)
		}
		c := mesh.TriangleColor(i / 3)
		put(float64(c.R) / 255)
		put(float64(c.G) / 255)
		put(float64(c.B) / 255)
		put(float64(c.A) / 255)
	}
	return out
}

// Flush implements Backend. It encodes every recorded draw into one render
// pass, submits, waits for completion and reads the frame back.
func (g *GPU) Flush() error {
	if g.destroyed {
		return ErrDestroyed
	}
	defer g.releasePending()

	encoder, err := g.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "affine_encoder",
	})
	if err != nil {
		return fmt.Errorf("render: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("affine_frame"); err != nil {
		return fmt.Errorf("render: begin encoding: %w", err)
	}

	loadOp := gputypes.LoadOpLoad
	if g.clearNext {
		loadOp = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "affine_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       g.view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: g.clearColor,
		}},
	})
	for _, d := range g.pending {
		rp.SetPipeline(d.pipeline)
		rp.SetBindGroup(0, d.bindGroup, nil)
		rp.SetVertexBuffer(0, d.vertBuf, 0)
		rp.Draw(d.vertCount, 1, 0, 0)
	}
	rp.End()
	g.clearNext = false

	var staging hal.Buffer
	var alignedBytesPerRow uint32
	if g.opts.readback {
		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: g.texture,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageRenderAttachment,
				NewUsage: gputypes.TextureUsageCopySrc,
			},
		}})

		alignedBytesPerRow = (g.width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
		staging, err = g.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "affine_staging",
			Size:  uint64(alignedBytesPerRow) * uint64(g.height),
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			encoder.DiscardEncoding()
			return fmt.Errorf("render: create staging buffer: %w", err)
		}
		defer g.device.DestroyBuffer(staging)

		encoder.CopyTextureToBuffer(g.texture, staging, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: g.height},
			TextureBase:  hal.ImageCopyTexture{Texture: g.texture, MipLevel: 0},
			Size:         hal.Extent3D{Width: g.width, Height: g.height, DepthOrArrayLayers: 1},
		}})

		encoder.TransitionTextures([]hal.TextureBarrier{{
			Texture: g.texture,
			Usage: hal.TextureUsageTransition{
				OldUsage: gputypes.TextureUsageCopySrc,
				NewUsage: gputypes.TextureUsageRenderAttachment,
			},
		}})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	defer g.device.FreeCommandBuffer(cmdBuf)

	idx, err := g.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	if err := g.waitSubmission(idx); err != nil {
		return err
	}
	g.log.Debug("render: flush", "backend", "gpu", "draws", len(g.pending))

	if !g.opts.readback {
		return nil
	}
	size := uint64(alignedBytesPerRow) * uint64(g.height)
	mapping, err := g.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("render: map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), size)
	copyBGRA(g.target.Image().Pix, readback, int(g.width), int(g.height), int(alignedBytesPerRow))
	if err := g.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("render: unmap staging buffer: %w", err)
	}
	return nil
}

// waitSubmission polls the queue until submission idx completes or the
// timeout passes.
func (g *GPU) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(g.opts.timeout)
	for g.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %d after %s", ErrGPUTimeout, idx, g.opts.timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// copyBGRA strips row padding from src and swaps it to RGBA in dst.
func copyBGRA(dst, src []byte, width, height, srcStride int) {
	for y := 0; y < height; y++ {
		s := src[y*srcStride : y*srcStride+width*4]
		d := dst[y*width*4 : (y+1)*width*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}

func (g *GPU) releaseDraw(d *gpuDraw) {
	if d.bindGroup != nil {
		g.device.DestroyBindGroup(d.bindGroup)
	}
	for _, b := range d.uniformBufs {
		g.device.DestroyBuffer(b)
	}
	if d.vertBuf != nil {
		g.device.DestroyBuffer(d.vertBuf)
	}
}

func (g *GPU) releasePending() {
	for _, d := range g.pending {
		g.releaseDraw(d)
	}
	g.pending = g.pending[:0]
}

func (g *GPU) destroyPipeline(pl *gpuPipeline) {
	if pl.culled != nil {
		g.device.DestroyRenderPipeline(pl.culled)
	}
	if pl.pipeline != nil {
		g.device.DestroyRenderPipeline(pl.pipeline)
	}
	if pl.pipeLayout != nil {
		g.device.DestroyPipelineLayout(pl.pipeLayout)
	}
	if pl.uniformLayout != nil {
		g.device.DestroyBindGroupLayout(pl.uniformLayout)
	}
}

// Target returns the CPU copy of the last flushed frame.
func (g *GPU) Target() *PixmapTarget {
	return g.target
}

// Image returns the read-back image of the last flushed frame.
func (g *GPU) Image() *image.RGBA {
	return g.target.Image()
}

// Destroy implements Backend. Resources are released in reverse creation
// order. A device opened by NewNoopGPU is destroyed as well.
func (g *GPU) Destroy() {
	if g.destroyed {
		return
	}
	g.releasePending()
	for id, pl := range g.pipelines {
		g.destroyPipeline(pl)
		delete(g.pipelines, id)
	}
	for id, m := range g.modules {
		g.device.DestroyShaderModule(m)
		delete(g.modules, id)
	}
	g.destroyTexture()
	g.reset()
	g.destroyed = true
	if g.release != nil {
		g.release()
		g.release = nil
	}
}
