package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines"
)

//go:embed shaders/flat_render.wgsl
var flatRenderShaderSource string

// QuadInstanceStride is the std430 byte stride of one quad instance:
// color vec4 (16) + model mat4 (64).
const QuadInstanceStride = 80

// QuadInstance is one solid-color quad (a platform or hit marker). The
// model matrix places a unit quad spanning [0,1]x[0,1] in the x-z plane.
type QuadInstance struct {
	Color lines.RGBA
	Model lines.Mat4
}

// EncodeQuadInstances encodes instances into their std430 storage buffer
// representation.
func EncodeQuadInstances(instances []QuadInstance) []byte {
	buf := make([]byte, len(instances)*QuadInstanceStride)
	off := 0
	for i := range instances {
		inst := &instances[i]
		off = putInstFloat32(buf, off, inst.Color.R)
		off = putInstFloat32(buf, off, inst.Color.G)
		off = putInstFloat32(buf, off, inst.Color.B)
		off = putInstFloat32(buf, off, inst.Color.A)
		for _, v := range inst.Model {
			off = putInstFloat32(buf, off, v)
		}
	}
	return buf
}

func putInstFloat32(buf []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	return off + 4
}

// FlatRenderPipeline draws instanced solid-color quads. It shares the scene
// uniform block layout with the line pipeline and, like it, needs no vertex
// or index buffers: the unit quad corners come from the vertex index, the
// placement from the instance index.
//
// The pipeline does not own an attachment; a Session (or a host-owned
// render pass with matching format and sample count) records its draws.
type FlatRenderPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewFlatRenderPipeline creates a flat quad pipeline on the given device
// and queue. GPU resources are created lazily on first use.
func NewFlatRenderPipeline(device hal.Device, queue hal.Queue) *FlatRenderPipeline {
	return &FlatRenderPipeline{
		device: device,
		queue:  queue,
	}
}

// Destroy releases all GPU resources held by the pipeline.
func (p *FlatRenderPipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// FlatFrameResources holds the per-frame GPU buffers and bind group for one
// set of quad instances.
type FlatFrameResources struct {
	pipeline      *FlatRenderPipeline
	sceneBuf      hal.Buffer
	instanceBuf   hal.Buffer
	bindGroup     hal.BindGroup
	InstanceCount uint32
}

// PrepareFrame uploads the scene uniform and instance array and creates the
// frame's bind group.
func (p *FlatRenderPipeline) PrepareFrame(instances []QuadInstance, st *lines.SceneTransform) (*FlatFrameResources, error) {
	if err := p.ensurePipeline(); err != nil {
		return nil, err
	}

	sceneData := lines.EncodeSceneUniform(st)
	sceneBuf, err := p.createAndUploadBuffer("flat_scene_uniform", sceneData,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create scene buffer: %w", err)
	}

	instData := EncodeQuadInstances(instances)
	instanceBuf, err := p.createAndUploadBuffer("flat_instances", instData,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		p.device.DestroyBuffer(sceneBuf)
		return nil, fmt.Errorf("create instance buffer: %w", err)
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "flat_render_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: sceneBuf.NativeHandle(), Offset: 0, Size: lines.SceneUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: instanceBuf.NativeHandle(), Offset: 0, Size: uint64(len(instData)),
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(instanceBuf)
		p.device.DestroyBuffer(sceneBuf)
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	return &FlatFrameResources{
		pipeline:      p,
		sceneBuf:      sceneBuf,
		instanceBuf:   instanceBuf,
		bindGroup:     bindGroup,
		InstanceCount: uint32(len(instances)),
	}, nil
}

// Release destroys the frame's GPU resources.
func (f *FlatFrameResources) Release() {
	dev := f.pipeline.device
	if f.bindGroup != nil {
		dev.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	if f.instanceBuf != nil {
		dev.DestroyBuffer(f.instanceBuf)
		f.instanceBuf = nil
	}
	if f.sceneBuf != nil {
		dev.DestroyBuffer(f.sceneBuf)
		f.sceneBuf = nil
	}
}

// RecordDraws records the instanced quad draw into a render pass.
func (p *FlatRenderPipeline) RecordDraws(rp hal.RenderPassEncoder, frame *FlatFrameResources) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, frame.bindGroup, nil)
	rp.Draw(6, frame.InstanceCount, 0, 0)
}

func (p *FlatRenderPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}

	if flatRenderShaderSource == "" {
		return fmt.Errorf("flat_render shader source is empty")
	}

	shader, err := createShaderModule(p.device, "flat_render_shader", flatRenderShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "flat_render_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "flat_render_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := alphaBlendState()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "flat_render_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    renderFormat,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *FlatRenderPipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	p.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
