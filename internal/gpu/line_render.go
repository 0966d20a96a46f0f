package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines"
)

//go:embed shaders/line_render.wgsl
var lineRenderShaderSource string

// sampleCount is the MSAA sample count for the offscreen color attachment.
// Edge antialiasing is analytic; MSAA only cleans up the quad's outer
// boundary where the Gaussian tail is truncated.
const sampleCount = 4

// renderFormat is the color format of the offscreen attachment, matching
// render.PixmapTarget.
const renderFormat = gputypes.TextureFormatRGBA8Unorm

// LineRenderPipeline manages GPU resources for analytically antialiased
// line rendering. The vertex stage builds one padded quad per line record
// procedurally from the vertex index (no vertex or index buffers); the
// fragment stage applies Gaussian coverage to the alpha channel.
//
// Bindings follow the module's buffer layout contract: the std140 scene
// uniform at @binding(0), the std430 line record array at @binding(1). One
// batch is one non-indexed draw of 6 x lineCount vertices.
type LineRenderPipeline struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewLineRenderPipeline creates a line render pipeline on the given device
// and queue. GPU resources are created lazily on first use.
func NewLineRenderPipeline(device hal.Device, queue hal.Queue) *LineRenderPipeline {
	return &LineRenderPipeline{
		device: device,
		queue:  queue,
	}
}

// Destroy releases all GPU resources held by the pipeline. Safe to call
// multiple times or on a pipeline with no allocated resources.
func (p *LineRenderPipeline) Destroy() {
	p.destroyPipeline()
}

// FrameResources holds the per-frame GPU buffers and bind group for one
// line batch. Hosts that own the render pass build these with PrepareFrame,
// record with RecordDraws, and Release after the frame's fence signals.
type FrameResources struct {
	pipeline   *LineRenderPipeline
	sceneBuf   hal.Buffer
	recordsBuf hal.Buffer
	bindGroup  hal.BindGroup

	// VertexCount is the vertex count for the batch's draw call.
	VertexCount uint32
}

// PrepareFrame uploads the scene uniform and line records and creates the
// frame's bind group.
func (p *LineRenderPipeline) PrepareFrame(records []lines.LineRecord, st *lines.SceneTransform) (*FrameResources, error) {
	if err := p.ensurePipeline(); err != nil {
		return nil, err
	}

	sceneData := lines.EncodeSceneUniform(st)
	sceneBuf, err := p.createAndUploadBuffer("line_scene_uniform", sceneData,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create scene buffer: %w", err)
	}

	recordData := lines.EncodeLineRecords(records)
	recordsBuf, err := p.createAndUploadBuffer("line_records", recordData,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		p.device.DestroyBuffer(sceneBuf)
		return nil, fmt.Errorf("create record buffer: %w", err)
	}

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "line_render_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: sceneBuf.NativeHandle(), Offset: 0, Size: lines.SceneUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: recordsBuf.NativeHandle(), Offset: 0, Size: uint64(len(recordData)),
			}},
		},
	})
	if err != nil {
		p.device.DestroyBuffer(recordsBuf)
		p.device.DestroyBuffer(sceneBuf)
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	lines.Logger().Debug("line frame prepared",
		"records", len(records), "recordBytes", len(recordData))

	return &FrameResources{
		pipeline:    p,
		sceneBuf:    sceneBuf,
		recordsBuf:  recordsBuf,
		bindGroup:   bindGroup,
		VertexCount: uint32(len(records) * lines.VerticesPerLine),
	}, nil
}

// Release destroys the frame's GPU resources. Safe to call once per frame.
func (f *FrameResources) Release() {
	dev := f.pipeline.device
	if f.bindGroup != nil {
		dev.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	if f.recordsBuf != nil {
		dev.DestroyBuffer(f.recordsBuf)
		f.recordsBuf = nil
	}
	if f.sceneBuf != nil {
		dev.DestroyBuffer(f.sceneBuf)
		f.sceneBuf = nil
	}
}

// RecordDraws records the batch's draw into a render pass owned by the
// host. The pass's color attachment format and sample count must match the
// pipeline's.
func (p *LineRenderPipeline) RecordDraws(rp hal.RenderPassEncoder, frame *FrameResources) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, frame.bindGroup, nil)
	rp.Draw(frame.VertexCount, 1, 0, 0)
}

func (p *LineRenderPipeline) ensurePipeline() error {
	if p.pipeline != nil {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	return nil
}

// createPipeline compiles the line shader and creates the render pipeline
// with straight-alpha blending and MSAA.
func (p *LineRenderPipeline) createPipeline() error {
	if lineRenderShaderSource == "" {
		return fmt.Errorf("line_render shader source is empty")
	}

	shader, err := createShaderModule(p.device, "line_render_shader", lineRenderShaderSource)
	if err != nil {
		return err
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "line_render_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
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
		Label:            "line_render_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	blend := alphaBlendState()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "line_render_pipeline",
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

// destroyPipeline releases pipeline resources in reverse creation order.
func (p *LineRenderPipeline) destroyPipeline() {
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

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *LineRenderPipeline) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
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

// alphaBlendState returns the straight-alpha blend state
// (SRC_ALPHA, ONE_MINUS_SRC_ALPHA) both pipelines render with.
func alphaBlendState() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}
