package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/render"
)

// Session owns the offscreen attachments and command encoding shared by the
// render pipelines. Both the flat quad pipeline and the line pipeline record
// into the same MSAA render pass, so quads drawn first sit behind the
// antialiased lines without a second resolve.
//
// A Session is not safe for concurrent use.
type Session struct {
	device hal.Device
	queue  hal.Queue

	flatPipe *FlatRenderPipeline
	linePipe *LineRenderPipeline

	// Offscreen attachments, recreated when target size changes.
	width, height uint32
	msaaTex       hal.Texture
	msaaView      hal.TextureView
	resolveTex    hal.Texture
	resolveView   hal.TextureView
}

// NewSession creates a render session on the given device and queue.
// Attachments and pipelines are created lazily on first Render.
func NewSession(device hal.Device, queue hal.Queue) *Session {
	return &Session{
		device:   device,
		queue:    queue,
		flatPipe: NewFlatRenderPipeline(device, queue),
		linePipe: NewLineRenderPipeline(device, queue),
	}
}

// Destroy releases all GPU resources held by the session and its pipelines.
// Safe to call multiple times.
func (s *Session) Destroy() {
	if s.device == nil {
		return
	}
	s.destroyTextures()
	if s.linePipe != nil {
		s.linePipe.Destroy()
	}
	if s.flatPipe != nil {
		s.flatPipe.Destroy()
	}
}

// Render draws quads and line records into the target. Quads are recorded
// first so lines composite over them. The resolved frame is read back and
// composited over the target's existing pixels.
//
// Records with coincident projected endpoints must be filtered out before
// Render; see lines.Batch.DropDegenerate.
func (s *Session) Render(target render.RenderTarget, quads []QuadInstance, records []lines.LineRecord, st *lines.SceneTransform) error {
	if len(quads) == 0 && len(records) == 0 {
		return nil
	}
	if target.Format() != renderFormat {
		return fmt.Errorf("unsupported target format %v", target.Format())
	}
	w := uint32(target.Width())
	h := uint32(target.Height())
	if w == 0 || h == 0 {
		return fmt.Errorf("empty render target %dx%d", w, h)
	}

	start := time.Now()

	if err := s.ensureTextures(w, h); err != nil {
		return fmt.Errorf("ensure textures: %w", err)
	}

	var flatFrame *FlatFrameResources
	if len(quads) > 0 {
		frame, err := s.flatPipe.PrepareFrame(quads, st)
		if err != nil {
			return fmt.Errorf("prepare quad frame: %w", err)
		}
		flatFrame = frame
		defer flatFrame.Release()
	}

	var lineFrame *FrameResources
	if len(records) > 0 {
		frame, err := s.linePipe.PrepareFrame(records, st)
		if err != nil {
			return fmt.Errorf("prepare line frame: %w", err)
		}
		lineFrame = frame
		defer lineFrame.Release()
	}

	if err := s.encodeAndReadback(w, h, flatFrame, lineFrame, target); err != nil {
		return err
	}

	lines.Logger().Debug("gpu render",
		"quads", len(quads),
		"lines", len(records),
		"size", fmt.Sprintf("%dx%d", w, h),
		"elapsed", time.Since(start))
	return nil
}

// ensureTextures creates or recreates the MSAA and resolve textures if the
// requested dimensions differ from the current size.
func (s *Session) ensureTextures(w, h uint32) error {
	if s.width == w && s.height == h && s.msaaTex != nil {
		return nil
	}
	s.destroyTextures()

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	msaaTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "line_render_msaa",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        renderFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create MSAA texture: %w", err)
	}
	s.msaaTex = msaaTex

	msaaView, err := s.device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label:         "line_render_msaa_view",
		Format:        renderFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.destroyTextures()
		return fmt.Errorf("create MSAA view: %w", err)
	}
	s.msaaView = msaaView

	resolveTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "line_render_resolve",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        renderFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		s.destroyTextures()
		return fmt.Errorf("create resolve texture: %w", err)
	}
	s.resolveTex = resolveTex

	resolveView, err := s.device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
		Label:         "line_render_resolve_view",
		Format:        renderFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.destroyTextures()
		return fmt.Errorf("create resolve view: %w", err)
	}
	s.resolveView = resolveView

	s.width = w
	s.height = h
	return nil
}

// destroyTextures releases all texture resources and resets dimensions.
func (s *Session) destroyTextures() {
	if s.resolveView != nil {
		s.device.DestroyTextureView(s.resolveView)
		s.resolveView = nil
	}
	if s.resolveTex != nil {
		s.device.DestroyTexture(s.resolveTex)
		s.resolveTex = nil
	}
	if s.msaaView != nil {
		s.device.DestroyTextureView(s.msaaView)
		s.msaaView = nil
	}
	if s.msaaTex != nil {
		s.device.DestroyTexture(s.msaaTex)
		s.msaaTex = nil
	}
	s.width = 0
	s.height = 0
}

// encodeAndReadback encodes the shared render pass, copies the resolve
// texture to a staging buffer, submits, waits, and composites the result
// over the target pixels.
func (s *Session) encodeAndReadback(
	w, h uint32, flatFrame *FlatFrameResources, lineFrame *FrameResources,
	target render.RenderTarget,
) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "line_render_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("line_render"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rpDesc := &hal.RenderPassDescriptor{
		Label: "line_render_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:          s.msaaView,
				ResolveTarget: s.resolveView,
				LoadOp:        gputypes.LoadOpClear,
				StoreOp:       gputypes.StoreOpStore,
				ClearValue:    gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	}
	rp := encoder.BeginRenderPass(rpDesc)
	if flatFrame != nil {
		s.flatPipe.RecordDraws(rp, flatFrame)
	}
	if lineFrame != nil {
		s.linePipe.RecordDraws(rp, lineFrame)
	}
	rp.End()

	// VK-LAYOUT-001: After MSAA resolve the texture is in
	// COLOR_ATTACHMENT_OPTIMAL layout. CopyTextureToBuffer requires
	// TRANSFER_SRC_OPTIMAL. Insert an explicit barrier to transition.
	// This is a no-op on Metal, GLES, software, and noop backends.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "line_render_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(s.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := s.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, pixelBufSize)
	if err := s.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}

	compositePremulOver(readback, target.Pixels(), int(w)*int(h))
	return nil
}

// compositePremulOver composites premultiplied-alpha RGBA source pixels over
// a straight-alpha RGBA destination. The render pass blends with
// (SRC_ALPHA, ONE_MINUS_SRC_ALPHA) onto a transparent clear, so resolved
// pixels carry premultiplied color.
func compositePremulOver(src, dst []byte, n int) {
	for i := 0; i < n; i++ {
		o := i * 4
		sa := uint32(src[o+3])
		if sa == 0 {
			continue
		}
		if sa == 255 {
			dst[o+0] = src[o+0]
			dst[o+1] = src[o+1]
			dst[o+2] = src[o+2]
			dst[o+3] = 255
			continue
		}
		inv := 255 - sa
		dst[o+0] = uint8(uint32(src[o+0]) + (uint32(dst[o+0])*inv+127)/255)
		dst[o+1] = uint8(uint32(src[o+1]) + (uint32(dst[o+1])*inv+127)/255)
		dst[o+2] = uint8(uint32(src[o+2]) + (uint32(dst[o+2])*inv+127)/255)
		da := sa + (uint32(dst[o+3])*inv+127)/255
		if da > 255 {
			da = 255
		}
		dst[o+3] = uint8(da)
	}
}
