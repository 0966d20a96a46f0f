// Package gpu provides the hardware line renderer. It expands each line
// record into a screen-facing quad in the vertex stage and applies analytic
// Gaussian edge coverage in the fragment stage, so lines keep a constant
// pixel width and smooth edges at any camera distance.
//
// A Renderer either owns its GPU device (NewRenderer) or shares the host
// application's device (NewRendererWithDevice). Rendering goes through a
// render.RenderTarget; for CPU-backed targets the resolved frame is read
// back and composited over the existing pixels.
package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/lines"
	igpu "github.com/gogpu/lines/internal/gpu"
	"github.com/gogpu/lines/render"
)

// QuadInstance is one solid-color quad drawn behind the lines, placed by
// its model matrix. See RenderScene.
type QuadInstance = igpu.QuadInstance

// Renderer renders line batches on the GPU.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	session  *igpu.Session

	externalDevice bool // true when using shared device (don't destroy on Destroy)
}

// NewRenderer creates a renderer that owns its GPU device. It selects the
// first discrete or integrated adapter, falling back to whatever the
// backend exposes.
func NewRenderer() (*Renderer, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	r := &Renderer{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		session:  igpu.NewSession(openDev.Device, openDev.Queue),
	}
	lines.Logger().Info("gpu renderer initialized", "adapter", selected.Info.Name)
	return r, nil
}

// NewRendererWithDevice creates a renderer on a shared GPU device from the
// host application. The handle must additionally expose HAL types through
// HalDevice() any and HalQueue() any, returning wgpu/hal Device and Queue.
// The renderer never destroys a shared device.
func NewRendererWithDevice(handle render.DeviceHandle) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := handle.(halProvider)
	if !ok {
		return nil, fmt.Errorf("device handle does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("device handle HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("device handle HalQueue is not hal.Queue")
	}

	r := &Renderer{
		device:         device,
		queue:          queue,
		session:        igpu.NewSession(device, queue),
		externalDevice: true,
	}
	lines.Logger().Info("gpu renderer initialized", "device", "shared")
	return r, nil
}

// Render draws line records into the target and composites the result over
// the target's existing pixels.
//
// Records whose projected endpoints coincide must be filtered out first;
// see lines.Batch.DropDegenerate.
func (r *Renderer) Render(target render.RenderTarget, records []lines.LineRecord, st *lines.SceneTransform) error {
	return r.RenderScene(target, nil, records, st)
}

// RenderScene draws flat quads and line records in one pass. Quads render
// first, so lines composite over them.
func (r *Renderer) RenderScene(target render.RenderTarget, quads []QuadInstance, records []lines.LineRecord, st *lines.SceneTransform) error {
	if r.session == nil {
		return fmt.Errorf("renderer is destroyed")
	}
	return r.session.Render(target, quads, records, st)
}

// Destroy releases all GPU resources. An owned device is destroyed; a
// shared device is left to its owner. Safe to call multiple times.
func (r *Renderer) Destroy() {
	if r.session != nil {
		r.session.Destroy()
		r.session = nil
	}
	if !r.externalDevice {
		if r.device != nil {
			r.device.Destroy()
		}
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.queue = nil
	r.instance = nil
}
