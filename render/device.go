package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// This interface is the integration point between the lines module and GPU
// frameworks like gogpu. The host application implements DeviceHandle and
// passes it to the GPU renderer, which then uses the shared device instead
// of creating its own.
//
// Key principle: the line renderer RECEIVES the device from the host, it
// does not have to create one. This enables:
//   - Shared GPU resources between the line pipeline and the host
//   - Zero device creation overhead in this module
//   - Consistent resource lifetime management across the stack
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// module-specific name while staying compatible with the gpucontext
// ecosystem.
//
// Providers that additionally expose HAL types through
//
//	HalDevice() any
//	HalQueue() any
//
// (returning wgpu/hal Device and Queue) let the GPU renderer share the
// device directly; see the gpu package's NewRendererWithDevice.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with nil implementations. Used where
// no GPU is available, e.g. software-only rendering and tests.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns zero-value adapter metadata for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
