// Package render defines the integration points between the lines module
// and a host application: where rendering output goes (RenderTarget) and
// where the GPU device comes from (DeviceHandle).
//
// The lines module never creates a window or owns a swapchain. A host
// either renders into a CPU-backed PixmapTarget (software path, or GPU path
// with readback), or shares its GPU device through DeviceHandle so the line
// pipeline can record into the host's frame.
package render
