// Package lines renders variable-width 3D line segments as analytically
// antialiased, screen-space-correct quads.
//
// # Overview
//
// Each line segment is expanded into a two-triangle quad whose on-screen
// width stays constant regardless of depth: the segment is projected,
// the quad is built around it in screen space, and a clip-space position is
// reconstructed from the displaced screen position. Edge antialiasing is
// analytic: fragment alpha follows a Gaussian falloff of the signed
// perpendicular distance from the line center, with no supersampling.
//
// The two core stages are exported as pure functions so they can be tested
// and reused outside a full graphics pipeline:
//
//   - [ExpandCorner] / [ExpandVertex]: geometry expansion (per vertex)
//   - [Coverage] / [Shade]: analytic coverage (per sample)
//
// Both stages are stateless and deterministic. They share no mutable state
// across invocations and may run from any number of goroutines at once; the
// only inputs are the read-only line records and the scene transform, which
// the host must keep unchanged while a draw is in flight.
//
// # Quick start
//
//	batch := lines.NewBatch(64)
//	batch.AddSegment(lines.V3(0, 0, 0), lines.V3(10, 0, 0), 4, lines.White)
//
//	st := lines.NewSceneTransform(viewProj, 800, 600)
//
//	r := lines.NewSoftwareRenderer(800, 600)
//	defer r.Close()
//	r.Draw(batch.Records(), st)
//	r.Pixmap().SavePNG("out.png")
//
// # Renderers
//
// The package ships a parallel software rasterizer ([SoftwareRenderer]) as
// the reference implementation, and a GPU pipeline in the gpu subpackage
// that draws the same batches through gogpu/wgpu with a single non-indexed
// draw of 6 vertices per line (see [Batch.VertexCount] and the layout
// contract in layout.go).
//
// # Limitations
//
// Endpoint caps are not antialiased (the endpoint selector is carried
// through interpolation but unused), thickness is constant along a segment,
// and strokes are straight; curves are flattened host-side
// (see [Batch.AddCubicBezier]).
package lines

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
