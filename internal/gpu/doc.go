// Package gpu holds the wgpu/hal render pipelines behind the public gpu
// package: the line pipeline (procedural quad expansion in the vertex stage,
// analytic coverage in the fragment stage) and the flat pipeline for
// instanced solid-color quads. Both bind the same scene uniform block at
// binding 0 and their per-primitive storage buffer at binding 1, and draw
// without vertex or index buffers.
package gpu
