package lines

// SceneTransform holds the per-draw camera state shared by every renderer
// in the pipeline. It is owned by the host and borrowed (never mutated) by
// the geometry expansion stage; the host must not change it while a draw
// referencing it is in flight.
type SceneTransform struct {
	// ViewProj transforms world space to clip space.
	ViewProj Mat4

	// Viewport is the render target size in pixels. It is carried as a
	// float32 pair everywhere, including the uniform block; hosts with
	// integer framebuffer sizes convert once at construction.
	Viewport Vec2

	// Runner is an optional hierarchical parent transform applied to every
	// model matrix before ViewProj. Use Identity4 (or NewSceneTransform)
	// when no runner is active.
	Runner Mat4
}

// NewSceneTransform creates a scene transform with an identity runner.
func NewSceneTransform(viewProj Mat4, viewportW, viewportH float32) *SceneTransform {
	return &SceneTransform{
		ViewProj: viewProj,
		Viewport: V2(viewportW, viewportH),
		Runner:   Identity4(),
	}
}

// ModelViewProjection composes the full object-to-clip matrix for a model
// transform: ViewProj * Runner * model.
func (st *SceneTransform) ModelViewProjection(model Mat4) Mat4 {
	return st.ViewProj.Mul(st.Runner).Mul(model)
}
