package lines

// AAMargin is the antialiasing padding in pixels added to each side of the
// emitted quad. It reserves room inside the quad for the falloff band the
// coverage stage computes, so the visible edge is never clipped by the quad
// boundary. It must match AARadius in the coverage stage.
const AAMargin = 1.5

// QuadCorner is one vertex produced by the geometry expansion stage.
// Corners exist only for the duration of a draw's rasterization; they are
// produced fresh each draw and never persisted.
type QuadCorner struct {
	// Position is the reconstructed clip-space position. W is always 1:
	// the quad is built in screen space after the perspective divide, so
	// its pixel width stays constant regardless of depth. That trade-off
	// against perspective-correct width is the visual contract of this
	// renderer, not an artifact.
	Position Vec4

	// Color is copied from the line record, identical for all six corners.
	Color RGBA

	// Thickness is the line width in pixels, identical for all six corners.
	Thickness float32

	// SmoothOffsets carries the antialiasing parameters through rasterizer
	// interpolation: X is the signed perpendicular extension in pixels,
	// Y selects the endpoint (0 or 1, reserved for cap antialiasing).
	SmoothOffsets Vec2
}

// cornerTable encodes the two-triangle quad as (t, s) pairs per vertex:
// t picks the near/far endpoint, s the perpendicular side.
var cornerTable = [VerticesPerLine]struct{ t, s float32 }{
	{0, -1}, {0, 1}, {1, -1},
	{0, 1}, {1, 1}, {1, -1},
}

// ExpandVertex maps a global vertex index in [0, 6N) to a quad corner,
// mirroring a vertex shader invocation driven by its vertex index. Index i
// belongs to line i/6 and corner i%6.
//
// The caller guarantees idx is in range and the indexed record projects to
// distinct screen points; like the GPU stage, this performs no checks.
func ExpandVertex(idx int, records []LineRecord, st *SceneTransform) QuadCorner {
	return ExpandCorner(&records[idx/VerticesPerLine], idx%VerticesPerLine, st)
}

// ExpandCorner produces one corner of the antialiasing-padded quad for a
// line record. Across the six corner indices the results describe two
// triangles forming a rectangle around the segment in screen space.
//
// The function is pure, branch-free, and deterministic: identical inputs
// yield bit-identical corners.
func ExpandCorner(rec *LineRecord, corner int, st *SceneTransform) QuadCorner {
	ts := cornerTable[corner]

	mvp := st.ModelViewProjection(rec.Model)
	clip0 := mvp.MulVec4(V4(rec.P0.X, rec.P0.Y, rec.P0.Z, 1))
	clip1 := mvp.MulVec4(V4(rec.P1.X, rec.P1.Y, rec.P1.Z, 1))

	screen0 := screenPosition(clip0, st.Viewport)
	screen1 := screenPosition(clip1, st.Viewport)

	direction := screen1.Sub(screen0).Normalize()
	normal := direction.Perp()

	width := rec.Thickness/2 + AAMargin
	extension := ts.s * width

	// Only the endpoint values t=0 and t=1 are ever selected; Lerp keeps
	// the selection branch-free.
	base := screen0.Lerp(screen1, ts.t)
	clip := clip0.Lerp(clip1, ts.t)
	screen := base.Add(normal.Mul(extension))

	// Rebuild a clip position from the displaced screen position. Depth
	// comes from the blended endpoint's z/w; w is forced to 1 so the
	// rasterizer performs no further perspective divide on the quad.
	pos := Vec4{
		X: 2*screen.X/st.Viewport.X - 1,
		Y: 2*screen.Y/st.Viewport.Y - 1,
		Z: clip.Z / clip.W,
		W: 1,
	}

	return QuadCorner{
		Position:      pos,
		Color:         rec.Color,
		Thickness:     rec.Thickness,
		SmoothOffsets: V2(extension, ts.t),
	}
}

// screenPosition maps a clip-space position to pixel coordinates:
// perspective divide followed by the NDC-to-viewport mapping.
func screenPosition(clip Vec4, viewport Vec2) Vec2 {
	return Vec2{
		X: viewport.X * (clip.X/clip.W + 1) / 2,
		Y: viewport.Y * (clip.Y/clip.W + 1) / 2,
	}
}
