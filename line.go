package lines

// VerticesPerLine is the number of vertices the geometry expansion stage
// emits per line record: two triangles forming a quad.
const VerticesPerLine = 6

// LineRecord describes one 3D line segment to be rendered as a
// constant-pixel-width, analytically antialiased quad.
//
// Precondition: the projected endpoints must be distinct in screen space.
// The expansion stage normalizes the screen-space direction without a guard,
// so violating records produce NaN geometry (an invisible primitive). Hosts
// should drop such records before a draw; see Batch.DropDegenerate.
type LineRecord struct {
	// P0 and P1 are the segment endpoints in object space.
	P0, P1 Vec3

	// Thickness is the on-screen line width in pixels. It stays constant
	// regardless of depth. Non-positive values fade the line out through
	// the coverage function rather than failing.
	Thickness float32

	// Color is the line color; the coverage stage modulates its alpha.
	Color RGBA

	// Model transforms the endpoints from object space to world space.
	Model Mat4
}

// Batch is an insertion-ordered collection of line records owned by the
// host. Record i owns vertices [6i, 6i+6) of the draw call; a batch with N
// records is drawn with a single non-indexed draw of 6*N vertices.
//
// A Batch must not be mutated while a draw referencing it is in flight.
// The renderers borrow the record slice, they never copy or retain it.
type Batch struct {
	records []LineRecord
}

// NewBatch creates a batch with capacity for n records.
func NewBatch(n int) *Batch {
	return &Batch{records: make([]LineRecord, 0, n)}
}

// Add appends a single line record.
func (b *Batch) Add(rec LineRecord) {
	b.records = append(b.records, rec)
}

// AddSegment appends a line between two points with the given thickness and
// color and an identity model transform.
func (b *Batch) AddSegment(p0, p1 Vec3, thickness float32, color RGBA) {
	b.records = append(b.records, LineRecord{
		P0:        p0,
		P1:        p1,
		Thickness: thickness,
		Color:     color,
		Model:     Identity4(),
	})
}

// AddPolyline appends a segment between each consecutive pair of points.
func (b *Batch) AddPolyline(points []Vec3, thickness float32, color RGBA) {
	for i := 1; i < len(points); i++ {
		b.AddSegment(points[i-1], points[i], thickness, color)
	}
}

// AddCubicBezier flattens a cubic Bezier curve into steps line segments and
// appends them. steps values around 32-64 are enough for screen-size curves.
func (b *Batch) AddCubicBezier(p0, c0, c1, p1 Vec3, steps int, thickness float32, color RGBA) {
	if steps < 1 {
		steps = 1
	}
	prev := p0
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		pt := cubicBezierPoint(p0, c0, c1, p1, t)
		b.AddSegment(prev, pt, thickness, color)
		prev = pt
	}
}

// cubicBezierPoint evaluates a cubic Bezier at parameter t.
func cubicBezierPoint(p0, c0, c1, p1 Vec3, t float32) Vec3 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return p0.Mul(a).Add(c0.Mul(b)).Add(c1.Mul(c)).Add(p1.Mul(d))
}

// Records returns the underlying record slice. The caller must treat it as
// read-only while a draw referencing the batch is outstanding.
func (b *Batch) Records() []LineRecord {
	return b.records
}

// Len returns the number of line records in the batch.
func (b *Batch) Len() int {
	return len(b.records)
}

// VertexCount returns the vertex count for the batch's draw call.
func (b *Batch) VertexCount() int {
	return len(b.records) * VerticesPerLine
}

// Clear removes all records, keeping the allocation.
func (b *Batch) Clear() {
	b.records = b.records[:0]
}

// DropDegenerate removes records whose endpoints coincide in screen space
// under the given transform. The expansion stage itself performs no such
// check; this runs host-side, outside the per-vertex hot path.
//
// It returns the number of records removed.
func (b *Batch) DropDegenerate(st *SceneTransform) int {
	kept := b.records[:0]
	for _, rec := range b.records {
		mvp := st.ModelViewProjection(rec.Model)
		s0 := screenPosition(mvp.MulVec4(V4(rec.P0.X, rec.P0.Y, rec.P0.Z, 1)), st.Viewport)
		s1 := screenPosition(mvp.MulVec4(V4(rec.P1.X, rec.P1.Y, rec.P1.Z, 1)), st.Viewport)
		if s0 == s1 {
			continue
		}
		kept = append(kept, rec)
	}
	dropped := len(b.records) - len(kept)
	b.records = kept
	return dropped
}
