package lines

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/lines/internal/parallel"
)

// bandHeight is the height in pixels of the horizontal framebuffer bands
// rasterized in parallel.
const bandHeight = 64

// SoftwareRenderer rasterizes line batches on the CPU by running the same
// two pure stages the GPU pipeline runs: ExpandCorner per vertex, Shade per
// covered sample. It exists as the reference implementation for tests and
// for headless rendering; the per-sample stage is embarrassingly parallel,
// so the renderer splits the framebuffer into bands and shades them on a
// worker pool.
type SoftwareRenderer struct {
	pixmap *Pixmap
	pool   *parallel.Pool
}

// NewSoftwareRenderer creates a software renderer with the given target
// dimensions.
func NewSoftwareRenderer(width, height int, opts ...Option) *SoftwareRenderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	pm := o.pixmap
	if pm == nil {
		pm = NewPixmap(width, height)
	}
	return &SoftwareRenderer{
		pixmap: pm,
		pool:   parallel.New(o.workers),
	}
}

// Pixmap returns the render target.
func (r *SoftwareRenderer) Pixmap() *Pixmap {
	return r.pixmap
}

// Clear fills the target with a color.
func (r *SoftwareRenderer) Clear(c RGBA) {
	r.pixmap.Clear(c)
}

// Close releases the worker pool. The renderer must not be used afterwards.
func (r *SoftwareRenderer) Close() {
	r.pool.Close()
}

// screenVertex is one rasterizer-ready corner: pixel position plus the
// antialiasing parameters carried through interpolation.
type screenVertex struct {
	pos  Vec2
	offs Vec2
}

// screenTriangle is half of an expanded line quad. Color and thickness are
// constant across the quad, so they live on the triangle, not the vertices.
type screenTriangle struct {
	v         [3]screenVertex
	color     RGBA
	thickness float32
}

// Draw expands every record into a screen-space quad and rasterizes the
// resulting triangles with analytic coverage. Records and st must not be
// mutated until Draw returns.
//
// Pixel row y corresponds to NDC y = 2(y+0.5)/height - 1; the caller's
// projection decides which way is up.
func (r *SoftwareRenderer) Draw(records []LineRecord, st *SceneTransform) {
	if len(records) == 0 {
		return
	}

	tris := make([]screenTriangle, 0, len(records)*2)
	for i := range records {
		var corners [VerticesPerLine]screenVertex
		for c := 0; c < VerticesPerLine; c++ {
			qc := ExpandCorner(&records[i], c, st)
			corners[c] = screenVertex{
				pos:  screenPosition(qc.Position, st.Viewport),
				offs: qc.SmoothOffsets,
			}
		}
		tris = append(tris,
			screenTriangle{
				v:         [3]screenVertex{corners[0], corners[1], corners[2]},
				color:     records[i].Color,
				thickness: records[i].Thickness,
			},
			screenTriangle{
				v:         [3]screenVertex{corners[3], corners[4], corners[5]},
				color:     records[i].Color,
				thickness: records[i].Thickness,
			},
		)
	}

	height := r.pixmap.Height()
	bands := (height + bandHeight - 1) / bandHeight
	Logger().Debug("software draw", "lines", len(records), "bands", bands)

	r.pool.Do(bands, func(band int) {
		y0 := band * bandHeight
		y1 := min(y0+bandHeight, height)
		for t := range tris {
			r.rasterizeBand(&tris[t], y0, y1)
		}
	})
}

// rasterizeBand shades the pixels of one triangle that fall inside the row
// range [y0, y1). Bands never overlap, so concurrent calls for different
// bands touch disjoint pixels.
func (r *SoftwareRenderer) rasterizeBand(tri *screenTriangle, y0, y1 int) {
	a, b, c := tri.v[0].pos, tri.v[1].pos, tri.v[2].pos

	area := edgeFunc(a, b, c)
	if area == 0 {
		return
	}

	minX := int(math32.Floor(min3(a.X, b.X, c.X)))
	maxX := int(math32.Ceil(max3(a.X, b.X, c.X)))
	minY := int(math32.Floor(min3(a.Y, b.Y, c.Y)))
	maxY := int(math32.Ceil(max3(a.Y, b.Y, c.Y)))

	minX = max(minX, 0)
	maxX = min(maxX, r.pixmap.Width()-1)
	minY = max(minY, y0)
	maxY = min(maxY, y1-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := V2(float32(x)+0.5, float32(y)+0.5)
			w0 := edgeFunc(b, c, p)
			w1 := edgeFunc(c, a, p)
			w2 := edgeFunc(a, b, p)

			if area > 0 {
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
			} else {
				if w0 > 0 || w1 > 0 || w2 > 0 {
					continue
				}
			}

			b0 := w0 / area
			b1 := w1 / area
			b2 := w2 / area
			offs := tri.v[0].offs.Mul(b0).
				Add(tri.v[1].offs.Mul(b1)).
				Add(tri.v[2].offs.Mul(b2))

			r.pixmap.BlendPixel(x, y, Shade(tri.color, tri.thickness, offs))
		}
	}
}

// edgeFunc returns the signed doubled area of triangle (a, b, p); its sign
// tells which side of edge a->b the point p lies on.
func edgeFunc(a, b, p Vec2) float32 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
