package lines

import "github.com/chewxy/math32"

// AARadius is the width in pixels of the antialiasing falloff band measured
// from the line's hard edge. The expansion stage pads the quad by the same
// amount (AAMargin) so the band always fits inside the rasterized area.
const AARadius = 1.5

// Coverage returns the alpha multiplier for a sample at signed perpendicular
// distance offset (pixels) from the line center, for a line of the given
// thickness.
//
// Samples within the hard half-width (thickness/2 - AARadius) get full
// coverage. Beyond it, coverage decays as a Gaussian of the distance into
// the band: exp(-(d/AARadius)^2). The falloff never reaches zero inside the
// quad, which also gives zero-thickness lines a faint visible floor
// (exp(-1) at the center) instead of a hard disappearance.
//
// Coverage is even in offset and pure: it reads no state and is safe to
// evaluate from any number of goroutines at once.
func Coverage(offset, thickness float32) float32 {
	w := thickness/2 - AARadius
	d := math32.Abs(offset) - w
	if d < 0 {
		return 1
	}
	dn := d / AARadius
	return math32.Exp(-dn * dn)
}

// Shade is the coverage shading stage: it maps rasterizer-interpolated quad
// corner parameters to the final fragment color with antialiasing applied to
// the alpha channel.
//
// The Y component of smoothOffsets (the endpoint selector) is interpolated
// and available here but deliberately unused: endpoint cap antialiasing is
// deferred. Shading uses only the perpendicular offset.
func Shade(color RGBA, thickness float32, smoothOffsets Vec2) RGBA {
	return color.MulAlpha(Coverage(smoothOffsets.X, thickness))
}
