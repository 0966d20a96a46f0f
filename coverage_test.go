package lines

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestCoverage(t *testing.T) {
	tests := []struct {
		name      string
		offset    float32
		thickness float32
		want      float32
	}{
		{"center of thick line", 0, 10, 1.0},
		{"inside hard core", 3, 10, 1.0},
		{"at hard edge", 3.5, 10, 1.0},
		{"half band out", 4.25, 10, math32.Exp(-0.25)},
		{"one band out", 5.0, 10, math32.Exp(-1)},
		{"two bands out", 6.5, 10, math32.Exp(-4)},
		{"negative offset mirrors", -5.0, 10, math32.Exp(-1)},
		{"zero thickness center", 0, 0, math32.Exp(-1)},
		{"thin line center", 0, 2, math32.Exp(-1.0 / 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coverage(tt.offset, tt.thickness)
			if math32.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Coverage(%v, %v) = %v, want %v", tt.offset, tt.thickness, got, tt.want)
			}
		})
	}
}

func TestCoverageSymmetric(t *testing.T) {
	for offset := float32(0); offset <= 6; offset += 0.25 {
		pos := Coverage(offset, 4)
		neg := Coverage(-offset, 4)
		if pos != neg {
			t.Errorf("Coverage not even at offset %v: +%v vs -%v", offset, pos, neg)
		}
	}
}

func TestCoverageMonotonic(t *testing.T) {
	// Coverage must never increase as the sample moves away from the
	// line center.
	prev := float32(2)
	for offset := float32(0); offset <= 8; offset += 0.05 {
		curr := Coverage(offset, 4)
		if curr > prev+1e-7 {
			t.Errorf("coverage increased at offset %v: prev=%v curr=%v", offset, prev, curr)
		}
		prev = curr
	}
}

func TestCoverageNeverZeroInsideBand(t *testing.T) {
	// The Gaussian falloff is strictly positive, so even a zero-thickness
	// line keeps a visible floor at its center.
	if got := Coverage(0, 0); got < 0.36 || got > 0.37 {
		t.Errorf("zero-thickness center coverage = %v, want ~0.368", got)
	}
	// At the quad boundary (offset = thickness/2 + AAMargin) coverage is
	// small but nonzero.
	if got := Coverage(3.5, 4); got <= 0 {
		t.Errorf("coverage at quad edge = %v, want > 0", got)
	}
}

func TestShade(t *testing.T) {
	c := RGBA{R: 0.2, G: 0.4, B: 0.6, A: 0.8}

	inside := Shade(c, 10, V2(0, 0))
	if inside != c {
		t.Errorf("full-coverage shade changed color: %+v", inside)
	}

	faded := Shade(c, 10, V2(5, 1))
	wantA := c.A * math32.Exp(-1)
	if math32.Abs(faded.A-wantA) > 1e-6 {
		t.Errorf("faded alpha = %v, want %v", faded.A, wantA)
	}
	if faded.R != c.R || faded.G != c.G || faded.B != c.B {
		t.Errorf("shade touched color channels: %+v", faded)
	}
}

func TestShadeIgnoresEndpointSelector(t *testing.T) {
	// The Y component rides along for future cap antialiasing and must
	// not affect shading yet.
	c := RGBA{R: 1, G: 1, B: 1, A: 1}
	a := Shade(c, 4, V2(1.5, 0))
	b := Shade(c, 4, V2(1.5, 1))
	if a != b {
		t.Errorf("endpoint selector changed shade: %+v vs %+v", a, b)
	}
}
