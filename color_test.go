package lines

import (
	"image/color"
	"testing"

	"github.com/chewxy/math32"
)

func TestRGB(t *testing.T) {
	c := RGB(0.2, 0.4, 0.6)
	if c.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", c.A)
	}
}

func TestRGBAColorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
	}{
		{"opaque red", RGBA{R: 1, A: 1}},
		{"half gray", RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}},
		{"translucent", RGBA{R: 0.25, G: 0.5, B: 0.75, A: 0.5}},
		{"transparent", Transparent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromColor(tt.c.Color())
			const eps = 1.0 / 255 // 8-bit quantization
			if math32.Abs(got.R-tt.c.R) > eps ||
				math32.Abs(got.G-tt.c.G) > eps ||
				math32.Abs(got.B-tt.c.B) > eps ||
				math32.Abs(got.A-tt.c.A) > eps {
				t.Errorf("round trip %+v -> %+v", tt.c, got)
			}
		})
	}
}

func TestRGBAColorClamps(t *testing.T) {
	c := RGBA{R: 2, G: -1, B: 0.5, A: 1}
	got := c.Color().(color.NRGBA)
	if got.R != 255 || got.G != 0 {
		t.Errorf("clamped color = %+v", got)
	}
}

func TestMulAlpha(t *testing.T) {
	c := RGBA{R: 0.5, G: 0.6, B: 0.7, A: 0.8}
	got := c.MulAlpha(0.5)
	if got.R != c.R || got.G != c.G || got.B != c.B {
		t.Errorf("MulAlpha touched color channels: %+v", got)
	}
	if math32.Abs(got.A-0.4) > 1e-6 {
		t.Errorf("MulAlpha alpha = %v, want 0.4", got.A)
	}
}

func TestRGBALerp(t *testing.T) {
	got := Black.Lerp(White, 0.5)
	want := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if got != want {
		t.Errorf("Lerp = %+v, want %+v", got, want)
	}
}
