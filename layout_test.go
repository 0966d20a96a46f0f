package lines

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func TestEncodeSceneUniformLayout(t *testing.T) {
	st := NewSceneTransform(Orthographic(0, 800, 0, 600, 0, 1), 800, 600)
	st.Runner = Translation(V3(1, 2, 3))

	buf := EncodeSceneUniform(st)
	if len(buf) != SceneUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), SceneUniformSize)
	}

	// viewProj occupies bytes [0, 64), column-major.
	for i := 0; i < 16; i++ {
		if got := f32At(buf, i*4); got != st.ViewProj[i] {
			t.Errorf("viewProj[%d] = %v, want %v", i, got, st.ViewProj[i])
		}
	}
	// runner occupies bytes [64, 128).
	for i := 0; i < 16; i++ {
		if got := f32At(buf, 64+i*4); got != st.Runner[i] {
			t.Errorf("runner[%d] = %v, want %v", i, got, st.Runner[i])
		}
	}
	// viewport at byte 128, trailing pad zero.
	if got := f32At(buf, 128); got != 800 {
		t.Errorf("viewport.x = %v, want 800", got)
	}
	if got := f32At(buf, 132); got != 600 {
		t.Errorf("viewport.y = %v, want 600", got)
	}
	for off := 136; off < 144; off++ {
		if buf[off] != 0 {
			t.Errorf("pad byte %d = %d, want 0", off, buf[off])
		}
	}
}

func TestEncodeLineRecordsLayout(t *testing.T) {
	recs := []LineRecord{
		{
			P0:        V3(1, 2, 3),
			P1:        V3(4, 5, 6),
			Thickness: 7,
			Color:     RGBA{R: 0.1, G: 0.2, B: 0.3, A: 0.4},
			Model:     Translation(V3(8, 9, 10)),
		},
		{
			P0:        V3(-1, -2, -3),
			P1:        V3(-4, -5, -6),
			Thickness: 0.5,
			Color:     White,
			Model:     Identity4(),
		},
	}

	buf := EncodeLineRecords(recs)
	if len(buf) != len(recs)*LineRecordStride {
		t.Fatalf("len = %d, want %d", len(buf), len(recs)*LineRecordStride)
	}

	for i, rec := range recs {
		base := i * LineRecordStride

		if got := f32At(buf, base+0); got != rec.P0.X {
			t.Errorf("rec %d p0.x = %v, want %v", i, got, rec.P0.X)
		}
		if got := f32At(buf, base+8); got != rec.P0.Z {
			t.Errorf("rec %d p0.z = %v, want %v", i, got, rec.P0.Z)
		}
		// 12..16 is the vec3 alignment pad.
		if got := f32At(buf, base+12); got != 0 {
			t.Errorf("rec %d p0 pad = %v, want 0", i, got)
		}
		if got := f32At(buf, base+16); got != rec.P1.X {
			t.Errorf("rec %d p1.x = %v, want %v", i, got, rec.P1.X)
		}
		// Thickness packs into the slot after p1.
		if got := f32At(buf, base+28); got != rec.Thickness {
			t.Errorf("rec %d thickness = %v, want %v", i, got, rec.Thickness)
		}
		if got := f32At(buf, base+32); got != rec.Color.R {
			t.Errorf("rec %d color.r = %v, want %v", i, got, rec.Color.R)
		}
		if got := f32At(buf, base+44); got != rec.Color.A {
			t.Errorf("rec %d color.a = %v, want %v", i, got, rec.Color.A)
		}
		for col := 0; col < 16; col++ {
			if got := f32At(buf, base+48+col*4); got != rec.Model[col] {
				t.Errorf("rec %d model[%d] = %v, want %v", i, col, got, rec.Model[col])
			}
		}
	}
}

func TestEncodeLineRecordsEmpty(t *testing.T) {
	if got := EncodeLineRecords(nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
