package gpu

import (
	"strings"
	"testing"

	"github.com/gogpu/naga"
)

func TestShaderSourcesEmbedded(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"line_render", lineRenderShaderSource},
		{"flat_render", flatRenderShaderSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.source == "" {
				t.Fatal("shader source is empty")
			}
			if !strings.Contains(tt.source, "fn vs_main") {
				t.Error("missing vertex entry point")
			}
			if !strings.Contains(tt.source, "fn fs_main") {
				t.Error("missing fragment entry point")
			}
		})
	}
}

func TestLineShaderBindings(t *testing.T) {
	// The host encodes against these binding slots; see PrepareFrame.
	if !strings.Contains(lineRenderShaderSource, "@group(0) @binding(0)") {
		t.Error("scene uniform binding missing")
	}
	if !strings.Contains(lineRenderShaderSource, "@group(0) @binding(1)") {
		t.Error("line record storage binding missing")
	}
}

func TestShadersCompile(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"line_render", lineRenderShaderSource},
		{"flat_render", flatRenderShaderSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spirv, err := naga.Compile(tt.source)
			if err != nil {
				errStr := err.Error()
				if strings.Contains(errStr, "not yet implemented") ||
					strings.Contains(errStr, "not supported") {
					t.Skipf("naga feature not yet implemented: %v", err)
				}
				t.Fatalf("compile failed: %v", err)
			}
			if len(spirv) == 0 {
				t.Fatal("empty SPIR-V output")
			}
			// SPIR-V magic number, little-endian.
			words, err := CompileShaderToSPIRV(tt.source)
			if err != nil {
				t.Fatalf("CompileShaderToSPIRV: %v", err)
			}
			if words[0] != 0x07230203 {
				t.Errorf("SPIR-V magic = %#x", words[0])
			}
		})
	}
}

func TestCompositePremulOver(t *testing.T) {
	tests := []struct {
		name string
		src  [4]byte
		dst  [4]byte
		want [4]byte
	}{
		{"transparent source keeps dst", [4]byte{0, 0, 0, 0}, [4]byte{10, 20, 30, 40}, [4]byte{10, 20, 30, 40}},
		{"opaque source replaces dst", [4]byte{255, 0, 0, 255}, [4]byte{10, 20, 30, 40}, [4]byte{255, 0, 0, 255}},
		{"half source over empty", [4]byte{128, 64, 0, 128}, [4]byte{0, 0, 0, 0}, [4]byte{128, 64, 0, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := append([]byte{}, tt.src[:]...)
			dst := append([]byte{}, tt.dst[:]...)
			compositePremulOver(src, dst, 1)
			for i := 0; i < 4; i++ {
				if dst[i] != tt.want[i] {
					t.Errorf("channel %d = %d, want %d (dst %v)", i, dst[i], tt.want[i], dst)
					break
				}
			}
		})
	}
}

func TestCompositePremulOverBlends(t *testing.T) {
	// Half-alpha premultiplied white over opaque black: color lifts to
	// roughly half, alpha saturates.
	src := []byte{128, 128, 128, 128}
	dst := []byte{0, 0, 0, 255}
	compositePremulOver(src, dst, 1)
	if dst[0] != 128 || dst[3] != 255 {
		t.Errorf("blend result = %v, want {128, 128, 128, 255}", dst)
	}
}
