package gpu

import (
	"testing"

	"github.com/gogpu/lines/render"
)

func TestNewRendererWithDeviceRejectsNonHALProvider(t *testing.T) {
	// NullDeviceHandle satisfies the provider interface but exposes no
	// HAL device or queue.
	_, err := NewRendererWithDevice(render.NullDeviceHandle{})
	if err == nil {
		t.Fatal("expected error for provider without HAL types")
	}
}

func TestDestroyedRendererRejectsRender(t *testing.T) {
	r := &Renderer{}
	if err := r.Render(render.NewPixmapTarget(4, 4), nil, nil); err == nil {
		t.Fatal("expected error from destroyed renderer")
	}
}
