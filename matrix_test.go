package lines

import (
	"testing"

	"github.com/chewxy/math32"
)

func vec4Approx(a, b Vec4, eps float32) bool {
	return math32.Abs(a.X-b.X) <= eps &&
		math32.Abs(a.Y-b.Y) <= eps &&
		math32.Abs(a.Z-b.Z) <= eps &&
		math32.Abs(a.W-b.W) <= eps
}

func TestMat4Identity(t *testing.T) {
	id := Identity4()
	if !id.IsIdentity() {
		t.Fatal("Identity4 not identity")
	}
	v := V4(1, 2, 3, 4)
	if got := id.MulVec4(v); got != v {
		t.Errorf("identity transform changed vector: %+v", got)
	}
	trans := Translation(V3(1, 2, 3))
	if got := id.Mul(trans); got != trans {
		t.Errorf("identity composition changed matrix: %+v", got)
	}
}

func TestMat4Translation(t *testing.T) {
	m := Translation(V3(10, -5, 2))
	got := m.MulVec4(V4(1, 1, 1, 1))
	want := V4(11, -4, 3, 1)
	if got != want {
		t.Errorf("translated point = %+v, want %+v", got, want)
	}
	// Directions (w=0) are unaffected.
	dir := m.MulVec4(V4(1, 0, 0, 0))
	if dir != V4(1, 0, 0, 0) {
		t.Errorf("translation moved a direction: %+v", dir)
	}
}

func TestMat4Scaling(t *testing.T) {
	m := Scaling(V3(2, 3, 4))
	got := m.MulVec4(V4(1, 1, 1, 1))
	if got != V4(2, 3, 4, 1) {
		t.Errorf("scaled point = %+v", got)
	}
}

func TestMat4RotationZ(t *testing.T) {
	m := RotationZ(math32.Pi / 2)
	got := m.MulVec4(V4(1, 0, 0, 1))
	if !vec4Approx(got, V4(0, 1, 0, 1), 1e-6) {
		t.Errorf("quarter turn of +x = %+v, want +y", got)
	}
}

func TestMat4MulOrder(t *testing.T) {
	// m.Mul(other) applies other first: translate-then-rotate differs
	// from rotate-then-translate.
	rot := RotationZ(math32.Pi / 2)
	trans := Translation(V3(1, 0, 0))

	// Rotate first, then translate: +x -> +y -> (1, 1).
	got := trans.Mul(rot).MulVec4(V4(1, 0, 0, 1))
	if !vec4Approx(got, V4(1, 1, 0, 1), 1e-6) {
		t.Errorf("translate*rotate = %+v, want (1, 1, 0, 1)", got)
	}

	// Translate first, then rotate: +x -> (2, 0) -> (0, 2).
	got = rot.Mul(trans).MulVec4(V4(1, 0, 0, 1))
	if !vec4Approx(got, V4(0, 2, 0, 1), 1e-6) {
		t.Errorf("rotate*translate = %+v, want (0, 2, 0, 1)", got)
	}
}

func TestOrthographic(t *testing.T) {
	m := Orthographic(0, 800, 0, 600, 0, 1)

	tests := []struct {
		name string
		in   Vec4
		want Vec4
	}{
		{"bottom left near", V4(0, 0, 0, 1), V4(-1, -1, 0, 1)},
		{"top right near", V4(800, 600, 0, 1), V4(1, 1, 0, 1)},
		{"center", V4(400, 300, 0, 1), V4(0, 0, 0, 1)},
		{"far plane", V4(400, 300, -1, 1), V4(0, 0, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.MulVec4(tt.in)
			if !vec4Approx(got, tt.want, 1e-6) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(math32.Pi/2, 1, 1, 100)

	// Points on the near plane (z = -near) map to ndc z = 0.
	near := m.MulVec4(V4(0, 0, -1, 1))
	if math32.Abs(near.Z/near.W) > 1e-6 {
		t.Errorf("near plane ndc z = %v, want 0", near.Z/near.W)
	}
	// Points on the far plane map to ndc z = 1.
	far := m.MulVec4(V4(0, 0, -100, 1))
	if math32.Abs(far.Z/far.W-1) > 1e-4 {
		t.Errorf("far plane ndc z = %v, want 1", far.Z/far.W)
	}
	// W carries the view depth for the perspective divide.
	if math32.Abs(far.W-100) > 1e-3 {
		t.Errorf("far plane w = %v, want 100", far.W)
	}
	// With a 90 degree fov, a point at x = |z| lands on the frustum edge.
	edge := m.MulVec4(V4(10, 0, -10, 1))
	if math32.Abs(edge.X/edge.W-1) > 1e-5 {
		t.Errorf("frustum edge ndc x = %v, want 1", edge.X/edge.W)
	}
}

func TestLookAt(t *testing.T) {
	eye := V3(0, 0, 5)
	m := LookAt(eye, V3(0, 0, 0), V3(0, 1, 0))

	// The eye maps to the view-space origin.
	got := m.MulVec4(V4(eye.X, eye.Y, eye.Z, 1))
	if !vec4Approx(got, V4(0, 0, 0, 1), 1e-5) {
		t.Errorf("eye maps to %+v, want origin", got)
	}
	// The look target lies on the -z axis at its distance from the eye.
	target := m.MulVec4(V4(0, 0, 0, 1))
	if !vec4Approx(target, V4(0, 0, -5, 1), 1e-5) {
		t.Errorf("target maps to %+v, want (0, 0, -5, 1)", target)
	}
	// Up stays up.
	up := m.MulVec4(V4(0, 1, 0, 0))
	if !vec4Approx(up, V4(0, 1, 0, 0), 1e-5) {
		t.Errorf("up maps to %+v, want (0, 1, 0, 0)", up)
	}
}

func TestSceneTransformMVP(t *testing.T) {
	vp := Orthographic(0, 100, 0, 100, 0, 1)
	st := NewSceneTransform(vp, 100, 100)
	if !st.Runner.IsIdentity() {
		t.Fatal("NewSceneTransform runner not identity")
	}

	// With identity runner and model, MVP equals the projection.
	if got := st.ModelViewProjection(Identity4()); got != vp {
		t.Errorf("mvp = %+v, want viewProj", got)
	}

	// Runner applies between projection and model.
	st.Runner = Translation(V3(10, 0, 0))
	model := Translation(V3(0, 5, 0))
	got := st.ModelViewProjection(model).MulVec4(V4(0, 0, 0, 1))
	want := vp.MulVec4(V4(10, 5, 0, 1))
	if !vec4Approx(got, want, 1e-6) {
		t.Errorf("composed mvp point = %+v, want %+v", got, want)
	}
}
