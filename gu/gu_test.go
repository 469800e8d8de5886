package gu

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gx"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func apply34(m gx.Mtx34, v mgl32.Vec3) mgl32.Vec3 {
	var out mgl32.Vec3
	for r := 0; r < 3; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]
	}
	return out
}

func apply44(m gx.Mtx44, v mgl32.Vec3) mgl32.Vec4 {
	var out mgl32.Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[r][0]*v[0] + m[r][1]*v[1] + m[r][2]*v[2] + m[r][3]
	}
	return out
}

func TestTransforms(t *testing.T) {
	tests := []struct {
		name string
		m    gx.Mtx34
		in   mgl32.Vec3
		want mgl32.Vec3
	}{
		{"identity", Identity(), mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 2, 3}},
		{"translate", Translate(1, -2, 3), mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, -1, 4}},
		{"scale", Scale(2, 3, 4), mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 3, 4}},
		{"rotate z", Rotate(mgl32.Vec3{0, 0, 2}, 90), mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		// scale first, then translate
		{"concat", Concat(Translate(10, 0, 0), Scale(2, 2, 2)), mgl32.Vec3{1, 1, 1}, mgl32.Vec3{12, 2, 2}},
		{"look at", LookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{}), mgl32.Vec3{}, mgl32.Vec3{0, 0, -5}},
	}

	for _, tt := range tests {
		got := apply34(tt.m, tt.in)
		for i := range got {
			if !near(got[i], tt.want[i]) {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}

func TestMtx34IsRowMajor(t *testing.T) {
	m := Translate(7, 8, 9)
	if m[0][3] != 7 || m[1][3] != 8 || m[2][3] != 9 || m[0][0] != 1 {
		t.Errorf("translation not in the last column: %v", m)
	}
	if back := Mtx34(Mat4(m)); back != m {
		t.Errorf("round trip through mgl32 changed the matrix")
	}
}

func TestInverseTranspose(t *testing.T) {
	// a normal of a plane stretched along x points less along x
	n := apply34(InverseTranspose(Scale(2, 1, 1)), mgl32.Vec3{1, 1, 0})
	if !near(n[0], 0.5) || !near(n[1], 1) {
		t.Errorf("normal %v", n)
	}
	if m := InverseTranspose(Translate(5, 5, 5)); m[0][3] != 0 || m[2][3] != 0 {
		t.Errorf("translation kept in the normal matrix")
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(0, 480, 0, 640, 0, 1)
	assert := func(v mgl32.Vec3, x, y, z float32) {
		c := apply44(m, v)
		if !near(c[0], x) || !near(c[1], y) || !near(c[2], z) || c[3] != 1 {
			t.Errorf("%v projected to %v", v, c)
		}
	}
	assert(mgl32.Vec3{0, 0, 0}, -1, 1, -1)
	assert(mgl32.Vec3{640, 480, 0}, 1, -1, -1)
	assert(mgl32.Vec3{320, 240, -1}, 0, 0, 0)
}

func TestPerspective(t *testing.T) {
	m := Perspective(90, 1, 1, 100)
	// near plane maps to -w, far plane to 0
	c := apply44(m, mgl32.Vec3{0, 0, -1})
	if !near(c[2]/c[3], -1) {
		t.Errorf("near plane depth %v", c[2]/c[3])
	}
	c = apply44(m, mgl32.Vec3{0, 0, -100})
	if !near(c[2]/c[3], 0) {
		t.Errorf("far plane depth %v", c[2]/c[3])
	}
	// 90 degrees: a point at 45 degrees lands on the edge
	c = apply44(m, mgl32.Vec3{0, 2, -2})
	if !near(c[1]/c[3], 1) {
		t.Errorf("top edge at %v", c[1]/c[3])
	}

	f := Frustum(1, -1, -1, 1, 1, 100)
	for r := range m {
		for col := range m[r] {
			if !near(m[r][col], f[r][col]) {
				t.Fatalf("symmetric frustum differs from perspective: %v / %v", f, m)
			}
		}
	}
}
