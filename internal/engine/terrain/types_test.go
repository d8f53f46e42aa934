package terrain

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func near2(a, b mgl32.Vec2, eps float32) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps)
}

func near3(a, b mgl32.Vec3, eps float32) bool {
	return near(a[0], b[0], eps) && near(a[1], b[1], eps) && near(a[2], b[2], eps)
}

func TestPatchBilerp(t *testing.T) {
	p := Patch{
		Corners: [4]mgl32.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 0, 2}, {0, 0, 2}},
		UVs:     [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	}

	tests := []struct {
		s, t float32
		pos  mgl32.Vec3
		uv   mgl32.Vec2
	}{
		{0, 0, mgl32.Vec3{0, 0, 0}, mgl32.Vec2{0, 0}},
		{1, 0, mgl32.Vec3{2, 0, 0}, mgl32.Vec2{1, 0}},
		{1, 1, mgl32.Vec3{2, 0, 2}, mgl32.Vec2{1, 1}},
		{0, 1, mgl32.Vec3{0, 0, 2}, mgl32.Vec2{0, 1}},
		{0.25, 0.5, mgl32.Vec3{0.5, 0, 1}, mgl32.Vec2{0.25, 0.5}},
	}
	for _, tt := range tests {
		pos, uv := p.Bilerp(tt.s, tt.t)
		if !near3(pos, tt.pos, 1e-6) || !near2(uv, tt.uv, 1e-6) {
			t.Errorf("Bilerp(%v, %v) = %v %v, want %v %v", tt.s, tt.t, pos, uv, tt.pos, tt.uv)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := smoothstep(0, 1, tt.x); !near(got, tt.want, 1e-6) {
			t.Errorf("smoothstep(0, 1, %v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
