// Package terrain provides the control grid, height field and the CPU reference
// of the tessellation, displacement and material stages run by the terrain shaders.
package terrain

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RestartIndex terminates a triangle strip when primitive restart is enabled.
// It is the largest uint32 so it can never address a real vertex.
const RestartIndex uint32 = math.MaxUint32

// Validation errors.
var (
	ErrInvalidGridSize   = errors.New("grid needs at least 2 points per side")
	ErrInvalidExtent     = errors.New("grid half extent must be positive")
	ErrPatchOutOfRange   = errors.New("patch index out of range")
	ErrEmptyHeightField  = errors.New("height field has no samples")
	ErrInvalidLODParams  = errors.New("invalid tessellation parameters")
	ErrInvalidBlendRange = errors.New("invalid material blend parameters")
)

// Vertex is a point produced by the displacement stage.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Patch is one quad of the control grid handed to the tessellator.
// Corner order: 0=(u0,v0) 1=(u1,v0) 2=(u1,v1) 3=(u0,v1).
type Patch struct {
	Corners [4]mgl32.Vec3
	UVs     [4]mgl32.Vec2
}

// Bilerp interpolates the patch corners at quad domain coordinates (s, t).
func (p Patch) Bilerp(s, t float32) (mgl32.Vec3, mgl32.Vec2) {
	p0 := lerp3(p.Corners[0], p.Corners[1], s)
	p1 := lerp3(p.Corners[3], p.Corners[2], s)
	uv0 := lerp2(p.UVs[0], p.UVs[1], s)
	uv1 := lerp2(p.UVs[3], p.UVs[2], s)
	return lerp3(p0, p1, t), lerp2(uv0, uv1, t)
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp2(a, b mgl32.Vec2, t float32) mgl32.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// smoothstep matches GLSL smoothstep.
func smoothstep(edge0, edge1, x float32) float32 {
	t := clampf((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

func mixf(a, b, t float32) float32 {
	return a + (b-a)*t
}
