package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Probe describes the terrain surface under a ray.
type Probe struct {
	Position  mgl32.Vec3
	UV        mgl32.Vec2
	Elevation float32
	Normal    mgl32.Vec3
	Weights   terrain.Weights
}

// Bounds returns the box enclosing the surface at a height scale.
func (w *World) Bounds(scale float32) picking.AABB {
	lo, hi := w.Grid.Bounds()
	lo[1] = w.Field.MinValue() * scale
	hi[1] = w.Field.MaxValue() * scale
	return picking.NewAABB(lo, hi)
}

// Probe intersects r with the displaced surface. The march step is half a
// height field texel.
func (w *World) Probe(r picking.Ray, scale float32, blend terrain.BlendParams) (Probe, bool) {
	lo, hi := w.Grid.Bounds()
	fw, _ := w.Field.Size()
	step := (hi.X() - lo.X()) / float32(fw) / 2

	height := func(x, z float32) float32 { return w.HeightAt(x, z, scale) }
	p, ok := r.IntersectHeight(w.Bounds(scale), height, step)
	if !ok {
		return Probe{}, false
	}

	uv := w.Grid.UVAt(p.X(), p.Z())
	normal := w.Displacer(scale).Normal(uv)
	elevation := w.Field.Normalized(w.Field.Sample(uv))
	return Probe{
		Position:  p,
		UV:        uv,
		Elevation: elevation,
		Normal:    normal,
		Weights:   blend.Weights(elevation, normal),
	}, true
}
