package terrain

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Height scale bounds. The scale multiplies raw field samples, so the defaults
// assume packed 24-bit elevations.
const (
	DefaultHeightScale float32 = 0.000002
	HeightScaleStep    float32 = 0.00000006
	MaxHeightScale     float32 = 0.000006
)

// HeightScale is the live elevation multiplier. It never leaves [0, Max].
type HeightScale struct {
	value float32
	step  float32
	max   float32
}

// NewHeightScale creates a scale starting at initial.
func NewHeightScale(initial, step, maxScale float32) *HeightScale {
	hs := &HeightScale{step: step, max: max(maxScale, 0)}
	hs.Set(initial)
	return hs
}

// DefaultHeightScaleState returns a scale with the stock constants.
func DefaultHeightScaleState() *HeightScale {
	return NewHeightScale(DefaultHeightScale, HeightScaleStep, MaxHeightScale)
}

// Value returns the current scale.
func (hs *HeightScale) Value() float32 {
	return hs.value
}

// Max returns the upper clamp bound.
func (hs *HeightScale) Max() float32 {
	return hs.max
}

// Set assigns v, clamped.
func (hs *HeightScale) Set(v float32) {
	hs.value = clampf(v, 0, hs.max)
}

// Increase adds one step.
func (hs *HeightScale) Increase() {
	hs.Set(hs.value + hs.step)
}

// Decrease subtracts one step.
func (hs *HeightScale) Decrease() {
	hs.Set(hs.value - hs.step)
}

// Displacer is the CPU twin of the tessellation evaluation stage.
type Displacer struct {
	Field *HeightField
	Scale float32

	// WorldPerUV converts a UV delta to world units along X and Z.
	WorldPerUV mgl32.Vec2

	// Offset is the finite difference step in UV. Zero means one texel.
	Offset mgl32.Vec2
}

// NewDisplacer builds a displacer matching a grid's world/UV mapping.
func NewDisplacer(field *HeightField, grid *Grid, scale float32) *Displacer {
	return &Displacer{
		Field:      field,
		Scale:      scale,
		WorldPerUV: WorldPerUV(grid.HalfExtent),
	}
}

// WorldPerUV returns the world distance covered by one UV unit. With
// x = S(2i/(N-1) - 1) and u = (i+0.5)/(N-1) that is 2S on both axes.
func WorldPerUV(halfExtent float32) mgl32.Vec2 {
	return mgl32.Vec2{2 * halfExtent, 2 * halfExtent}
}

// Height returns the displaced elevation at uv.
func (d *Displacer) Height(uv mgl32.Vec2) float32 {
	return d.Field.Sample(uv) * d.Scale
}

func (d *Displacer) offset() mgl32.Vec2 {
	if d.Offset.X() > 0 && d.Offset.Y() > 0 {
		return d.Offset
	}
	return d.Field.TexelSize()
}

// Normal reconstructs the surface normal at uv from central differences of
// displaced heights.
func (d *Displacer) Normal(uv mgl32.Vec2) mgl32.Vec3 {
	off := d.offset()
	du, dv := off.X(), off.Y()

	hL := d.Height(mgl32.Vec2{uv.X() - du, uv.Y()})
	hR := d.Height(mgl32.Vec2{uv.X() + du, uv.Y()})
	hD := d.Height(mgl32.Vec2{uv.X(), uv.Y() - dv})
	hU := d.Height(mgl32.Vec2{uv.X(), uv.Y() + dv})

	tx := mgl32.Vec3{2 * du * d.WorldPerUV.X(), hR - hL, 0}
	tz := mgl32.Vec3{0, hU - hD, 2 * dv * d.WorldPerUV.Y()}
	n := tz.Cross(tx)
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// Evaluate produces the displaced vertex at quad domain coordinates (s, t).
func (d *Displacer) Evaluate(p Patch, s, t float32) Vertex {
	pos, uv := p.Bilerp(s, t)
	pos[1] += d.Height(uv)
	return Vertex{
		Position: pos,
		Normal:   d.Normal(uv),
		UV:       uv,
	}
}

// Tessellate evaluates a patch on a uniform level x level lattice, the way
// equal_spacing quads are generated when all levels match. Used by tools and
// tests to inspect the displaced surface.
func (d *Displacer) Tessellate(p Patch, level int) []Vertex {
	level = max(level, 1)
	out := make([]Vertex, 0, (level+1)*(level+1))
	for ti := 0; ti <= level; ti++ {
		t := float32(ti) / float32(level)
		for si := 0; si <= level; si++ {
			s := float32(si) / float32(level)
			out = append(out, d.Evaluate(p, s, t))
		}
	}
	return out
}
