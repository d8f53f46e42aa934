package terrain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LODMode selects the metric the tessellation control stage uses.
type LODMode int

const (
	// LODDistance falls off linearly with edge midpoint distance to the eye.
	LODDistance LODMode = iota
	// LODScreenSpace keeps projected edge segments near TargetEdgePixels long.
	LODScreenSpace
)

// ParseLODMode converts a config name to a LODMode.
func ParseLODMode(name string) (LODMode, error) {
	switch name {
	case "", "distance":
		return LODDistance, nil
	case "screen", "screen_space":
		return LODScreenSpace, nil
	}
	return 0, fmt.Errorf("unknown lod mode %q", name)
}

func (m LODMode) String() string {
	if m == LODScreenSpace {
		return "screen_space"
	}
	return "distance"
}

// LODParams are the tessellation control uniforms.
type LODParams struct {
	Mode             LODMode
	MinLevel         float32
	MaxLevel         float32
	NearDistance     float32
	FarDistance      float32
	TargetEdgePixels float32
}

// DefaultLODParams returns parameters tuned for a grid of half extent 5.
func DefaultLODParams() LODParams {
	return LODParams{
		Mode:             LODDistance,
		MinLevel:         1,
		MaxLevel:         16,
		NearDistance:     1,
		FarDistance:      12,
		TargetEdgePixels: 12,
	}
}

// Validate checks the parameters against each other and the hardware limit.
// A maxSupported of zero skips the hardware check.
func (p LODParams) Validate(maxSupported float32) error {
	switch {
	case p.MinLevel < 1:
		return fmt.Errorf("min level %v below 1: %w", p.MinLevel, ErrInvalidLODParams)
	case p.MaxLevel < p.MinLevel:
		return fmt.Errorf("max level %v below min level %v: %w", p.MaxLevel, p.MinLevel, ErrInvalidLODParams)
	case maxSupported > 0 && p.MaxLevel > maxSupported:
		return fmt.Errorf("max level %v exceeds GPU limit %v: %w", p.MaxLevel, maxSupported, ErrInvalidLODParams)
	case p.FarDistance <= p.NearDistance:
		return fmt.Errorf("far distance %v not beyond near %v: %w", p.FarDistance, p.NearDistance, ErrInvalidLODParams)
	case p.Mode == LODScreenSpace && p.TargetEdgePixels <= 0:
		return fmt.Errorf("target edge pixels %v: %w", p.TargetEdgePixels, ErrInvalidLODParams)
	}
	return nil
}

// View carries the per-frame camera state the control stage needs.
type View struct {
	Eye      mgl32.Vec3
	Model    mgl32.Mat4
	ViewProj mgl32.Mat4
	Viewport mgl32.Vec2
}

// PatchLevels are the outer and inner tessellation levels of one quad patch,
// laid out like gl_TessLevelOuter and gl_TessLevelInner.
type PatchLevels struct {
	Outer [4]float32
	Inner [2]float32
}

// EdgeLevel returns the subdivision count for the edge a-b (model space).
// The result depends only on the unordered pair {a, b}, so two patches sharing
// an edge always agree and no T-junctions appear.
func (p LODParams) EdgeLevel(a, b mgl32.Vec3, v View) float32 {
	wa := v.Model.Mul4x1(a.Vec4(1)).Vec3()
	wb := v.Model.Mul4x1(b.Vec4(1)).Vec3()

	var level float32
	switch p.Mode {
	case LODScreenSpace:
		level = p.screenLevel(wa, wb, v)
	default:
		mid := wa.Add(wb).Mul(0.5)
		d := mid.Sub(v.Eye).Len()
		t := clampf((d-p.NearDistance)/(p.FarDistance-p.NearDistance), 0, 1)
		level = mixf(p.MaxLevel, p.MinLevel, t)
	}

	return clampf(float32(math.Round(float64(level))), p.MinLevel, p.MaxLevel)
}

func (p LODParams) screenLevel(wa, wb mgl32.Vec3, v View) float32 {
	ca := v.ViewProj.Mul4x1(wa.Vec4(1))
	cb := v.ViewProj.Mul4x1(wb.Vec4(1))
	if ca.W() <= 0 || cb.W() <= 0 {
		return p.MaxLevel
	}

	sa := mgl32.Vec2{ca.X() / ca.W(), ca.Y() / ca.W()}
	sb := mgl32.Vec2{cb.X() / cb.W(), cb.Y() / cb.W()}
	d := sa.Sub(sb)
	pixels := mgl32.Vec2{d.X() * 0.5 * v.Viewport.X(), d.Y() * 0.5 * v.Viewport.Y()}.Len()
	return pixels / p.TargetEdgePixels
}

// Levels computes all tessellation levels of a patch.
func (p LODParams) Levels(patch Patch, v View) PatchLevels {
	c := patch.Corners
	var l PatchLevels
	l.Outer[0] = p.EdgeLevel(c[0], c[3], v)
	l.Outer[1] = p.EdgeLevel(c[0], c[1], v)
	l.Outer[2] = p.EdgeLevel(c[1], c[2], v)
	l.Outer[3] = p.EdgeLevel(c[3], c[2], v)
	l.Inner[0] = max(l.Outer[1], l.Outer[3])
	l.Inner[1] = max(l.Outer[0], l.Outer[2])
	return l
}

// LevelStats summarizes the tessellation of a whole grid for one view.
type LevelStats struct {
	Patches   int
	MinLevel  float32
	MaxLevel  float32
	Triangles int
}

// Stats evaluates every patch of g. Triangle counts are approximate: each
// patch contributes two triangles per inner cell.
func (p LODParams) Stats(g *Grid, v View) LevelStats {
	st := LevelStats{MinLevel: p.MaxLevel, MaxLevel: p.MinLevel}
	n := g.Points - 1
	for i := range n {
		for j := range n {
			patch, err := g.Patch(i, j)
			if err != nil {
				continue
			}
			l := p.Levels(patch, v)
			st.Patches++
			for _, o := range l.Outer {
				st.MinLevel = min(st.MinLevel, o)
				st.MaxLevel = max(st.MaxLevel, o)
			}
			st.Triangles += 2 * int(l.Inner[0]) * int(l.Inner[1])
		}
	}
	if st.Patches == 0 {
		st.MinLevel, st.MaxLevel = 0, 0
	}
	return st
}
