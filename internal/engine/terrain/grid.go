package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Grid is the flat control mesh the tessellator subdivides.
// Vertex (i, j) lives at index i*Points+j, with i running along X and j along Z.
type Grid struct {
	Points     int
	HalfExtent float32

	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2

	// StripIndices draws the grid as one triangle strip per row, each row
	// terminated by RestartIndex.
	StripIndices []uint32

	// PatchIndices lists four corners per quad for GL_PATCHES.
	PatchIndices []uint32
}

// BuildGrid creates a points x points control grid spanning [-halfExtent, halfExtent]
// on X and Z.
func BuildGrid(points int, halfExtent float32) (*Grid, error) {
	if points < 2 {
		return nil, fmt.Errorf("build grid with %d points: %w", points, ErrInvalidGridSize)
	}
	if halfExtent <= 0 {
		return nil, fmt.Errorf("build grid with extent %v: %w", halfExtent, ErrInvalidExtent)
	}

	n := points
	span := float32(n - 1)
	g := &Grid{
		Points:       n,
		HalfExtent:   halfExtent,
		Positions:    make([]mgl32.Vec3, 0, n*n),
		UVs:          make([]mgl32.Vec2, 0, n*n),
		StripIndices: make([]uint32, 0, (n-1)*(2*n+1)),
		PatchIndices: make([]uint32, 0, (n-1)*(n-1)*4),
	}

	for i := range n {
		x := halfExtent * (2*float32(i)/span - 1)
		for j := range n {
			z := halfExtent * (2*float32(j)/span - 1)
			g.Positions = append(g.Positions, mgl32.Vec3{x, 0, z})
			// Half-texel offset keeps border samples off the texture edge.
			g.UVs = append(g.UVs, mgl32.Vec2{
				(float32(i) + 0.5) / span,
				(float32(j) + 0.5) / span,
			})
		}
	}

	for i := 0; i < n-1; i++ {
		for j := range n {
			top := uint32(i*n + j)
			bottom := top + uint32(n)
			g.StripIndices = append(g.StripIndices, bottom, top)
		}
		g.StripIndices = append(g.StripIndices, RestartIndex)
	}

	for i := 0; i < n-1; i++ {
		for j := 0; j < n-1; j++ {
			c0 := uint32(i*n + j)
			c1 := c0 + uint32(n)
			g.PatchIndices = append(g.PatchIndices, c0, c1, c1+1, c0+1)
		}
	}

	return g, nil
}

// VertexCount returns the number of control points.
func (g *Grid) VertexCount() int {
	return len(g.Positions)
}

// PatchCount returns the number of quads in the grid.
func (g *Grid) PatchCount() int {
	return (g.Points - 1) * (g.Points - 1)
}

// Patch returns quad (i, j), where i indexes along X and j along Z.
func (g *Grid) Patch(i, j int) (Patch, error) {
	if i < 0 || j < 0 || i >= g.Points-1 || j >= g.Points-1 {
		return Patch{}, fmt.Errorf("patch (%d, %d) in %dx%d grid: %w", i, j, g.Points-1, g.Points-1, ErrPatchOutOfRange)
	}

	base := (i*(g.Points-1) + j) * 4
	var p Patch
	for k := range 4 {
		idx := g.PatchIndices[base+k]
		p.Corners[k] = g.Positions[idx]
		p.UVs[k] = g.UVs[idx]
	}
	return p, nil
}

// Bounds returns the grid's axis-aligned extent before displacement.
func (g *Grid) Bounds() (min, max mgl32.Vec3) {
	return mgl32.Vec3{-g.HalfExtent, 0, -g.HalfExtent}, mgl32.Vec3{g.HalfExtent, 0, g.HalfExtent}
}

// UVAt returns the height map coordinate under world position (x, z), using
// the same half-texel offset as the grid vertices.
func (g *Grid) UVAt(x, z float32) mgl32.Vec2 {
	span := float32(g.Points - 1)
	return mgl32.Vec2{
		(x/g.HalfExtent+1)/2 + 0.5/span,
		(z/g.HalfExtent+1)/2 + 0.5/span,
	}
}
