package terrain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBuildGrid_Counts(t *testing.T) {
	tests := []struct {
		points int
	}{
		{2}, {3}, {7}, {200},
	}

	for _, tt := range tests {
		g, err := BuildGrid(tt.points, 5)
		if err != nil {
			t.Fatalf("BuildGrid(%d) failed: %v", tt.points, err)
		}
		n := tt.points

		if got, want := g.VertexCount(), n*n; got != want {
			t.Errorf("N=%d: vertex count = %d, want %d", n, got, want)
		}
		if got, want := len(g.UVs), n*n; got != want {
			t.Errorf("N=%d: uv count = %d, want %d", n, got, want)
		}
		if got, want := len(g.StripIndices), (n-1)*(2*n+1); got != want {
			t.Errorf("N=%d: strip index count = %d, want %d", n, got, want)
		}
		if got, want := len(g.PatchIndices), 4*(n-1)*(n-1); got != want {
			t.Errorf("N=%d: patch index count = %d, want %d", n, got, want)
		}
		if got, want := g.PatchCount(), (n-1)*(n-1); got != want {
			t.Errorf("N=%d: patch count = %d, want %d", n, got, want)
		}
	}
}

func TestBuildGrid_InvalidInput(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		if _, err := BuildGrid(n, 5); !errors.Is(err, ErrInvalidGridSize) {
			t.Errorf("BuildGrid(%d) error = %v, want ErrInvalidGridSize", n, err)
		}
	}
	if _, err := BuildGrid(4, 0); !errors.Is(err, ErrInvalidExtent) {
		t.Errorf("BuildGrid(4, 0) error = %v, want ErrInvalidExtent", err)
	}
}

func TestBuildGrid_PositionsAndUVs(t *testing.T) {
	g, err := BuildGrid(5, 2)
	if err != nil {
		t.Fatal(err)
	}

	first := g.Positions[0]
	if first != (mgl32.Vec3{-2, 0, -2}) {
		t.Errorf("first vertex = %v, want (-2, 0, -2)", first)
	}
	last := g.Positions[len(g.Positions)-1]
	if last != (mgl32.Vec3{2, 0, 2}) {
		t.Errorf("last vertex = %v, want (2, 0, 2)", last)
	}

	// i=1, j=3 on a 5 point grid.
	p := g.Positions[1*5+3]
	if !near3(p, mgl32.Vec3{-1, 0, 1}, 1e-6) {
		t.Errorf("vertex (1,3) = %v, want (-1, 0, 1)", p)
	}
	uv := g.UVs[1*5+3]
	if !near2(uv, mgl32.Vec2{1.5 / 4, 3.5 / 4}, 1e-6) {
		t.Errorf("uv (1,3) = %v, want (0.375, 0.875)", uv)
	}

	for i, pos := range g.Positions {
		if pos.Y() != 0 {
			t.Fatalf("vertex %d has y=%v, want flat grid", i, pos.Y())
		}
	}
}

func TestBuildGrid_RestartSentinels(t *testing.T) {
	n := 6
	g, err := BuildGrid(n, 5)
	if err != nil {
		t.Fatal(err)
	}

	run := 0
	restarts := 0
	for k, idx := range g.StripIndices {
		if idx != RestartIndex {
			if int(idx) >= g.VertexCount() {
				t.Fatalf("index %d at %d addresses no vertex", idx, k)
			}
			run++
			continue
		}
		restarts++
		if run < 2 {
			t.Errorf("restart at %d follows %d data indices, want at least 2", k, run)
		}
		if run != 2*n {
			t.Errorf("row before restart at %d has %d indices, want %d", k, run, 2*n)
		}
		run = 0
	}
	if restarts != n-1 {
		t.Errorf("restart count = %d, want %d", restarts, n-1)
	}
	if g.StripIndices[len(g.StripIndices)-1] != RestartIndex {
		t.Error("strip indices should end with a restart sentinel")
	}
}

func TestBuildGrid_StripTrianglesStayInRow(t *testing.T) {
	n := 5
	g, err := BuildGrid(n, 5)
	if err != nil {
		t.Fatal(err)
	}

	row := 0
	start := 0
	for k, idx := range g.StripIndices {
		if idx != RestartIndex {
			continue
		}
		strip := g.StripIndices[start:k]
		for a := 0; a+2 < len(strip); a++ {
			tri := strip[a : a+3]
			if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
				t.Errorf("row %d: degenerate triangle %v", row, tri)
			}
			for _, v := range tri {
				r := int(v) / n
				if r != row && r != row+1 {
					t.Errorf("row %d: triangle %v reaches grid row %d", row, tri, r)
				}
			}
		}
		row++
		start = k + 1
	}
}

func TestBuildGrid_FirstStripTriangleFacesUp(t *testing.T) {
	g, err := BuildGrid(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	a := g.Positions[g.StripIndices[0]]
	b := g.Positions[g.StripIndices[1]]
	c := g.Positions[g.StripIndices[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Y() <= 0 {
		t.Errorf("first strip triangle normal = %v, want +Y", n)
	}
}

func TestGridPatch(t *testing.T) {
	g, err := BuildGrid(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	p, err := g.Patch(1, 2)
	if err != nil {
		t.Fatalf("Patch(1, 2) failed: %v", err)
	}
	want := [4]mgl32.Vec3{
		g.Positions[1*4+2],
		g.Positions[2*4+2],
		g.Positions[2*4+3],
		g.Positions[1*4+3],
	}
	if p.Corners != want {
		t.Errorf("Patch(1, 2) corners = %v, want %v", p.Corners, want)
	}

	pos, uv := p.Bilerp(1, 1)
	if !near3(pos, want[2], 1e-6) || !near2(uv, g.UVs[2*4+3], 1e-6) {
		t.Errorf("Bilerp(1, 1) = %v %v, want corner 2", pos, uv)
	}

	for _, ij := range [][2]int{{-1, 0}, {0, 3}, {3, 0}} {
		if _, err := g.Patch(ij[0], ij[1]); !errors.Is(err, ErrPatchOutOfRange) {
			t.Errorf("Patch(%d, %d) error = %v, want ErrPatchOutOfRange", ij[0], ij[1], err)
		}
	}
}

func TestGridUVAt_MatchesVertices(t *testing.T) {
	g, err := BuildGrid(7, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	for k, p := range g.Positions {
		if got := g.UVAt(p.X(), p.Z()); !near2(got, g.UVs[k], 1e-5) {
			t.Fatalf("UVAt(%v, %v) = %v, want %v", p.X(), p.Z(), got, g.UVs[k])
		}
	}
}
