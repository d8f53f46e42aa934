package terrain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func testView(eye mgl32.Vec3) View {
	proj := mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100)
	view := mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	return View{
		Eye:      eye,
		Model:    mgl32.Ident4(),
		ViewProj: proj.Mul4(view),
		Viewport: mgl32.Vec2{800, 600},
	}
}

func TestLevels_SharedEdgesMatch(t *testing.T) {
	g, err := BuildGrid(9, 5)
	if err != nil {
		t.Fatal(err)
	}

	eyes := []mgl32.Vec3{
		{0, 2, 0.3},
		{-4, 1, -4},
		{3, 6, 8},
		{0, 30, 1},
	}
	modes := []LODMode{LODDistance, LODScreenSpace}

	for _, mode := range modes {
		params := DefaultLODParams()
		params.Mode = mode

		for _, eye := range eyes {
			v := testView(eye)
			quads := g.Points - 1
			for i := range quads {
				for j := range quads {
					p, _ := g.Patch(i, j)
					l := params.Levels(p, v)

					if j+1 < quads {
						next, _ := g.Patch(i, j+1)
						nl := params.Levels(next, v)
						if l.Outer[3] != nl.Outer[1] {
							t.Errorf("%v eye %v: patch (%d,%d) v=1 edge %v != patch (%d,%d) v=0 edge %v",
								mode, eye, i, j, l.Outer[3], i, j+1, nl.Outer[1])
						}
					}
					if i+1 < quads {
						next, _ := g.Patch(i+1, j)
						nl := params.Levels(next, v)
						if l.Outer[2] != nl.Outer[0] {
							t.Errorf("%v eye %v: patch (%d,%d) u=1 edge %v != patch (%d,%d) u=0 edge %v",
								mode, eye, i, j, l.Outer[2], i+1, j, nl.Outer[0])
						}
					}
				}
			}
		}
	}
}

func TestEdgeLevel_Symmetric(t *testing.T) {
	a := mgl32.Vec3{-1.25, 0, 2.5}
	b := mgl32.Vec3{-0.625, 0, 2.5}
	for _, mode := range []LODMode{LODDistance, LODScreenSpace} {
		params := DefaultLODParams()
		params.Mode = mode
		v := testView(mgl32.Vec3{2, 3, 7})
		if ab, ba := params.EdgeLevel(a, b, v), params.EdgeLevel(b, a, v); ab != ba {
			t.Errorf("%v: EdgeLevel(a,b) = %v, EdgeLevel(b,a) = %v", mode, ab, ba)
		}
	}
}

func TestEdgeLevel_Clamped(t *testing.T) {
	params := DefaultLODParams()
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{0.1, 0, 0}

	near := params.EdgeLevel(a, b, testView(mgl32.Vec3{0.05, 0.5, 0}))
	if near != params.MaxLevel {
		t.Errorf("level at the eye = %v, want max %v", near, params.MaxLevel)
	}
	far := params.EdgeLevel(a, b, testView(mgl32.Vec3{0, 0, 500}))
	if far != params.MinLevel {
		t.Errorf("level far away = %v, want min %v", far, params.MinLevel)
	}

	screen := params
	screen.Mode = LODScreenSpace
	tiny := screen.EdgeLevel(a, mgl32.Vec3{0.0001, 0, 0}, testView(mgl32.Vec3{0, 5, 5}))
	if tiny != screen.MinLevel {
		t.Errorf("tiny projected edge level = %v, want min %v", tiny, screen.MinLevel)
	}
	huge := screen.EdgeLevel(mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{5, 0, 0}, testView(mgl32.Vec3{0, 0.5, 1}))
	if huge != screen.MaxLevel {
		t.Errorf("huge projected edge level = %v, want max %v", huge, screen.MaxLevel)
	}
}

func TestEdgeLevel_Monotonic(t *testing.T) {
	params := DefaultLODParams()
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{0.1, 0, 0}

	prev := params.MaxLevel
	for d := float32(0.5); d < 20; d += 0.5 {
		l := params.EdgeLevel(a, b, testView(mgl32.Vec3{0.05, 0, d}))
		if l > prev {
			t.Errorf("level rose from %v to %v at distance %v", prev, l, d)
		}
		if l < params.MinLevel || l > params.MaxLevel {
			t.Errorf("level %v outside [%v, %v]", l, params.MinLevel, params.MaxLevel)
		}
		prev = l
	}
}

func TestLevels_InnerFollowsOuter(t *testing.T) {
	g, _ := BuildGrid(3, 5)
	p, _ := g.Patch(0, 1)
	l := DefaultLODParams().Levels(p, testView(mgl32.Vec3{-5, 1, 0}))

	if l.Inner[0] != max(l.Outer[1], l.Outer[3]) {
		t.Errorf("Inner[0] = %v, want max of %v and %v", l.Inner[0], l.Outer[1], l.Outer[3])
	}
	if l.Inner[1] != max(l.Outer[0], l.Outer[2]) {
		t.Errorf("Inner[1] = %v, want max of %v and %v", l.Inner[1], l.Outer[0], l.Outer[2])
	}
}

func TestLODParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*LODParams)
		limit  float32
		ok     bool
	}{
		{"defaults", func(*LODParams) {}, 64, true},
		{"no hardware limit", func(p *LODParams) { p.MaxLevel = 128 }, 0, true},
		{"min below one", func(p *LODParams) { p.MinLevel = 0 }, 64, false},
		{"max below min", func(p *LODParams) { p.MaxLevel = 0.5 }, 64, false},
		{"over gpu limit", func(p *LODParams) { p.MaxLevel = 128 }, 64, false},
		{"far before near", func(p *LODParams) { p.FarDistance = p.NearDistance }, 64, false},
		{"screen without target", func(p *LODParams) { p.Mode = LODScreenSpace; p.TargetEdgePixels = 0 }, 64, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultLODParams()
			tt.modify(&p)
			err := p.Validate(tt.limit)
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidLODParams) {
				t.Errorf("Validate() = %v, want ErrInvalidLODParams", err)
			}
		})
	}
}

func TestParseLODMode(t *testing.T) {
	for in, want := range map[string]LODMode{
		"":             LODDistance,
		"distance":     LODDistance,
		"screen":       LODScreenSpace,
		"screen_space": LODScreenSpace,
	} {
		got, err := ParseLODMode(in)
		if err != nil || got != want {
			t.Errorf("ParseLODMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLODMode("pixels"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestStats(t *testing.T) {
	g, err := BuildGrid(5, 5)
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultLODParams()

	// Far away every edge sits at the minimum level.
	far := p.Stats(g, testView(mgl32.Vec3{0, 60, 10}))
	if far.Patches != 16 {
		t.Errorf("patches = %d, want 16", far.Patches)
	}
	if far.MinLevel != p.MinLevel || far.MaxLevel != p.MinLevel {
		t.Errorf("far levels = [%v, %v], want all %v", far.MinLevel, far.MaxLevel, p.MinLevel)
	}
	if far.Triangles != 32 {
		t.Errorf("far triangles = %d, want 32", far.Triangles)
	}

	near := p.Stats(g, testView(mgl32.Vec3{0, 1, 0.5}))
	if near.MaxLevel <= far.MaxLevel || near.Triangles <= far.Triangles {
		t.Errorf("close view %+v should tessellate more than far view %+v", near, far)
	}
}
