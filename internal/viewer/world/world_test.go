package world

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func noMaterials(cfg *config.Config) {
	cfg.Assets.Materials = config.MaterialsConfig{}
}

func writeBMP(t *testing.T, path string, w, h int, at func(x, y int) color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, at(x, y))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Procedural(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.GridPoints = 5
	cfg.Assets.Procedural = config.ProceduralConfig{Enabled: true, Seed: 3, Size: 16, Octaves: 2}
	noMaterials(cfg)

	w, err := Load(cfg, assets.NewManager())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w.Source != SourceProcedural {
		t.Errorf("Source = %q", w.Source)
	}
	if fw, fh := w.Field.Size(); fw != 16 || fh != 16 {
		t.Errorf("field size = %dx%d, want 16x16", fw, fh)
	}
	if w.Grid.Points != 5 {
		t.Errorf("grid points = %d", w.Grid.Points)
	}

	for m := terrain.Rock; m < terrain.MaterialCount; m++ {
		for c := terrain.Diffuse; c < terrain.ChannelCount; c++ {
			if err := w.Materials[m][c].Validate(); err != nil {
				t.Errorf("%v %v placeholder: %v", m, c, err)
			}
		}
	}
	if r, g, b := w.Materials[terrain.Snow][terrain.NormalMap].RGB(0, 0); r != 128 || g != 128 || b != 255 {
		t.Errorf("normal placeholder = (%d, %d, %d), want flat (128, 128, 255)", r, g, b)
	}
}

func TestLoad_HeightMapFromDirs(t *testing.T) {
	low := t.TempDir()
	high := t.TempDir()

	// Packed elevation x*256 along X, identical rows.
	writeBMP(t, filepath.Join(high, "hills.bmp"), 4, 2, func(x, y int) color.RGBA {
		return color.RGBA{0, uint8(x), 0, 255}
	})
	writeBMP(t, filepath.Join(low, "rock.bmp"), 2, 2, func(x, y int) color.RGBA {
		return color.RGBA{90, 80, 70, 255}
	})

	cfg := config.Default()
	cfg.Terrain.GridPoints = 3
	cfg.Assets.Dirs = []string{high, low, filepath.Join(low, "missing")}
	cfg.Assets.HeightMap = "hills.bmp"
	noMaterials(cfg)
	cfg.Assets.Materials.Rock.Diffuse = "rock.bmp"

	w, err := Load(cfg, NewAssetManager(cfg.Assets.Dirs))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w.Source != "hills.bmp" {
		t.Errorf("Source = %q", w.Source)
	}
	if w.Field.MinValue() != 0 || w.Field.MaxValue() != 3*256 {
		t.Errorf("field range = [%v, %v], want [0, 768]", w.Field.MinValue(), w.Field.MaxValue())
	}
	if r, _, _ := w.Materials[terrain.Rock][terrain.Diffuse].RGB(1, 1); r != 90 {
		t.Errorf("rock diffuse red = %d, want 90", r)
	}

	// Right edge of the terrain samples the last column.
	if got := w.HeightAt(cfg.Terrain.HalfExtent, 0, 1); got != 768 {
		t.Errorf("HeightAt(right edge) = %v, want 768", got)
	}
	// The left edge sits half a texel in, between columns 0 and 1.
	d := w.Displacer(0.01)
	if got := d.Height(w.Grid.UVAt(-cfg.Terrain.HalfExtent, 0)); got < 1.2799 || got > 1.2801 {
		t.Errorf("Displacer height at left edge = %v, want 1.28", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.bmp"), []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name:    "missing height map",
			modify:  func(c *config.Config) { c.Assets.HeightMap = "nope.bmp" },
			wantErr: assets.ErrNotFound,
		},
		{
			name:   "undecodable height map",
			modify: func(c *config.Config) { c.Assets.HeightMap = "broken.bmp" },
		},
		{
			name: "missing material",
			modify: func(c *config.Config) {
				c.Assets.Procedural = config.ProceduralConfig{Enabled: true, Size: 8, Octaves: 1}
				c.Assets.Materials.Grass.Specular = "gone.bmp"
			},
			wantErr: assets.ErrNotFound,
		},
		{
			name:    "bad grid",
			modify:  func(c *config.Config) { c.Terrain.GridPoints = 1 },
			wantErr: terrain.ErrInvalidGridSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Terrain.GridPoints = 3
			noMaterials(cfg)
			tt.modify(cfg)

			_, err := Load(cfg, NewAssetManager([]string{dir}))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRenderContext(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.LOD.Enabled = false
	cfg.Terrain.LOD.Mode = "screen_space"

	rc, err := NewRenderContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rc.Tessellation {
		t.Error("tessellation should follow lod.enabled")
	}
	if rc.LOD.Mode != terrain.LODScreenSpace {
		t.Errorf("LOD mode = %v", rc.LOD.Mode)
	}
	if rc.HeightScale.Value() != cfg.Terrain.HeightScale.Default {
		t.Errorf("height scale = %v", rc.HeightScale.Value())
	}
	if rc.Light.Step() != cfg.Light.RotateStepDeg {
		t.Errorf("light step = %v", rc.Light.Step())
	}

	cfg.Terrain.LOD.Mode = "bogus"
	if _, err := NewRenderContext(cfg); err == nil {
		t.Error("expected error for unknown LOD mode")
	}
}

func TestLightDirection(t *testing.T) {
	got := LightDirection(config.LightConfig{Direction: [3]float32{0, -3, 4}})
	if got.Sub(mgl32.Vec3{0, -0.6, 0.8}).Len() > 1e-6 {
		t.Errorf("normalized direction = %v", got)
	}

	lc := config.LightConfig{Azimuth: 30, Elevation: 45}
	want := lighting.FromAngles(30, 45)
	if got := LightDirection(lc); got.Sub(want).Len() > 1e-6 {
		t.Errorf("angle direction = %v, want %v", got, want)
	}
}

func TestProbe(t *testing.T) {
	grid, err := terrain.BuildGrid(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	samples := make([]float32, 16)
	for i := range samples {
		samples[i] = 1000
	}
	field, err := terrain.NewHeightField(4, 4, samples, terrain.EncodingPacked24)
	if err != nil {
		t.Fatal(err)
	}
	w := &World{Grid: grid, Field: field}
	blend := terrain.DefaultBlendParams()

	down := picking.Ray{Origin: mgl32.Vec3{0.25, 10, -0.5}, Direction: mgl32.Vec3{0, -1, 0}}
	p, ok := w.Probe(down, 0.001, blend)
	if !ok {
		t.Fatal("probe straight down should hit")
	}
	if d := p.Position.Sub(mgl32.Vec3{0.25, 1, -0.5}).Len(); d > 1e-4 {
		t.Errorf("position = %v, want (0.25, 1, -0.5)", p.Position)
	}
	if d := p.UV.Sub(mgl32.Vec2{0.75, 0.375}).Len(); d > 1e-5 {
		t.Errorf("uv = %v, want (0.75, 0.375)", p.UV)
	}
	if d := p.Normal.Sub(mgl32.Vec3{0, 1, 0}).Len(); d > 1e-5 {
		t.Errorf("normal = %v, want up", p.Normal)
	}
	// A flat field normalizes to 0, which is grass on level ground.
	if p.Elevation != 0 || p.Weights.Dominant() != terrain.Grass {
		t.Errorf("elevation %v dominant %v, want 0 and grass", p.Elevation, p.Weights.Dominant())
	}

	up := picking.Ray{Origin: mgl32.Vec3{0, 10, 0}, Direction: mgl32.Vec3{0, 1, 0}}
	if _, ok := w.Probe(up, 0.001, blend); ok {
		t.Error("probe pointing away should miss")
	}
	outside := picking.Ray{Origin: mgl32.Vec3{5, 10, 0}, Direction: mgl32.Vec3{0, -1, 0}}
	if _, ok := w.Probe(outside, 0.001, blend); ok {
		t.Error("probe beside the terrain should miss")
	}
}
