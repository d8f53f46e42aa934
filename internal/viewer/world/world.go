// Package world loads everything the viewer draws: the control grid, the
// height field and the material images.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/assets"
	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/control"
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// SourceProcedural is the Source of a generated height field.
const SourceProcedural = "procedural"

// placeholderSize is the edge length of generated material textures.
const placeholderSize = 4

// World is the CPU side of the scene.
type World struct {
	Grid      *terrain.Grid
	Field     *terrain.HeightField
	Materials [terrain.MaterialCount][terrain.ChannelCount]*texture.Image

	// Source is the height map name or SourceProcedural.
	Source string
}

// NewAssetManager creates a manager over dirs, listed highest priority
// first. Missing directories are skipped.
func NewAssetManager(dirs []string) *assets.Manager {
	m := assets.NewManager()
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := m.AddDir(dirs[i]); err != nil {
			logger.Warn("skipping asset dir", zap.String("dir", dirs[i]), zap.Error(err))
		}
	}
	return m
}

// Load builds the grid and reads or generates every image.
func Load(cfg *config.Config, m *assets.Manager) (*World, error) {
	grid, err := terrain.BuildGrid(cfg.Terrain.GridPoints, cfg.Terrain.HalfExtent)
	if err != nil {
		return nil, err
	}

	w := &World{Grid: grid}
	if err := w.loadHeightField(cfg, m); err != nil {
		return nil, err
	}
	if err := w.loadMaterials(cfg, m); err != nil {
		return nil, err
	}

	fw, fh := w.Field.Size()
	logger.Info("world loaded",
		zap.String("source", w.Source),
		zap.Int("field_width", fw),
		zap.Int("field_height", fh),
		zap.Float32("min", w.Field.MinValue()),
		zap.Float32("max", w.Field.MaxValue()),
		zap.Int("vertices", grid.VertexCount()),
	)
	return w, nil
}

func (w *World) loadHeightField(cfg *config.Config, m *assets.Manager) error {
	enc, err := cfg.Terrain.Encoding()
	if err != nil {
		return err
	}

	if cfg.Assets.Procedural.Enabled {
		p := cfg.Assets.Procedural
		w.Field, err = terrain.Generate(terrain.GenerateParams{
			Size:     p.Size,
			Seed:     p.Seed,
			Octaves:  p.Octaves,
			Encoding: enc,
		})
		if err != nil {
			return err
		}
		w.Source = SourceProcedural
		return nil
	}

	img, err := loadImage(m, cfg.Assets.HeightMap)
	if err != nil {
		return fmt.Errorf("height map: %w", err)
	}
	w.Field, err = terrain.FromImage(img, enc)
	if err != nil {
		return fmt.Errorf("height map %s: %w", cfg.Assets.HeightMap, err)
	}
	w.Source = cfg.Assets.HeightMap
	return nil
}

func (w *World) loadMaterials(cfg *config.Config, m *assets.Manager) error {
	for mat := terrain.Rock; mat < terrain.MaterialCount; mat++ {
		names := cfg.Assets.Materials.ByMaterial(mat)
		for ch := terrain.Diffuse; ch < terrain.ChannelCount; ch++ {
			name := names.Path(ch)
			if name == "" {
				w.Materials[mat][ch] = Placeholder(mat, ch)
				logger.Debug("material placeholder", zap.Stringer("material", mat), zap.Stringer("channel", ch))
				continue
			}
			img, err := loadImage(m, name)
			if err != nil {
				return fmt.Errorf("%s %s: %w", mat, ch, err)
			}
			w.Materials[mat][ch] = img
		}
	}
	return nil
}

func loadImage(m *assets.Manager, name string) (*texture.Image, error) {
	data, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	return texture.Decode(data, name)
}

// Placeholder returns a flat texture for a channel with no configured file.
func Placeholder(mat terrain.Material, ch terrain.Channel) *texture.Image {
	switch ch {
	case terrain.Specular:
		return texture.Solid(placeholderSize, placeholderSize, 24, 24, 24)
	case terrain.NormalMap:
		return texture.Solid(placeholderSize, placeholderSize, 128, 128, 255)
	}
	switch mat {
	case terrain.Grass:
		return texture.Solid(placeholderSize, placeholderSize, 72, 118, 48)
	case terrain.Snow:
		return texture.Solid(placeholderSize, placeholderSize, 236, 238, 244)
	}
	return texture.Solid(placeholderSize, placeholderSize, 118, 108, 98)
}

// HeightAt returns the displaced terrain height under world (x, z).
func (w *World) HeightAt(x, z, scale float32) float32 {
	return w.Field.Sample(w.Grid.UVAt(x, z)) * scale
}

// Displacer returns the CPU evaluator matching the GPU displacement.
func (w *World) Displacer(scale float32) *terrain.Displacer {
	return terrain.NewDisplacer(w.Field, w.Grid, scale)
}

// NewRenderContext builds the initial frame state from config.
func NewRenderContext(cfg *config.Config) (*control.RenderContext, error) {
	lod, err := cfg.Terrain.LODParams()
	if err != nil {
		return nil, err
	}

	hs := cfg.Terrain.HeightScale
	rc := control.NewRenderContext(
		lighting.NewDirectional(LightDirection(cfg.Light), cfg.Light.RotateStepDeg),
		terrain.NewHeightScale(hs.Default, hs.Step, hs.Max),
		lod,
		cfg.Terrain.BlendParams(),
	)
	rc.Tessellation = cfg.Terrain.LOD.Enabled
	return rc, nil
}

// LightDirection returns the configured direction, falling back to the
// azimuth/elevation pair when the vector is zero.
func LightDirection(lc config.LightConfig) mgl32.Vec3 {
	d := mgl32.Vec3(lc.Direction)
	if d.Len() == 0 {
		return lighting.FromAngles(lc.Azimuth, lc.Elevation)
	}
	return d.Normalize()
}
