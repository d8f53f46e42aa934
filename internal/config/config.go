// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-terrain/internal/control"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Terrain     TerrainConfig     `yaml:"terrain"`
	Light       LightConfig       `yaml:"light"`
	Assets      AssetsConfig      `yaml:"assets"`
	Shaders     ShadersConfig     `yaml:"shaders"`
	Controls    map[string]string `yaml:"controls"`
	Screenshots ScreenshotsConfig `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	ClearColor [3]float32 `yaml:"clear_color"`
	FOV        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
}

// TerrainConfig holds grid, height and tessellation settings.
type TerrainConfig struct {
	GridPoints     int               `yaml:"grid_points"`
	HalfExtent     float32           `yaml:"half_extent"`
	HeightScale    HeightScaleConfig `yaml:"height_scale"`
	HeightEncoding string            `yaml:"height_encoding"` // packed24 or red
	LOD            LODConfig         `yaml:"lod"`
	Blend          BlendConfig       `yaml:"blend"`
}

// HeightScaleConfig bounds the live height multiplier.
type HeightScaleConfig struct {
	Default float32 `yaml:"default"`
	Step    float32 `yaml:"step"`
	Max     float32 `yaml:"max"`
}

// LODConfig holds tessellation level settings.
type LODConfig struct {
	Enabled          bool    `yaml:"enabled"`
	Mode             string  `yaml:"mode"` // distance or screen_space
	MinLevel         float32 `yaml:"min_level"`
	MaxLevel         float32 `yaml:"max_level"`
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	TargetEdgePixels float32 `yaml:"target_edge_pixels"`
}

// BlendConfig holds material band thresholds on normalized elevation.
type BlendConfig struct {
	GrassMax   float32 `yaml:"grass_max"`
	SnowMin    float32 `yaml:"snow_min"`
	Band       float32 `yaml:"band"`
	SlopeStart float32 `yaml:"slope_start"`
	SlopeEnd   float32 `yaml:"slope_end"`
}

// LightConfig holds the directional light. A zero direction means the
// azimuth/elevation pair is used instead.
type LightConfig struct {
	Direction     [3]float32 `yaml:"direction"`
	Azimuth       float32    `yaml:"azimuth"`
	Elevation     float32    `yaml:"elevation"`
	RotateStepDeg float32    `yaml:"rotate_step_deg"`
}

// AssetsConfig holds image locations. Paths are relative to Dirs.
type AssetsConfig struct {
	Dirs       []string         `yaml:"dirs"`
	HeightMap  string           `yaml:"height_map"`
	Materials  MaterialsConfig  `yaml:"materials"`
	Procedural ProceduralConfig `yaml:"procedural"`
}

// MaterialsConfig names the texture triad of each material.
type MaterialsConfig struct {
	Rock  MaterialConfig `yaml:"rock"`
	Grass MaterialConfig `yaml:"grass"`
	Snow  MaterialConfig `yaml:"snow"`
}

// MaterialConfig names one material's textures. Empty names get a flat placeholder.
type MaterialConfig struct {
	Diffuse  string `yaml:"diffuse"`
	Specular string `yaml:"specular"`
	Normal   string `yaml:"normal"`
}

// ProceduralConfig controls the generated height field.
type ProceduralConfig struct {
	Enabled bool  `yaml:"enabled"`
	Seed    int64 `yaml:"seed"`
	Size    int   `yaml:"size"`
	Octaves int   `yaml:"octaves"`
}

// ShadersConfig holds shader source settings. An empty Dir uses the sources
// built into the binary.
type ShadersConfig struct {
	Dir string `yaml:"dir"`
}

// ScreenshotsConfig holds screenshot output settings.
type ScreenshotsConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	lod := terrain.DefaultLODParams()
	blend := terrain.DefaultBlendParams()

	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     768,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [3]float32{0.7, 0.8, 1.0},
			FOV:        45,
			Near:       0.1,
			Far:        100,
		},
		Terrain: TerrainConfig{
			GridPoints: 200,
			HalfExtent: 5,
			HeightScale: HeightScaleConfig{
				Default: terrain.DefaultHeightScale,
				Step:    terrain.HeightScaleStep,
				Max:     terrain.MaxHeightScale,
			},
			HeightEncoding: terrain.EncodingPacked24.String(),
			LOD: LODConfig{
				Enabled:          true,
				Mode:             lod.Mode.String(),
				MinLevel:         lod.MinLevel,
				MaxLevel:         lod.MaxLevel,
				Near:             lod.NearDistance,
				Far:              lod.FarDistance,
				TargetEdgePixels: lod.TargetEdgePixels,
			},
			Blend: BlendConfig{
				GrassMax:   blend.GrassMax,
				SnowMin:    blend.SnowMin,
				Band:       blend.Band,
				SlopeStart: blend.SlopeStart,
				SlopeEnd:   blend.SlopeEnd,
			},
		},
		Light: LightConfig{
			Direction:     [3]float32{0, -0.15, 1},
			RotateStepDeg: 0.6,
		},
		Assets: AssetsConfig{
			Dirs:      []string{"assets", "."},
			HeightMap: "mountains_height.bmp",
			Materials: MaterialsConfig{
				Rock:  MaterialConfig{Diffuse: "rocks.bmp", Specular: "rocks-r.bmp", Normal: "rocks-n.bmp"},
				Grass: MaterialConfig{Diffuse: "grass.bmp", Specular: "grass-r.bmp", Normal: "grass-n.bmp"},
				Snow:  MaterialConfig{Diffuse: "snow.bmp", Specular: "snow-r.bmp", Normal: "snow-n.bmp"},
			},
			Procedural: ProceduralConfig{
				Enabled: false,
				Seed:    1,
				Size:    512,
				Octaves: 6,
			},
		},
		Controls: control.DefaultKeys(),
		Screenshots: ScreenshotsConfig{
			Dir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would otherwise fail deep inside startup.
func (c *Config) Validate() error {
	var errs []error

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: window size %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.Near <= 0 || c.Graphics.Far <= c.Graphics.Near {
		errs = append(errs, fmt.Errorf("graphics: clip range [%v, %v]", c.Graphics.Near, c.Graphics.Far))
	}
	if c.Terrain.GridPoints < 2 {
		errs = append(errs, fmt.Errorf("terrain: grid_points %d: %w", c.Terrain.GridPoints, terrain.ErrInvalidGridSize))
	}
	if c.Terrain.HalfExtent <= 0 {
		errs = append(errs, fmt.Errorf("terrain: half_extent %v: %w", c.Terrain.HalfExtent, terrain.ErrInvalidExtent))
	}
	hs := c.Terrain.HeightScale
	if hs.Max < 0 || hs.Step < 0 || hs.Default < 0 || hs.Default > hs.Max {
		errs = append(errs, fmt.Errorf("terrain: height_scale default %v step %v max %v", hs.Default, hs.Step, hs.Max))
	}
	if _, err := c.Terrain.Encoding(); err != nil {
		errs = append(errs, fmt.Errorf("terrain: %w", err))
	}
	if lod, err := c.Terrain.LODParams(); err != nil {
		errs = append(errs, fmt.Errorf("terrain.lod: %w", err))
	} else if err := lod.Validate(0); err != nil {
		errs = append(errs, fmt.Errorf("terrain.lod: %w", err))
	}
	if err := c.Terrain.BlendParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("terrain.blend: %w", err))
	}
	if c.Assets.HeightMap == "" && !c.Assets.Procedural.Enabled {
		errs = append(errs, errors.New("assets: no height_map and procedural disabled"))
	}
	if c.Assets.Procedural.Enabled && c.Assets.Procedural.Size < 2 {
		errs = append(errs, fmt.Errorf("assets.procedural: size %d", c.Assets.Procedural.Size))
	}
	if _, err := control.NewBindings(c.Controls); err != nil {
		errs = append(errs, fmt.Errorf("controls: %w", err))
	}

	return errors.Join(errs...)
}

// Encoding returns the parsed height encoding.
func (t TerrainConfig) Encoding() (terrain.Encoding, error) {
	return terrain.ParseEncoding(t.HeightEncoding)
}

// LODParams converts the lod section.
func (t TerrainConfig) LODParams() (terrain.LODParams, error) {
	mode, err := terrain.ParseLODMode(t.LOD.Mode)
	if err != nil {
		return terrain.LODParams{}, err
	}
	return terrain.LODParams{
		Mode:             mode,
		MinLevel:         t.LOD.MinLevel,
		MaxLevel:         t.LOD.MaxLevel,
		NearDistance:     t.LOD.Near,
		FarDistance:      t.LOD.Far,
		TargetEdgePixels: t.LOD.TargetEdgePixels,
	}, nil
}

// BlendParams converts the blend section.
func (t TerrainConfig) BlendParams() terrain.BlendParams {
	return terrain.BlendParams{
		GrassMax:   t.Blend.GrassMax,
		SnowMin:    t.Blend.SnowMin,
		Band:       t.Blend.Band,
		SlopeStart: t.Blend.SlopeStart,
		SlopeEnd:   t.Blend.SlopeEnd,
	}
}

// ByMaterial returns the texture names of m.
func (m MaterialsConfig) ByMaterial(mat terrain.Material) MaterialConfig {
	switch mat {
	case terrain.Grass:
		return m.Grass
	case terrain.Snow:
		return m.Snow
	}
	return m.Rock
}

// Path returns the texture name of one channel.
func (m MaterialConfig) Path(ch terrain.Channel) string {
	switch ch {
	case terrain.Specular:
		return m.Specular
	case terrain.NormalMap:
		return m.Normal
	}
	return m.Diffuse
}
