// Package scene draws the terrain from an orbit camera.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/control"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Config contains scene configuration options.
type Config struct {
	Width  int
	Height int
	FovY   float32
	Near   float32
	Far    float32
}

// Scene owns the camera and the terrain renderer.
type Scene struct {
	config Config

	Camera *camera.OrbitCamera
	Model  mgl32.Mat4

	terrain *TerrainRenderer
	grid    *terrain.Grid

	// Displaced bounds at the maximum height scale.
	MinBounds mgl32.Vec3
	MaxBounds mgl32.Vec3
}

// New creates a scene. The camera is fitted once terrain is attached.
func New(cfg Config) *Scene {
	cam := camera.NewOrbitCamera()
	if cfg.FovY > 0 {
		cam.FovY = cfg.FovY
	}
	if cfg.Near > 0 {
		cam.Near = cfg.Near
	}
	if cfg.Far > cam.Near {
		cam.Far = cfg.Far
	}
	cam.SetViewport(cfg.Width, cfg.Height)

	return &Scene{
		config: cfg,
		Camera: cam,
		Model:  mgl32.Ident4(),
	}
}

// SetTerrain attaches a renderer and frames the camera on it.
func (s *Scene) SetTerrain(tr *TerrainRenderer, grid *terrain.Grid, field *terrain.HeightField, hs *terrain.HeightScale) {
	s.terrain = tr
	s.grid = grid

	lo, hi := grid.Bounds()
	lo[1] = field.MinValue() * hs.Value()
	hi[1] = field.MaxValue() * hs.Max()
	s.MinBounds, s.MaxBounds = lo, hi

	fitHi := hi
	fitHi[1] = field.MaxValue() * hs.Value()
	s.Camera.FitToBounds(lo, fitHi)
}

// Resize updates the projection aspect.
func (s *Scene) Resize(width, height int) {
	s.config.Width = width
	s.config.Height = height
	s.Camera.SetViewport(width, height)
}

// Frame returns the camera state for this frame.
func (s *Scene) Frame() Frame {
	return Frame{
		Model:      s.Model,
		View:       s.Camera.ViewMatrix(),
		Projection: s.Camera.ProjectionMatrix(),
		Eye:        s.Camera.Position(),
		Viewport:   mgl32.Vec2{float32(s.config.Width), float32(s.config.Height)},
	}
}

// LODView converts the frame into what the level computation needs.
func (f Frame) LODView() terrain.View {
	return terrain.View{
		Eye:      f.Eye,
		Model:    f.Model,
		ViewProj: f.Projection.Mul4(f.View),
		Viewport: f.Viewport,
	}
}

// Stats estimates the tessellation the GPU produces this frame.
func (s *Scene) Stats(rc *control.RenderContext) terrain.LevelStats {
	if s.grid == nil {
		return terrain.LevelStats{}
	}
	if !rc.Tessellation {
		n := s.grid.Points - 1
		return terrain.LevelStats{Patches: n * n, MinLevel: 1, MaxLevel: 1, Triangles: 2 * n * n}
	}
	return rc.LOD.Stats(s.grid, s.Frame().LODView())
}

// Render draws the scene.
func (s *Scene) Render(rc *control.RenderContext) {
	if s.terrain == nil {
		return
	}
	s.terrain.Render(rc, s.Frame())
}

// Reload recompiles the terrain programs.
func (s *Scene) Reload() error {
	if s.terrain == nil {
		return nil
	}
	return s.terrain.Reload()
}

// Release frees GPU resources.
func (s *Scene) Release() {
	if s.terrain != nil {
		s.terrain.Release()
		s.terrain = nil
	}
}
