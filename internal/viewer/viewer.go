// Package viewer implements the terrain viewer's frame loop.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/control"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/input"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/renderer"
	"github.com/Faultbox/midgard-terrain/internal/engine/scene"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/window"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/internal/viewer/world"
)

const title = "Midgard Terrain"

// Viewer is the running application.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	scene    *scene.Scene

	world    *world.World
	rc       *control.RenderContext
	bindings *control.Bindings
	shots    *debug.ScreenshotCapture

	log *zap.Logger
}

// New loads the world and opens the window.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		log:    logger.Named("viewer"),
	}

	// Everything that can fail without a GL context runs first.
	var err error
	v.bindings, err = control.NewBindings(cfg.Controls)
	if err != nil {
		return nil, fmt.Errorf("key bindings: %w", err)
	}
	v.rc, err = world.NewRenderContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("render context: %w", err)
	}
	v.world, err = world.Load(cfg, world.NewAssetManager(cfg.Assets.Dirs))
	if err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}
	loader, err := shader.NewLoader(cfg.Shaders.Dir)
	if err != nil {
		return nil, fmt.Errorf("shader loader: %w", err)
	}

	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Drawable size differs from window size on high-DPI displays.
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Graphics.ClearColor,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if err := v.rc.LOD.Validate(v.renderer.MaxTessLevel()); err != nil {
		v.Close()
		return nil, err
	}

	tr, err := scene.NewTerrainRenderer(v.world.Grid, v.world.Field, v.world.Materials, loader)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create terrain renderer: %w", err)
	}
	v.scene = scene.New(scene.Config{
		Width:  width,
		Height: height,
		FovY:   cfg.Graphics.FOV,
		Near:   cfg.Graphics.Near,
		Far:    cfg.Graphics.Far,
	})
	v.scene.SetTerrain(tr, v.world.Grid, v.world.Field, v.rc.HeightScale)

	v.input = input.New()
	v.shots = debug.NewScreenshotCapture(cfg.Screenshots.Dir, "terrain")

	v.log.Info("viewer initialized",
		zap.String("height_map", v.world.Source),
		zap.Int("patches", v.world.Grid.PatchCount()),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("max_tess_level", v.renderer.MaxTessLevel()),
	)
	return v, nil
}

// Run starts the frame loop and returns when the window closes or quit is
// requested.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		// 1. Input
		if v.input.Update() {
			v.running = false
			break
		}
		if resized, _, _ := v.input.Resized(); resized {
			v.resize()
		}

		// 2. Update
		v.update()
		if v.rc.QuitRequested() {
			v.running = false
			break
		}

		// 3. Render
		v.renderer.SetWireframe(v.rc.Wireframe)
		v.renderer.Begin()
		v.scene.Render(v.rc)

		// Read back before the swap invalidates the back buffer.
		if v.rc.TakeScreenshot() {
			v.screenshot()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			status := v.rc.StatusLine(frameCount, v.scene.Stats(v.rc))
			v.window.SetTitle(title + " | " + status)
			v.log.Debug("frame stats", zap.String("status", status))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// update applies this frame's input to the render context and camera.
func (v *Viewer) update() {
	actions := v.bindings.Resolve(v.input.Pressed(), v.input.Held())
	changes := v.rc.Update(actions)

	cam := v.scene.Camera
	if dx, dy := v.input.Drag(); dx != 0 || dy != 0 {
		cam.HandleDrag(dx, dy)
	}
	if w := v.input.Wheel(); w != 0 {
		cam.HandleZoom(w)
	}

	forward := actions.Axis(control.ActionPanForward, control.ActionPanBack)
	right := actions.Axis(control.ActionPanRight, control.ActionPanLeft)
	if forward != 0 || right != 0 {
		cam.HandleMovement(forward, right, 0)
	}
	// Keep the orbit center on the surface.
	if forward != 0 || right != 0 || changes.HeightScale {
		c := cam.Center
		cam.Center[1] = v.world.HeightAt(c.X(), c.Z(), v.rc.HeightScale.Value())
	}

	if ok, x, y := v.input.Click(); ok {
		v.probe(x, y)
	}

	if changes.Any() {
		v.log.Debug("render state changed",
			zap.Bool("wireframe", v.rc.Wireframe),
			zap.Bool("tessellation", v.rc.Tessellation),
			zap.Stringer("lod_mode", v.rc.LOD.Mode),
			zap.Float32("height_scale", v.rc.HeightScale.Value()),
			zap.Any("light_dir", v.rc.Light.Direction()),
		)
	}

	if v.rc.TakeReload() {
		if err := v.scene.Reload(); err != nil {
			v.log.Warn("shader reload failed, keeping previous programs", zap.Error(err))
		} else {
			v.log.Info("shaders reloaded")
		}
	}
}

func (v *Viewer) resize() {
	width, height := v.window.DrawableSize()
	if width <= 0 || height <= 0 {
		return
	}
	v.renderer.Resize(width, height)
	v.scene.Resize(width, height)
	v.log.Debug("resized", zap.Int("width", width), zap.Int("height", height))
}

// probe logs the terrain under a window position.
func (v *Viewer) probe(x, y float32) {
	ww, wh := v.window.GetSize()
	dw, dh := v.window.DrawableSize()
	if ww <= 0 || wh <= 0 {
		return
	}
	x *= float32(dw) / float32(ww)
	y *= float32(dh) / float32(wh)

	inv := v.scene.Camera.ViewProjection().Inv()
	ray := picking.ScreenToRay(x, y, float32(dw), float32(dh), inv)
	p, ok := v.world.Probe(ray, v.rc.HeightScale.Value(), v.rc.Blend)
	if !ok {
		v.log.Info("probe missed terrain")
		return
	}
	v.log.Info("probe",
		zap.Any("position", p.Position),
		zap.Any("uv", p.UV),
		zap.Float32("elevation", p.Elevation),
		zap.Stringer("material", p.Weights.Dominant()),
		zap.Any("weights", p.Weights),
	)
}

func (v *Viewer) screenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.shots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases resources in reverse order of creation.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.scene != nil {
		v.scene.Release()
		v.scene = nil
	}
	if v.renderer != nil {
		v.renderer.Close()
		v.renderer = nil
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
