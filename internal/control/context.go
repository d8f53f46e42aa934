package control

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/lighting"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// RenderContext is the state shared between the input step and the draw step
// of a frame. Only Update writes it; the renderer reads it.
type RenderContext struct {
	Light       *lighting.Directional
	HeightScale *terrain.HeightScale

	LOD          terrain.LODParams
	Tessellation bool
	Blend        terrain.BlendParams

	Wireframe bool

	reload     bool
	screenshot bool
	quit       bool
}

// NewRenderContext creates a context with tessellation on and fill mode.
func NewRenderContext(light *lighting.Directional, hs *terrain.HeightScale, lod terrain.LODParams, blend terrain.BlendParams) *RenderContext {
	return &RenderContext{
		Light:        light,
		HeightScale:  hs,
		LOD:          lod,
		Tessellation: true,
		Blend:        blend,
	}
}

// Changes reports what an Update modified, so callers only log or re-upload
// what moved.
type Changes struct {
	Light       bool
	HeightScale bool
	Wireframe   bool
	LOD         bool
}

// Any reports whether anything changed.
func (c Changes) Any() bool {
	return c.Light || c.HeightScale || c.Wireframe || c.LOD
}

// Update applies one frame of input. Toggles and one-shot requests react to
// key presses; light rotation and height scale step once per frame while
// their keys are held.
func (rc *RenderContext) Update(s ActionSet) Changes {
	var ch Changes

	if s.Pressed(ActionToggleWireframe) {
		rc.Wireframe = !rc.Wireframe
		ch.Wireframe = true
	}
	if s.Pressed(ActionToggleLODMode) {
		if rc.LOD.Mode == terrain.LODDistance {
			rc.LOD.Mode = terrain.LODScreenSpace
		} else {
			rc.LOD.Mode = terrain.LODDistance
		}
		ch.LOD = true
	}
	if s.Pressed(ActionToggleTessellation) {
		rc.Tessellation = !rc.Tessellation
		ch.LOD = true
	}
	if s.Pressed(ActionReloadShaders) {
		rc.reload = true
	}
	if s.Pressed(ActionScreenshot) {
		rc.screenshot = true
	}
	if s.Pressed(ActionQuit) {
		rc.quit = true
	}

	if pitch := s.Axis(ActionLightPitchUp, ActionLightPitchDown); pitch != 0 {
		rc.Light.StepAbout(lighting.AxisX, pitch)
		ch.Light = true
	}
	if yaw := s.Axis(ActionLightYawLeft, ActionLightYawRight); yaw != 0 {
		rc.Light.StepAbout(lighting.AxisY, yaw)
		ch.Light = true
	}

	switch s.Axis(ActionHeightUp, ActionHeightDown) {
	case 1:
		rc.HeightScale.Increase()
		ch.HeightScale = true
	case -1:
		rc.HeightScale.Decrease()
		ch.HeightScale = true
	}

	return ch
}

// TakeReload returns and clears a pending shader reload request.
func (rc *RenderContext) TakeReload() bool {
	r := rc.reload
	rc.reload = false
	return r
}

// TakeScreenshot returns and clears a pending screenshot request.
func (rc *RenderContext) TakeScreenshot() bool {
	r := rc.screenshot
	rc.screenshot = false
	return r
}

// RequestQuit asks the frame loop to stop.
func (rc *RenderContext) RequestQuit() {
	rc.quit = true
}

// QuitRequested reports whether the frame loop should stop.
func (rc *RenderContext) QuitRequested() bool {
	return rc.quit
}
