// Package lighting provides the directional light used to shade the terrain.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDirection is the initial light direction, pointing from the light
// into the scene: mostly along +Z, slightly downward.
var DefaultDirection = mgl32.Vec3{0, -0.15, 1}.Normalize()

// DefaultRotateStep is the rotation applied per step, in degrees.
const DefaultRotateStep float32 = 0.6

// Axes the light can be rotated about.
var (
	AxisX = mgl32.Vec3{1, 0, 0}
	AxisY = mgl32.Vec3{0, 1, 0}
)

// Directional is a light infinitely far away. The direction is kept unit length.
type Directional struct {
	dir  mgl32.Vec3
	step float32
}

// NewDirectional creates a light pointing along dir. A zero dir falls back to
// DefaultDirection; a non-positive step to DefaultRotateStep.
func NewDirectional(dir mgl32.Vec3, stepDegrees float32) *Directional {
	if dir.Len() == 0 {
		dir = DefaultDirection
	}
	if stepDegrees <= 0 {
		stepDegrees = DefaultRotateStep
	}
	return &Directional{dir: dir.Normalize(), step: stepDegrees}
}

// Direction returns the unit direction from the light into the scene.
func (l *Directional) Direction() mgl32.Vec3 {
	return l.dir
}

// Step returns the per-step rotation in degrees.
func (l *Directional) Step() float32 {
	return l.step
}

// Rotate turns the direction by degrees about axis, right-handed. The result
// is renormalized so drift never accumulates.
func (l *Directional) Rotate(axis mgl32.Vec3, degrees float32) {
	if axis.Len() == 0 || degrees == 0 {
		return
	}
	rot := mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize())
	d := rot.Mul4x1(l.dir.Vec4(0)).Vec3()
	if d.Len() == 0 {
		return
	}
	l.dir = d.Normalize()
}

// StepAbout rotates one step about axis. sign picks the direction.
func (l *Directional) StepAbout(axis mgl32.Vec3, sign float32) {
	l.Rotate(axis, l.step*sign)
}

// FromAngles converts an azimuth around Y and an elevation above the horizon,
// both in degrees, to a light direction. Elevation 90 points straight down.
func FromAngles(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(azimuth) * math.Pi / 180
	el := float64(elevation) * math.Pi / 180

	// Toward the light, then flipped to point into the scene.
	x := math.Cos(el) * math.Sin(az)
	y := math.Sin(el)
	z := math.Cos(el) * math.Cos(az)
	return mgl32.Vec3{float32(-x), float32(-y), float32(-z)}
}
