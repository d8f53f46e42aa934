// Package picking provides ray casting against boxes and height fields.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// bisectSteps refines a surface crossing to 1/2^n of the march step.
const bisectSteps = 20

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates with the origin at the top left.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	nearWorld := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	farWorld := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})

	origin := perspectiveDivide(nearWorld)
	dir := perspectiveDivide(farWorld).Sub(origin)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: origin, Direction: dir}
}

func perspectiveDivide(v mgl32.Vec4) mgl32.Vec3 {
	if v[3] != 0 {
		return v.Vec3().Mul(1 / v[3])
	}
	return v.Vec3()
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if math.Abs(float64(r.Direction[1])) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, 0, false // Intersection behind ray origin
	}
	p := r.At(t)
	return p[0], p[2], true
}

// IntersectAABB returns the distances at which the ray enters and leaves box.
// A ray starting inside the box enters at 0.
func (r Ray) IntersectAABB(box AABB) (enter, exit float32, hit bool) {
	enter = -math.MaxFloat32
	exit = math.MaxFloat32

	for axis := range 3 {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		enter = max(enter, t1)
		exit = min(exit, t2)
	}

	if exit < enter || exit < 0 {
		return 0, 0, false
	}
	return max(enter, 0), exit, true
}

// HeightFunc returns the surface height under world (x, z).
type HeightFunc func(x, z float32) float32

// IntersectHeight marches the ray through box in fixed steps and returns the
// first point at or below the surface. The crossing is refined by bisection.
// box must enclose the surface for the part of the ray that matters.
func (r Ray) IntersectHeight(box AABB, height HeightFunc, step float32) (mgl32.Vec3, bool) {
	enter, exit, ok := r.IntersectAABB(box)
	if !ok || step <= 0 {
		return mgl32.Vec3{}, false
	}

	above := func(t float32) bool {
		p := r.At(t)
		return p[1] > height(p[0], p[2])
	}
	if !above(enter) {
		return r.At(enter), true
	}

	prev := enter
	for t := enter + step; ; t += step {
		t = min(t, exit)
		if !above(t) {
			lo, hi := prev, t
			for range bisectSteps {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		if t >= exit {
			return mgl32.Vec3{}, false
		}
		prev = t
	}
}
