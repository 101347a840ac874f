package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// AngularDelta returns the rotation taking from to to as an axis scaled by
// the angle in radians, always along the shorter arc.
func AngularDelta(from, to mgl32.Quat) mgl32.Vec3 {
	delta := to.Normalize().Mul(from.Normalize().Conjugate())
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	w := mgl32.Clamp(delta.W, -1, 1)
	angle := 2 * float32(gomath.Acos(float64(w)))
	s := float32(gomath.Sqrt(float64(1 - w*w)))
	if s < 1e-6 || angle < 1e-6 {
		return mgl32.Vec3{}
	}
	return delta.V.Mul(angle / s)
}

// AngularVelocity returns the angular velocity (rad/s) rotating from to to over dt.
func AngularVelocity(from, to mgl32.Quat, dt float32) mgl32.Vec3 {
	if dt <= 0 {
		return mgl32.Vec3{}
	}
	return AngularDelta(from, to).Mul(1 / dt)
}

// QuatFromAngularDelta is the inverse of AngularDelta.
func QuatFromAngularDelta(delta mgl32.Vec3) mgl32.Quat {
	angle := delta.Len()
	if angle < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(angle, delta.Mul(1/angle))
}
