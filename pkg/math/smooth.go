package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SmoothVec3 blends current toward target at rate*dt, then closes a further
// tighten fraction of the remaining gap.
func SmoothVec3(current, target mgl32.Vec3, rate, tighten, dt float32) mgl32.Vec3 {
	blended := LerpVec3(current, target, mgl32.Clamp(rate*dt, 0, 1))
	return LerpVec3(blended, target, mgl32.Clamp(tighten, 0, 1))
}

// SmoothQuat is the rotational counterpart of SmoothVec3.
func SmoothQuat(current, target mgl32.Quat, rate, tighten, dt float32) mgl32.Quat {
	blended := mgl32.QuatSlerp(current, target, mgl32.Clamp(rate*dt, 0, 1))
	return mgl32.QuatSlerp(blended, target, mgl32.Clamp(tighten, 0, 1))
}
