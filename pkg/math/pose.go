// Package math provides pose, curve and rotation helpers built on mgl32.
package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Axis conventions: right-handed, Y up, -Z forward.
var (
	Up      = mgl32.Vec3{0, 1, 0}
	Forward = mgl32.Vec3{0, 0, -1}
	Right   = mgl32.Vec3{1, 0, 0}
)

// Pose is a rigid transform (no scale).
// A zero Rotation is treated as identity so the zero Pose is usable.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// PoseIdentity returns the identity pose.
func PoseIdentity() Pose {
	return Pose{Rotation: mgl32.QuatIdent()}
}

// NewPose creates a pose from a position and rotation.
func NewPose(pos mgl32.Vec3, rot mgl32.Quat) Pose {
	return Pose{Position: pos, Rotation: rot}
}

// Rot returns the normalized rotation, substituting identity for a zero quaternion.
func (p Pose) Rot() mgl32.Quat {
	if p.Rotation.W == 0 && p.Rotation.V == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	return p.Rotation.Normalize()
}

// TransformPoint maps a point from pose-local space into world space.
func (p Pose) TransformPoint(local mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.Rot().Rotate(local))
}

// InverseTransformPoint maps a world-space point into pose-local space.
func (p Pose) InverseTransformPoint(world mgl32.Vec3) mgl32.Vec3 {
	return p.Rot().Conjugate().Rotate(world.Sub(p.Position))
}

// TransformDirection rotates a local direction into world space.
func (p Pose) TransformDirection(local mgl32.Vec3) mgl32.Vec3 {
	return p.Rot().Rotate(local)
}

// Forward returns the pose's forward (-Z) axis in world space.
func (p Pose) Forward() mgl32.Vec3 {
	return p.TransformDirection(Forward)
}

// Up returns the pose's up (+Y) axis in world space.
func (p Pose) Up() mgl32.Vec3 {
	return p.TransformDirection(Up)
}

// Mul composes p with a child pose expressed in p's local space.
func (p Pose) Mul(child Pose) Pose {
	rot := p.Rot()
	return Pose{
		Position: p.Position.Add(rot.Rotate(child.Position)),
		Rotation: rot.Mul(child.Rot()).Normalize(),
	}
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Rot().Conjugate()
	return Pose{
		Position: inv.Rotate(p.Position.Mul(-1)),
		Rotation: inv,
	}
}

// RelativeTo expresses p in the local space of parent.
func (p Pose) RelativeTo(parent Pose) Pose {
	return parent.Inverse().Mul(p)
}

// Lerp interpolates position linearly and rotation spherically.
func (p Pose) Lerp(to Pose, t float32) Pose {
	t = mgl32.Clamp(t, 0, 1)
	return Pose{
		Position: LerpVec3(p.Position, to.Position, t),
		Rotation: mgl32.QuatSlerp(p.Rot(), to.Rot(), t),
	}
}

// ApproxEqual reports whether both poses match within threshold. Positions
// are compared by absolute distance.
func (p Pose) ApproxEqual(other Pose, threshold float32) bool {
	return Near(p.Position, other.Position, threshold) &&
		p.Rot().OrientationEqualThreshold(other.Rot(), threshold)
}

// LerpVec3 performs linear interpolation between two vectors.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
