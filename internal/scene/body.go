package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	xmath "github.com/Faultbox/xri/pkg/math"
)

// RigidBody is the reference Body. It integrates gravity, drag and
// velocities; it does not resolve contacts.
type RigidBody struct {
	Name string

	pose            xmath.Pose
	velocity        mgl32.Vec3
	angularVelocity mgl32.Vec3
	kinematic       bool
	useGravity      bool
	drag            float32
	angularDrag     float32

	pendingPos *mgl32.Vec3
	pendingRot *mgl32.Quat
}

// NewRigidBody creates a dynamic body with gravity enabled.
func NewRigidBody(name string, pose xmath.Pose) *RigidBody {
	pose.Rotation = pose.Rot()
	return &RigidBody{
		Name:        name,
		pose:        pose,
		useGravity:  true,
		angularDrag: 0.05,
	}
}

func (b *RigidBody) WorldPose() xmath.Pose       { return b.pose }
func (b *RigidBody) Position() mgl32.Vec3        { return b.pose.Position }
func (b *RigidBody) Rotation() mgl32.Quat        { return b.pose.Rotation }
func (b *RigidBody) Velocity() mgl32.Vec3        { return b.velocity }
func (b *RigidBody) AngularVelocity() mgl32.Vec3 { return b.angularVelocity }
func (b *RigidBody) IsKinematic() bool           { return b.kinematic }
func (b *RigidBody) UseGravity() bool            { return b.useGravity }
func (b *RigidBody) Drag() float32               { return b.drag }
func (b *RigidBody) AngularDrag() float32        { return b.angularDrag }
func (b *RigidBody) SetKinematic(k bool)         { b.kinematic = k }
func (b *RigidBody) SetUseGravity(g bool)        { b.useGravity = g }
func (b *RigidBody) SetDrag(d float32)           { b.drag = d }
func (b *RigidBody) SetAngularDrag(d float32)    { b.angularDrag = d }

// SetPosition teleports the body and cancels any pending move.
func (b *RigidBody) SetPosition(p mgl32.Vec3) {
	b.pose.Position = p
	b.pendingPos = nil
}

// SetRotation teleports the body's orientation.
func (b *RigidBody) SetRotation(q mgl32.Quat) {
	b.pose.Rotation = q.Normalize()
	b.pendingRot = nil
}

func (b *RigidBody) SetVelocity(v mgl32.Vec3) {
	if !xmath.IsFinite(v) {
		return
	}
	b.velocity = v
}

func (b *RigidBody) SetAngularVelocity(v mgl32.Vec3) {
	if !xmath.IsFinite(v) {
		return
	}
	b.angularVelocity = v
}

// MovePosition schedules a move applied on the next Step.
func (b *RigidBody) MovePosition(p mgl32.Vec3) {
	b.pendingPos = &p
}

// MoveRotation schedules a rotation applied on the next Step.
func (b *RigidBody) MoveRotation(q mgl32.Quat) {
	q = q.Normalize()
	b.pendingRot = &q
}

// Step advances the body by dt seconds.
func (b *RigidBody) Step(dt float32, gravity mgl32.Vec3) {
	if dt <= 0 {
		return
	}

	if b.pendingPos != nil {
		b.pose.Position = *b.pendingPos
		b.pendingPos = nil
	}
	if b.pendingRot != nil {
		b.pose.Rotation = *b.pendingRot
		b.pendingRot = nil
	}
	if b.kinematic {
		return
	}

	if b.useGravity {
		b.velocity = b.velocity.Add(gravity.Mul(dt))
	}
	if b.drag > 0 {
		b.velocity = b.velocity.Mul(mgl32.Clamp(1-b.drag*dt, 0, 1))
	}
	if b.angularDrag > 0 {
		b.angularVelocity = b.angularVelocity.Mul(mgl32.Clamp(1-b.angularDrag*dt, 0, 1))
	}

	displacement := b.velocity.Mul(dt)
	if !xmath.IsFinite(displacement) {
		b.velocity = mgl32.Vec3{}
		return
	}
	b.pose.Position = b.pose.Position.Add(displacement)

	if b.angularVelocity.LenSqr() > 0 {
		spin := mgl32.Quat{W: 0, V: b.angularVelocity.Mul(0.5 * dt)}
		b.pose.Rotation = b.pose.Rotation.Add(spin.Mul(b.pose.Rotation)).Normalize()
	}
}
