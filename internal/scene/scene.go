// Package scene defines the host services the interaction core consumes
// (spatial queries, trigger notifications, physical bodies, clock) and an
// in-memory reference World implementing them for tests and headless runs.
package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	xmath "github.com/Faultbox/xri/pkg/math"
)

// ColliderID is an opaque handle to a collision volume owned by the host.
type ColliderID uint32

// NoCollider is the zero handle; the World never issues it.
const NoCollider ColliderID = 0

// Layers is a physics layer bitmask used to filter queries.
type Layers uint32

const (
	// LayerDefault is assigned to colliders created without a layer.
	LayerDefault Layers = 1
	// AllLayers matches every layer.
	AllLayers Layers = ^Layers(0)
)

// Hit is a single surface hit reported by a query.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
	Collider ColliderID
}

// Query is the spatial query service. Returned hits are ordered by ascending
// distance and never include trigger volumes.
type Query interface {
	// Raycast returns every collider hit along ray within maxDist.
	Raycast(ray Ray, maxDist float32, mask Layers) []Hit
	// SphereCast sweeps a sphere of the given radius along ray.
	SphereCast(ray Ray, radius, maxDist float32, mask Layers) []Hit
	// ClosestPoint returns the point on collider id nearest to p.
	ClosestPoint(id ColliderID, p mgl32.Vec3) (mgl32.Vec3, bool)
}

// TriggerListener receives overlap notifications for a trigger volume.
type TriggerListener interface {
	TriggerEnter(other ColliderID)
	TriggerExit(other ColliderID)
}

// PoseSource is anything colliders can follow.
type PoseSource interface {
	WorldPose() xmath.Pose
}

// Body is the physical-body facade the attachment code drives.
type Body interface {
	PoseSource

	Position() mgl32.Vec3
	SetPosition(p mgl32.Vec3)
	Rotation() mgl32.Quat
	SetRotation(q mgl32.Quat)

	// MovePosition and MoveRotation request a physics-interpolated move that
	// completes on the next physics step.
	MovePosition(p mgl32.Vec3)
	MoveRotation(q mgl32.Quat)

	Velocity() mgl32.Vec3
	SetVelocity(v mgl32.Vec3)
	AngularVelocity() mgl32.Vec3
	SetAngularVelocity(v mgl32.Vec3)

	IsKinematic() bool
	SetKinematic(k bool)
	UseGravity() bool
	SetUseGravity(g bool)
	Drag() float32
	SetDrag(d float32)
	AngularDrag() float32
	SetAngularDrag(d float32)
}

// Clock provides the current simulation time.
type Clock interface {
	Now() time.Duration
}

// ManualClock is advanced explicitly by the caller.
type ManualClock struct {
	now time.Duration
}

// NewManualClock creates a clock starting at zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current time.
func (c *ManualClock) Now() time.Duration { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now += d }

// AdvanceSeconds moves the clock forward by s seconds.
func (c *ManualClock) AdvanceSeconds(s float32) {
	c.now += time.Duration(float64(s) * float64(time.Second))
}

// Seconds converts a duration to float seconds for the math code.
func Seconds(d time.Duration) float32 {
	return float32(d.Seconds())
}
