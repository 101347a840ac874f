package scene

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xmath "github.com/Faultbox/xri/pkg/math"
)

type triggerLog struct {
	events []string
	ids    []ColliderID
}

func (l *triggerLog) TriggerEnter(id ColliderID) {
	l.events = append(l.events, "enter")
	l.ids = append(l.ids, id)
}

func (l *triggerLog) TriggerExit(id ColliderID) {
	l.events = append(l.events, "exit")
	l.ids = append(l.ids, id)
}

func box(center mgl32.Vec3, half float32) Collider {
	return Collider{Shape: ShapeBox, Offset: center, HalfExtents: mgl32.Vec3{half, half, half}}
}

func TestWorldRaycastOrdersByDistance(t *testing.T) {
	w := NewWorld()
	far := w.AddCollider(box(mgl32.Vec3{0, 0, -10}, 0.5), nil)
	near := w.AddCollider(box(mgl32.Vec3{0, 0, -3}, 0.5), nil)
	trigger := box(mgl32.Vec3{0, 0, -1}, 0.5)
	trigger.IsTrigger = true
	w.AddCollider(trigger, nil)

	r, _ := NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	hits := w.Raycast(r, 100, AllLayers)
	require.Len(t, hits, 2, "triggers are not reported")
	assert.Equal(t, near, hits[0].Collider)
	assert.Equal(t, far, hits[1].Collider)
	assert.InDelta(t, 2.5, hits[0].Distance, 1e-5)

	assert.Len(t, w.Raycast(r, 5, AllLayers), 1, "max distance clips the far box")
}

func TestWorldRaycastLayerMask(t *testing.T) {
	w := NewWorld()
	c := box(mgl32.Vec3{0, 0, -3}, 0.5)
	c.Layer = 1 << 3
	w.AddCollider(c, nil)

	r, _ := NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	assert.Empty(t, w.Raycast(r, 10, LayerDefault))
	assert.Len(t, w.Raycast(r, 10, 1<<3), 1)
}

func TestWorldSphereCastWidensHits(t *testing.T) {
	w := NewWorld()
	w.AddCollider(Collider{Shape: ShapeSphere, Radius: 0.5, Offset: mgl32.Vec3{0.8, 0, -4}}, nil)

	r, _ := NewRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})
	assert.Empty(t, w.Raycast(r, 10, AllLayers))

	hits := w.SphereCast(r, 0.5, 10, AllLayers)
	require.Len(t, hits, 1)
	assert.Less(t, hits[0].Distance, float32(4))
}

func TestWorldClosestPoint(t *testing.T) {
	w := NewWorld()
	id := w.AddCollider(box(mgl32.Vec3{0, 0, -5}, 0.5), nil)

	p, ok := w.ClosestPoint(id, mgl32.Vec3{})
	require.True(t, ok)
	assertVecNear(t, mgl32.Vec3{0, 0, -4.5}, p, 1e-5)

	_, ok = w.ClosestPoint(id+1, mgl32.Vec3{})
	assert.False(t, ok)
}

func TestWorldTriggerEnterExit(t *testing.T) {
	w := NewWorld()
	hand := NewRigidBody("hand", xmath.PoseIdentity())
	hand.SetKinematic(true)
	w.AddBody(hand)

	trig := Collider{Shape: ShapeSphere, Radius: 0.2, IsTrigger: true}
	tid := w.AddCollider(trig, hand)
	l := &triggerLog{}
	w.SetTriggerListener(tid, l)

	target := w.AddCollider(box(mgl32.Vec3{0, 0, -1}, 0.25), nil)

	w.Step(0.02)
	assert.Empty(t, l.events)

	hand.MovePosition(mgl32.Vec3{0, 0, -0.9})
	w.Step(0.02)
	assert.Equal(t, []string{"enter"}, l.events)
	assert.Equal(t, []ColliderID{target}, l.ids)

	w.Step(0.02)
	assert.Len(t, l.events, 1, "no repeat while still overlapping")

	hand.MovePosition(mgl32.Vec3{0, 0, 2})
	w.Step(0.02)
	assert.Equal(t, []string{"enter", "exit"}, l.events)
}

func TestWorldRemoveColliderExitsTriggers(t *testing.T) {
	w := NewWorld()
	tid := w.AddCollider(Collider{Shape: ShapeSphere, Radius: 1, IsTrigger: true}, nil)
	l := &triggerLog{}
	w.SetTriggerListener(tid, l)
	target := w.AddCollider(box(mgl32.Vec3{0, 0, -0.5}, 0.25), nil)
	w.Sync()
	require.Equal(t, []string{"enter"}, l.events)

	w.RemoveCollider(target)
	assert.Equal(t, []string{"enter", "exit"}, l.events)
	_, ok := w.Collider(target)
	assert.False(t, ok)
}

func TestRigidBodyStep(t *testing.T) {
	b := NewRigidBody("crate", xmath.PoseIdentity())
	b.Step(1, mgl32.Vec3{0, -10, 0})
	assert.InDelta(t, -10, b.Velocity().Y(), 1e-5)
	assert.InDelta(t, -10, b.Position().Y(), 1e-5)

	b.SetKinematic(true)
	b.MovePosition(mgl32.Vec3{3, 0, 0})
	b.Step(1, mgl32.Vec3{0, -10, 0})
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, b.Position())

	b.Step(0, mgl32.Vec3{0, -10, 0})
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, b.Position())
}

func TestRigidBodyIgnoresNonFiniteVelocity(t *testing.T) {
	b := NewRigidBody("crate", xmath.PoseIdentity())
	b.SetVelocity(mgl32.Vec3{1, 0, 0})
	nan := float32(0)
	b.SetVelocity(mgl32.Vec3{nan / nan, 0, 0})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Velocity())
}

func TestRigidBodyAngularVelocityRotates(t *testing.T) {
	b := NewRigidBody("wheel", xmath.PoseIdentity())
	b.SetUseGravity(false)
	b.SetAngularDrag(0)
	b.SetAngularVelocity(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	for i := 0; i < 100; i++ {
		b.Step(0.01, mgl32.Vec3{})
	}
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	assert.True(t, b.Rotation().OrientationEqualThreshold(want, 1e-2))
}

func TestManualClock(t *testing.T) {
	c := NewManualClock()
	c.Advance(250 * time.Millisecond)
	c.AdvanceSeconds(0.25)
	assert.Equal(t, 500*time.Millisecond, c.Now())
	assert.InDelta(t, 0.5, Seconds(c.Now()), 1e-6)
}
