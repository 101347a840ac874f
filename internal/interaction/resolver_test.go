package interaction

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

func resolveCtx(w *scene.World, reg *Registry) *ResolveContext {
	return &ResolveContext{Registry: reg, Query: w, Clock: scene.NewManualClock()}
}

func TestRegistryResolve(t *testing.T) {
	logs := captureLogs(t)
	reg := NewRegistry()
	mug := NewInteractable("mug")
	cup := NewInteractable("cup")

	reg.Register(1, mug)
	reg.Register(2, mug)
	assert.Same(t, mug, reg.Resolve(1))
	assert.Nil(t, reg.Resolve(3))
	assert.Equal(t, []scene.ColliderID{1, 2}, reg.Colliders(mug))

	reg.Register(2, cup)
	assert.Same(t, cup, reg.Resolve(2))
	assert.Equal(t, []scene.ColliderID{1}, reg.Colliders(mug))
	assert.Equal(t, 1, logs.FilterMessage("collider already registered, replacing owner").Len())

	reg.Unregister(1)
	assert.Nil(t, reg.Resolve(1))
	assert.Empty(t, reg.Colliders(mug))
	assert.Equal(t, 1, reg.Len())
}

func TestDirectResolverOrdersByDistance(t *testing.T) {
	w := scene.NewWorld()
	reg := NewRegistry()
	far := NewInteractable("far")
	near := NewInteractable("near")
	farID := w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -2}, 0.1), nil)
	nearID := w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -1}, 0.1), nil)
	nearID2 := w.AddCollider(boxCollider(mgl32.Vec3{0, 0, 1}, 0.1), nil)
	stray := w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -0.5}, 0.1), nil)
	reg.Register(farID, far)
	reg.Register(nearID, near)
	reg.Register(nearID2, near)

	r := NewDirectResolver()
	hand := NewInteractor("hand", KindDirect, r)
	r.TriggerEnter(farID)
	r.TriggerEnter(stray)
	r.TriggerEnter(nearID2)
	r.TriggerEnter(nearID)
	r.TriggerEnter(nearID)

	got := r.ValidTargets(resolveCtx(w, reg), hand, nil)
	assert.Equal(t, []*Interactable{near, far}, got, "deduplicated, unknown collider skipped")

	r.TriggerExit(nearID)
	r.TriggerExit(nearID2)
	got = r.ValidTargets(resolveCtx(w, reg), hand, got)
	assert.Equal(t, []*Interactable{far}, got)
}

func TestDirectResolverTiesKeepEnterOrder(t *testing.T) {
	w := scene.NewWorld()
	reg := NewRegistry()
	a := NewInteractable("a")
	b := NewInteractable("b")
	aID := w.AddCollider(boxCollider(mgl32.Vec3{1, 0, 0}, 0.1), nil)
	bID := w.AddCollider(boxCollider(mgl32.Vec3{-1, 0, 0}, 0.1), nil)
	reg.Register(aID, a)
	reg.Register(bID, b)

	r := NewDirectResolver()
	hand := NewInteractor("hand", KindDirect, r)
	r.TriggerEnter(bID)
	r.TriggerEnter(aID)
	assert.Equal(t, []*Interactable{b, a}, r.ValidTargets(resolveCtx(w, reg), hand, nil))
}

func TestDirectResolverFromTriggerVolume(t *testing.T) {
	w := scene.NewWorld()
	reg := NewRegistry()
	r := NewDirectResolver()
	hand := NewInteractor("hand", KindDirect, r)

	trigger := scene.Collider{Shape: scene.ShapeSphere, Radius: 0.1, IsTrigger: true}
	w.SetTriggerListener(w.AddCollider(trigger, hand), r)
	mug := NewInteractable("mug")
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -1}, 0.1), nil), mug)

	w.Sync()
	assert.Empty(t, r.ValidTargets(resolveCtx(w, reg), hand, nil))

	hand.Pose.Position = mgl32.Vec3{0, 0, -0.95}
	w.Sync()
	assert.Equal(t, []*Interactable{mug}, r.ValidTargets(resolveCtx(w, reg), hand, nil))
}

func TestSocketExcludesItsSelection(t *testing.T) {
	d := NewDirector(scene.NewWorld(), nil)
	mug := newTarget(t, d, "mug")
	r := NewSocketResolver()
	socket := NewInteractor("socket", KindSocket, r)
	require.NoError(t, d.RegisterInteractor(socket))
	d.Registry.Register(7, mug)
	r.TriggerEnter(7)

	d.Tick(dt, dt)
	require.Same(t, mug, socket.Selection())

	d.ResolveCandidates()
	assert.NotContains(t, socket.Candidates(), mug)
	d.Reconcile()
	d.ProcessDetach()
	assert.Same(t, mug, socket.Selection(), "still held while excluded from candidates")
}

func rayRig(t *testing.T) (*scene.World, *Registry, *RayResolver, *Interactor) {
	t.Helper()
	w := scene.NewWorld()
	reg := NewRegistry()
	r := NewRayResolver(DefaultRayConfig())
	i := NewInteractor("pointer", KindRay, r)
	return w, reg, r, i
}

func TestRayResolverOrdersHits(t *testing.T) {
	w, reg, r, i := rayRig(t)
	near := NewInteractable("near")
	far := NewInteractable("far")
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -8}, 0.5), nil), far)
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -3}, 0.5), nil), near)

	got := r.ValidTargets(resolveCtx(w, reg), i, nil)
	assert.Equal(t, []*Interactable{near, far}, got)
	path := r.LastPath()
	require.True(t, path.HasHit)
	assert.InDelta(t, 2.5, path.Hit.Distance, 1e-5)
	assert.Equal(t, 1, path.EndIndex)
}

func TestRayBlockedByNonInteractable(t *testing.T) {
	w, reg, r, i := rayRig(t)
	mug := NewInteractable("mug")
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -5}, 0.5), nil), mug)
	wall := w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -2}, 0.5), nil)

	assert.Empty(t, r.ValidTargets(resolveCtx(w, reg), i, nil))
	assert.Equal(t, wall, r.LastPath().Hit.Collider)

	// a wall behind the mug does not block it
	w.RemoveCollider(wall)
	w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -9}, 0.5), nil)
	assert.Equal(t, []*Interactable{mug}, r.ValidTargets(resolveCtx(w, reg), i, nil))
}

func TestRayFollowsInteractorPose(t *testing.T) {
	w, reg, r, i := rayRig(t)
	mug := NewInteractable("mug")
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{5, 0, 0}, 0.5), nil), mug)

	assert.Empty(t, r.ValidTargets(resolveCtx(w, reg), i, nil))

	// yaw -90 degrees turns -Z forward into +X
	i.Pose = xmath.NewPose(mgl32.Vec3{}, mgl32.QuatRotate(mgl32.DegToRad(-90), xmath.Up))
	assert.Equal(t, []*Interactable{mug}, r.ValidTargets(resolveCtx(w, reg), i, nil))
}

func TestRaySphereCast(t *testing.T) {
	w, reg, r, i := rayRig(t)
	mug := NewInteractable("mug")
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0.7, 0, -5}, 0.5), nil), mug)

	assert.Empty(t, r.ValidTargets(resolveCtx(w, reg), i, nil))

	r.Config.HitDetection = HitSphereCast
	r.Config.SphereCastRadius = 0.3
	assert.Equal(t, []*Interactable{mug}, r.ValidTargets(resolveCtx(w, reg), i, nil))
}

func TestRayProjectileLandsOnFloor(t *testing.T) {
	w, reg, r, i := rayRig(t)
	r.Config.LineType = LineProjectile
	r.Config.Velocity = 5
	r.Config.SampleFrequency = 30
	floor := NewInteractable("floor")
	reg.Register(w.AddCollider(scene.Collider{
		Shape:       scene.ShapeBox,
		Offset:      mgl32.Vec3{0, -1.5, -3},
		HalfExtents: mgl32.Vec3{5, 0.5, 5},
	}, nil), floor)

	// aim 45 degrees up
	i.Pose = xmath.NewPose(mgl32.Vec3{}, mgl32.QuatRotate(mgl32.DegToRad(45), xmath.Right))
	assert.Equal(t, []*Interactable{floor}, r.ValidTargets(resolveCtx(w, reg), i, nil))

	path := r.LastPath()
	assert.Len(t, path.Samples, 30)
	assert.True(t, path.HasHit)
	assert.Less(t, path.EndIndex, 29)
}

func TestRayProjectileWithoutVelocity(t *testing.T) {
	w, reg, r, i := rayRig(t)
	r.Config.LineType = LineProjectile
	r.Config.Velocity = 0
	reg.Register(w.AddCollider(boxCollider(mgl32.Vec3{0, 0, -1}, 0.5), nil), NewInteractable("mug"))

	assert.Empty(t, r.ValidTargets(resolveCtx(w, reg), i, nil))
	assert.Len(t, r.LastPath().Samples, 1)
	assert.False(t, r.LastPath().HasHit)
}

func TestRayBezierSampleCount(t *testing.T) {
	tests := []struct {
		freq, max int
		want      int
	}{
		{20, 100, 20},
		{1, 100, 3},
		{500, 100, 100},
		{50, 10, 10},
		{50, 0, 50},
	}
	for _, tt := range tests {
		r := NewRayResolver(DefaultRayConfig())
		r.Config.LineType = LineBezier
		r.Config.SampleFrequency = tt.freq
		r.Config.MaxSampleFrequency = tt.max
		got := r.Sample(xmath.PoseIdentity(), nil)
		assert.Len(t, got, tt.want, "freq %d max %d", tt.freq, tt.max)
		assert.Equal(t, mgl32.Vec3{}, got[0])
		assertVecNear(t, mgl32.Vec3{0, -10, -30}, got[len(got)-1], 1e-4)
	}
}

func TestStraightRayIgnoresSampleFrequency(t *testing.T) {
	r := NewRayResolver(DefaultRayConfig())
	r.Config.SampleFrequency = 50
	assert.Len(t, r.Sample(xmath.PoseIdentity(), nil), 2)
}
