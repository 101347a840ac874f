package scene

import (
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	xmath "github.com/Faultbox/xri/pkg/math"
)

// Shape selects a collider's geometry.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
)

// Collider is a collision or trigger volume. Boxes stay world axis-aligned;
// the owner's rotation only affects the offset.
type Collider struct {
	ID          ColliderID
	Name        string
	Shape       Shape
	HalfExtents mgl32.Vec3 // For Box
	Radius      float32    // For Sphere
	Offset      mgl32.Vec3 // Local offset from the owner's pose
	Layer       Layers
	IsTrigger   bool
	Disabled    bool

	center   mgl32.Vec3
	owner    PoseSource
	listener TriggerListener
	overlaps []ColliderID // sorted, trigger colliders only
}

// Center returns the collider's world-space center as of the last sync.
func (c *Collider) Center() mgl32.Vec3 { return c.center }

// Bounds returns the world-space bounding box.
func (c *Collider) Bounds() xmath.AABB {
	if c.Shape == ShapeSphere {
		return xmath.AABBFromCenter(c.center, mgl32.Vec3{c.Radius, c.Radius, c.Radius})
	}
	return xmath.AABBFromCenter(c.center, c.HalfExtents)
}

func (c *Collider) closestPoint(p mgl32.Vec3) mgl32.Vec3 {
	if c.Shape == ShapeSphere {
		d := p.Sub(c.center)
		if d.Len() <= c.Radius {
			return p
		}
		return c.center.Add(xmath.SafeNormalize(d, xmath.Up).Mul(c.Radius))
	}
	return c.Bounds().ClosestPoint(p)
}

func (c *Collider) overlapsCollider(o *Collider) bool {
	switch {
	case c.Shape == ShapeSphere && o.Shape == ShapeSphere:
		r := c.Radius + o.Radius
		return c.center.Sub(o.center).LenSqr() <= r*r
	case c.Shape == ShapeSphere:
		return o.closestPoint(c.center).Sub(c.center).LenSqr() <= c.Radius*c.Radius
	case o.Shape == ShapeSphere:
		return c.closestPoint(o.center).Sub(o.center).LenSqr() <= o.Radius*o.Radius
	default:
		return c.Bounds().Overlaps(o.Bounds())
	}
}

// World is an in-memory scene implementing Query and driving trigger
// notifications and RigidBody integration.
type World struct {
	Gravity mgl32.Vec3

	colliders map[ColliderID]*Collider
	order     []ColliderID
	bodies    []*RigidBody
	nextID    ColliderID
}

// NewWorld creates an empty world with standard gravity.
func NewWorld() *World {
	return &World{
		Gravity:   mgl32.Vec3{0, -9.81, 0},
		colliders: make(map[ColliderID]*Collider),
	}
}

// AddCollider inserts a copy of c, assigning and returning a new handle.
// owner may be nil for static colliders positioned by Offset alone.
func (w *World) AddCollider(c Collider, owner PoseSource) ColliderID {
	w.nextID++
	c.ID = w.nextID
	if c.Layer == 0 {
		c.Layer = LayerDefault
	}
	c.owner = owner
	c.overlaps = nil
	stored := &c
	w.syncCollider(stored)
	w.colliders[c.ID] = stored
	w.order = append(w.order, c.ID)
	return c.ID
}

// RemoveCollider deletes a collider. Triggers overlapping it receive an exit.
func (w *World) RemoveCollider(id ColliderID) {
	c, ok := w.colliders[id]
	if !ok {
		return
	}
	for _, tid := range w.order {
		t := w.colliders[tid]
		if t == nil || !t.IsTrigger {
			continue
		}
		if i, found := slices.BinarySearch(t.overlaps, id); found {
			t.overlaps = slices.Delete(t.overlaps, i, i+1)
			if t.listener != nil {
				t.listener.TriggerExit(id)
			}
		}
	}
	if c.IsTrigger && c.listener != nil {
		for _, other := range c.overlaps {
			c.listener.TriggerExit(other)
		}
	}
	delete(w.colliders, id)
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
}

// Collider returns the collider for id.
func (w *World) Collider(id ColliderID) (*Collider, bool) {
	c, ok := w.colliders[id]
	return c, ok
}

// SetTriggerListener routes overlap notifications of a trigger collider.
func (w *World) SetTriggerListener(id ColliderID, l TriggerListener) {
	if c, ok := w.colliders[id]; ok {
		c.listener = l
	}
}

// AddBody registers a body for integration in Step.
func (w *World) AddBody(b *RigidBody) {
	w.bodies = append(w.bodies, b)
}

// Step integrates all bodies then syncs colliders and triggers.
func (w *World) Step(dt float32) {
	for _, b := range w.bodies {
		b.Step(dt, w.Gravity)
	}
	w.Sync()
}

// Sync moves colliders to their owners and emits trigger exits then enters.
func (w *World) Sync() {
	for _, id := range w.order {
		w.syncCollider(w.colliders[id])
	}
	for _, id := range w.order {
		t := w.colliders[id]
		if !t.IsTrigger {
			continue
		}
		var current []ColliderID
		if !t.Disabled {
			for _, oid := range w.order {
				o := w.colliders[oid]
				if oid == id || o.IsTrigger || o.Disabled {
					continue
				}
				if t.overlapsCollider(o) {
					current = append(current, oid)
				}
			}
		}
		slices.Sort(current)
		prev := t.overlaps
		t.overlaps = current
		if t.listener == nil {
			continue
		}
		for _, oid := range prev {
			if _, found := slices.BinarySearch(current, oid); !found {
				t.listener.TriggerExit(oid)
			}
		}
		for _, oid := range current {
			if _, found := slices.BinarySearch(prev, oid); !found {
				t.listener.TriggerEnter(oid)
			}
		}
	}
}

func (w *World) syncCollider(c *Collider) {
	if c.owner == nil {
		c.center = c.Offset
		return
	}
	c.center = c.owner.WorldPose().TransformPoint(c.Offset)
}

// Raycast implements Query.
func (w *World) Raycast(ray Ray, maxDist float32, mask Layers) []Hit {
	return w.cast(ray, 0, maxDist, mask)
}

// SphereCast implements Query. Boxes are inflated by the radius, which is
// conservative around box corners.
func (w *World) SphereCast(ray Ray, radius, maxDist float32, mask Layers) []Hit {
	if radius < 0 {
		radius = 0
	}
	return w.cast(ray, radius, maxDist, mask)
}

func (w *World) cast(ray Ray, radius, maxDist float32, mask Layers) []Hit {
	if maxDist <= 0 || ray.Direction.LenSqr() == 0 {
		return nil
	}
	var hits []Hit
	for _, id := range w.order {
		c := w.colliders[id]
		if c.IsTrigger || c.Disabled || c.Layer&mask == 0 {
			continue
		}
		var (
			t      float32
			normal mgl32.Vec3
			ok     bool
		)
		if c.Shape == ShapeSphere {
			t, normal, ok = ray.IntersectSphere(c.center, c.Radius+radius)
		} else {
			t, normal, ok = ray.IntersectAABB(c.Bounds().Expand(radius))
		}
		if !ok || t > maxDist {
			continue
		}
		point := ray.At(t)
		if radius > 0 {
			point = c.closestPoint(point)
		}
		hits = append(hits, Hit{Point: point, Normal: normal, Distance: t, Collider: id})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// ClosestPoint implements Query.
func (w *World) ClosestPoint(id ColliderID, p mgl32.Vec3) (mgl32.Vec3, bool) {
	c, ok := w.colliders[id]
	if !ok || c.Disabled {
		return mgl32.Vec3{}, false
	}
	return c.closestPoint(p), true
}
