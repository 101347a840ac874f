package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Near reports whether a and b lie within tolerance of each other.
func Near(a, b mgl32.Vec3, tolerance float32) bool {
	return a.Sub(b).Len() <= tolerance
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// AABBFromCenter creates an AABB from a center and half extents.
func AABBFromCenter(center, halfExtents mgl32.Vec3) AABB {
	return NewAABB(center.Sub(halfExtents), center.Add(halfExtents))
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Expand grows the box by r on every side.
func (b AABB) Expand(r float32) AABB {
	e := mgl32.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(e), Max: b.Max.Add(e)}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Overlaps reports whether two boxes intersect.
func (b AABB) Overlaps(other AABB) bool {
	return b.Max.X() >= other.Min.X() && b.Min.X() <= other.Max.X() &&
		b.Max.Y() >= other.Min.Y() && b.Min.Y() <= other.Max.Y() &&
		b.Max.Z() >= other.Min.Z() && b.Min.Z() <= other.Max.Z()
}

// ClosestPoint returns the point on or in the box nearest to p.
func (b AABB) ClosestPoint(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		mgl32.Clamp(p.X(), b.Min.X(), b.Max.X()),
		mgl32.Clamp(p.Y(), b.Min.Y(), b.Max.Y()),
		mgl32.Clamp(p.Z(), b.Min.Z(), b.Max.Z()),
	}
}

// IsFinite reports whether every component is neither NaN nor Inf.
func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// IsFiniteQuat reports whether every quaternion component is finite.
func IsFiniteQuat(q mgl32.Quat) bool {
	w := float64(q.W)
	return !gomath.IsNaN(w) && !gomath.IsInf(w, 0) && IsFinite(q.V)
}

// SafeNormalize returns v normalized, or fallback when v is (near) zero.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return fallback
	}
	return v.Mul(1 / l)
}
