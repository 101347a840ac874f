package scene

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	xmath "github.com/Faultbox/xri/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir. A zero direction yields ok=false.
func NewRay(origin, dir mgl32.Vec3) (r Ray, ok bool) {
	l := dir.Len()
	if l < 1e-6 || !xmath.IsFinite(dir) {
		return Ray{Origin: origin}, false
	}
	return Ray{Origin: origin, Direction: dir.Mul(1 / l)}, true
}

// Segment builds the ray from a to b and returns the segment length.
func Segment(a, b mgl32.Vec3) (Ray, float32, bool) {
	r, ok := NewRay(a, b.Sub(a))
	if !ok {
		return r, 0, false
	}
	return r, b.Sub(a).Len(), true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box
// using the slab method. Rays starting inside the box report no hit.
func (r Ray) IntersectAABB(box xmath.AABB) (t float32, normal mgl32.Vec3, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	entryAxis := -1
	var entrySign float32

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (box.Min[axis] - o) / d
		t2 := (box.Max[axis] - o) / d
		sign := float32(-1) // entering through the min face
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			entryAxis = axis
			entrySign = sign
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 || tmin < 0 || entryAxis < 0 {
		return 0, mgl32.Vec3{}, false
	}
	normal[entryAxis] = entrySign
	return tmin, normal, true
}

// IntersectSphere tests ray intersection with a sphere. Rays starting inside
// the sphere report no hit.
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (t float32, normal mgl32.Vec3, hit bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	if c < 0 {
		return 0, mgl32.Vec3{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, mgl32.Vec3{}, false
	}
	t = -b - float32(gomath.Sqrt(float64(disc)))
	if t < 0 {
		return 0, mgl32.Vec3{}, false
	}
	normal = xmath.SafeNormalize(r.At(t).Sub(center), r.Direction.Mul(-1))
	return t, normal, true
}
