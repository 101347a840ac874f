package math

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// SampleLine returns the two endpoints of a straight segment.
func SampleLine(start, end mgl32.Vec3) []mgl32.Vec3 {
	return []mgl32.Vec3{start, end}
}

// QuadraticBezier evaluates a quadratic Bezier curve at t in [0, 1].
func QuadraticBezier(p0, p1, p2 mgl32.Vec3, t float32) mgl32.Vec3 {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * u * t)).Add(p2.Mul(t * t))
}

// SampleBezier samples a quadratic Bezier curve into n evenly spaced points.
// n below 2 yields nil.
func SampleBezier(start, control, end mgl32.Vec3, n int) []mgl32.Vec3 {
	if n < 2 {
		return nil
	}
	points := make([]mgl32.Vec3, n)
	for i := range points {
		t := float32(i) / float32(n-1)
		points[i] = QuadraticBezier(start, control, end, t)
	}
	return points
}

// ProjectilePoint evaluates start + v*t + a*t^2/2.
func ProjectilePoint(start, velocity, acceleration mgl32.Vec3, t float32) mgl32.Vec3 {
	return start.Add(velocity.Mul(t)).Add(acceleration.Mul(0.5 * t * t))
}

// ProjectileFlightTime solves the time a projectile launched with vertical
// speed vy under downward gravity takes to fall drop units below its start.
// Returns 0 when no positive solution exists.
func ProjectileFlightTime(vy, gravity, drop float32) float32 {
	if gravity <= 0 {
		if vy < 0 && drop > 0 {
			return drop / -vy
		}
		return 0
	}
	disc := vy*vy + 2*gravity*drop
	if disc < 0 {
		return 0
	}
	t := (vy + float32(gomath.Sqrt(float64(disc)))) / gravity
	if t < 0 || !IsFinite(mgl32.Vec3{t, 0, 0}) {
		return 0
	}
	return t
}

// SampleProjectile samples a ballistic arc into n points over flightTime.
// A zero velocity or non-positive flight time degenerates to the start point.
func SampleProjectile(start, velocity, acceleration mgl32.Vec3, flightTime float32, n int) []mgl32.Vec3 {
	if flightTime <= 0 || velocity.LenSqr() == 0 {
		return []mgl32.Vec3{start}
	}
	if n < 2 {
		return nil
	}
	points := make([]mgl32.Vec3, n)
	for i := range points {
		t := flightTime * float32(i) / float32(n-1)
		points[i] = ProjectilePoint(start, velocity, acceleration, t)
	}
	return points
}

// PathLength sums the segment lengths of a polyline.
func PathLength(points []mgl32.Vec3) float32 {
	var total float32
	for i := 1; i < len(points); i++ {
		total += points[i].Sub(points[i-1]).Len()
	}
	return total
}
