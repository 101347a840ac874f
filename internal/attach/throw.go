package attach

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	xmath "github.com/Faultbox/xri/pkg/math"
)

type throwSample struct {
	time    float32
	linear  mgl32.Vec3
	angular mgl32.Vec3
}

// ThrowTracker is a fixed-size ring of recent attach-point velocities.
type ThrowTracker struct {
	samples []throwSample
	head    int // next write slot
	count   int
}

// NewThrowTracker creates a tracker holding up to frames samples.
func NewThrowTracker(frames int) *ThrowTracker {
	if frames <= 0 {
		frames = DefaultThrowFrames
	}
	return &ThrowTracker{samples: make([]throwSample, frames)}
}

// Record stores a sample, overwriting the oldest once full. Non-finite
// samples are dropped.
func (t *ThrowTracker) Record(now float32, linear, angular mgl32.Vec3) {
	if !xmath.IsFinite(linear) || !xmath.IsFinite(angular) {
		return
	}
	t.samples[t.head] = throwSample{time: now, linear: linear, angular: angular}
	t.head = (t.head + 1) % len(t.samples)
	if t.count < len(t.samples) {
		t.count++
	}
}

// Len returns the number of stored samples.
func (t *ThrowTracker) Len() int { return t.count }

// Reset discards all samples.
func (t *ThrowTracker) Reset() {
	t.head = 0
	t.count = 0
}

// Velocity returns the weighted average of samples no older than window
// seconds at now, walking from newest to oldest. Each sample is weighted by
// curve evaluated at 1 - age/window, so the newest sample weighs curve(1).
// A non-positive window returns the newest sample.
func (t *ThrowTracker) Velocity(now, window float32, curve ease.TweenFunc) (linear, angular mgl32.Vec3) {
	if t.count == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	if window <= 0 {
		s := t.samples[(t.head-1+len(t.samples))%len(t.samples)]
		return s.linear, s.angular
	}
	var total float32
	for i := 0; i < t.count; i++ {
		idx := (t.head - 1 - i + len(t.samples)) % len(t.samples)
		s := t.samples[idx]
		age := now - s.time
		if age > window {
			break
		}
		w := xmath.Evaluate(curve, 1-age/window)
		linear = linear.Add(s.linear.Mul(w))
		angular = angular.Add(s.angular.Mul(w))
		total += w
	}
	if total <= 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	return linear.Mul(1 / total), angular.Mul(1 / total)
}
