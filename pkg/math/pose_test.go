package math

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPoseZeroRotationIsIdentity(t *testing.T) {
	var p Pose
	got := p.TransformPoint(mgl32.Vec3{1, 2, 3})
	if got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("zero pose TransformPoint() = %v, want (1,2,3)", got)
	}
}

func TestPoseMulInverse(t *testing.T) {
	p := NewPose(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(float32(gomath.Pi/2), Up))
	child := NewPose(mgl32.Vec3{0, 0, -1}, mgl32.QuatRotate(0.3, Right))

	world := p.Mul(child)
	back := world.RelativeTo(p)
	if !back.ApproxEqual(child, 1e-4) {
		t.Errorf("RelativeTo(Mul()) = %+v, want %+v", back, child)
	}

	id := p.Mul(p.Inverse())
	if !id.ApproxEqual(PoseIdentity(), 1e-4) {
		t.Errorf("p * p^-1 = %+v, want identity", id)
	}
}

func TestPoseForward(t *testing.T) {
	p := NewPose(mgl32.Vec3{}, mgl32.QuatRotate(float32(gomath.Pi/2), Up))
	got := p.Forward()
	want := mgl32.Vec3{-1, 0, 0}
	if !Near(got, want, 1e-5) {
		t.Errorf("Forward() = %v, want %v", got, want)
	}
}

func TestPoseInverseTransformPoint(t *testing.T) {
	p := NewPose(mgl32.Vec3{5, 0, 0}, mgl32.QuatRotate(float32(gomath.Pi), Up))
	world := p.TransformPoint(mgl32.Vec3{1, 0, 0})
	if !Near(world, mgl32.Vec3{4, 0, 0}, 1e-5) {
		t.Errorf("TransformPoint() = %v, want (4,0,0)", world)
	}
	local := p.InverseTransformPoint(world)
	if !Near(local, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("InverseTransformPoint() = %v, want (1,0,0)", local)
	}
}

func TestPoseLerpEndpoints(t *testing.T) {
	a := PoseIdentity()
	b := NewPose(mgl32.Vec3{2, 0, 0}, mgl32.QuatRotate(1, Up))

	if got := a.Lerp(b, 0); !got.ApproxEqual(a, 1e-5) {
		t.Errorf("Lerp(0) = %+v, want %+v", got, a)
	}
	if got := a.Lerp(b, 1); !got.ApproxEqual(b, 1e-5) {
		t.Errorf("Lerp(1) = %+v, want %+v", got, b)
	}
	mid := a.Lerp(b, 0.5)
	if !Near(mid.Position, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Lerp(0.5).Position = %v, want (1,0,0)", mid.Position)
	}
}

func TestAABBClosestPoint(t *testing.T) {
	box := AABBFromCenter(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0.5, 0.5, 0.5})

	tests := []struct {
		name string
		p    mgl32.Vec3
		want mgl32.Vec3
	}{
		{"outside front", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -4.5}},
		{"inside", mgl32.Vec3{0.1, 0.2, -5}, mgl32.Vec3{0.1, 0.2, -5}},
		{"corner", mgl32.Vec3{3, 3, -9}, mgl32.Vec3{0.5, 0.5, -5.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.ClosestPoint(tt.p); got != tt.want {
				t.Errorf("ClosestPoint(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))
	if !IsFinite(mgl32.Vec3{1, 2, 3}) {
		t.Error("expected finite vector")
	}
	if IsFinite(mgl32.Vec3{nan, 0, 0}) {
		t.Error("expected NaN to be rejected")
	}
	if IsFinite(mgl32.Vec3{0, inf, 0}) {
		t.Error("expected Inf to be rejected")
	}
	if got := SafeNormalize(mgl32.Vec3{}, Forward); got != Forward {
		t.Errorf("SafeNormalize(zero) = %v, want fallback", got)
	}
}

func TestNearIsAbsoluteAtOrigin(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl32.Vec3
		tol  float32
		want bool
	}{
		{"rounding noise at zero", mgl32.Vec3{1e-7, 0, -4e-8}, mgl32.Vec3{}, 1e-5, true},
		{"off by a centimetre", mgl32.Vec3{1, 0, -0.11}, mgl32.Vec3{1, 0, -0.1}, 0.001, false},
		{"within a centimetre", mgl32.Vec3{1, 0, -0.105}, mgl32.Vec3{1, 0, -0.1}, 0.01, true},
		{"large values", mgl32.Vec3{1000, 0, 0}, mgl32.Vec3{1000.5, 0, 0}, 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Near(tt.a, tt.b, tt.tol); got != tt.want {
				t.Errorf("Near(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
			}
		})
	}

	noisy := NewPose(mgl32.Vec3{1e-7, -1e-7, 0}, mgl32.QuatIdent())
	if !noisy.ApproxEqual(PoseIdentity(), 1e-5) {
		t.Errorf("ApproxEqual rejected %+v against identity", noisy)
	}
}
