// Package attach drives a physical body toward an anchor while it is held
// and applies release velocity when it is let go.
package attach

import (
	"fmt"
	"strings"

	"github.com/tanema/gween/ease"
)

// MovementType selects how a held body follows its anchor.
type MovementType int

const (
	// Instantaneous overwrites the body pose every frame.
	Instantaneous MovementType = iota
	// Kinematic moves a kinematic body in the fixed step.
	Kinematic
	// VelocityTracking sets velocities so physics carries the body to the target.
	VelocityTracking
)

func (m MovementType) String() string {
	switch m {
	case Instantaneous:
		return "instantaneous"
	case Kinematic:
		return "kinematic"
	case VelocityTracking:
		return "velocity_tracking"
	default:
		return fmt.Sprintf("MovementType(%d)", int(m))
	}
}

// ParseMovementType parses the names produced by String.
func ParseMovementType(s string) (MovementType, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "instantaneous", "":
		return Instantaneous, nil
	case "kinematic":
		return Kinematic, nil
	case "velocity_tracking", "velocitytracking":
		return VelocityTracking, nil
	}
	return Instantaneous, fmt.Errorf("unknown movement type %q", s)
}

// Phase identifies the point in the frame a controller is ticked from.
type Phase int

const (
	PhaseFixed Phase = iota
	PhaseDynamic
	PhasePreRender
)

func (p Phase) String() string {
	switch p {
	case PhaseFixed:
		return "fixed"
	case PhaseDynamic:
		return "dynamic"
	case PhasePreRender:
		return "prerender"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Settings configures the attachment of one interactable.
type Settings struct {
	Movement MovementType

	// AttachEaseInTime is the time in seconds to blend from the grab pose
	// to the anchor. Zero snaps immediately.
	AttachEaseInTime float32
	UseDynamicAttach bool

	SmoothPosition       bool
	SmoothPositionAmount float32
	TightenPosition      float32
	SmoothRotation       bool
	SmoothRotationAmount float32
	TightenRotation      float32

	// VelocityTracking gains.
	VelocityDamping        float32
	VelocityScale          float32
	AngularVelocityDamping float32
	AngularVelocityScale   float32

	ThrowOnDetach             bool
	ThrowSmoothingDuration    float32
	ThrowSmoothingCurve       ease.TweenFunc // nil means linear
	ThrowVelocityScale        float32
	ThrowAngularVelocityScale float32
	ThrowFrames               int
	ForceGravityOnDetach      bool
}

// DefaultThrowFrames is the throw ring buffer capacity.
const DefaultThrowFrames = 20

// DefaultSettings returns the stock grab configuration.
func DefaultSettings() Settings {
	return Settings{
		Movement:                  Instantaneous,
		AttachEaseInTime:          0.15,
		SmoothPositionAmount:      5,
		TightenPosition:           0.1,
		SmoothRotationAmount:      5,
		TightenRotation:           0.1,
		VelocityDamping:           1,
		VelocityScale:             1,
		AngularVelocityDamping:    1,
		AngularVelocityScale:      1,
		ThrowOnDetach:             true,
		ThrowSmoothingDuration:    0.25,
		ThrowSmoothingCurve:       ease.Linear,
		ThrowVelocityScale:        1.5,
		ThrowAngularVelocityScale: 1,
		ThrowFrames:               DefaultThrowFrames,
	}
}
