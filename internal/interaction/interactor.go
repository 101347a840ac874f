package interaction

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Faultbox/xri/internal/attach"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// TriggerMode decides when an interactor's select trigger is active.
type TriggerMode int

const (
	// TriggerHold selects while the select input is held.
	TriggerHold TriggerMode = iota
	// TriggerToggle flips selection on each press.
	TriggerToggle
	// TriggerAlways keeps the trigger active, as sockets do.
	TriggerAlways
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerHold:
		return "hold"
	case TriggerToggle:
		return "toggle"
	case TriggerAlways:
		return "always"
	default:
		return fmt.Sprintf("TriggerMode(%d)", int(m))
	}
}

// ParseTriggerMode parses the names produced by TriggerMode.String.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch strings.ToLower(s) {
	case "hold", "":
		return TriggerHold, nil
	case "toggle":
		return TriggerToggle, nil
	case "always":
		return TriggerAlways, nil
	}
	return TriggerHold, fmt.Errorf("unknown trigger mode %q", s)
}

// Interactor is an input proxy (hand, ray, socket) that hovers and selects
// interactables. Exported fields are configuration; relation state is owned
// by the StateMachine.
type Interactor struct {
	ID           uuid.UUID
	Name         string
	Kind         Kind
	Pose         xmath.Pose // world pose
	AttachOffset xmath.Pose // attach point relative to Pose
	Layers       LayerMask
	Enabled      bool
	Resolver     Resolver

	// Exclusive interactors may steal from other holders; non-exclusive
	// ones never take an interactable someone else holds.
	Exclusive bool

	Trigger               TriggerMode
	HoverToSelect         bool
	HoverToSelectDuration float32 // seconds
	RecycleDelay          float32 // seconds after a release before selecting again

	// MovementOverride replaces the interactable's movement type while held.
	MovementOverride *attach.MovementType

	Events Events

	hovers     []*Interactable
	selection  *Interactable
	candidates []*Interactable

	selectInput     bool
	prevSelectInput bool
	toggled         bool

	activateInput     bool
	prevActivateInput bool
	activated         bool

	released    bool
	lastRelease time.Duration

	dwellTarget *Interactable
	dwellStart  time.Duration
	dwellReady  bool

	registered bool
}

// NewInteractor creates an enabled interactor matching every layer.
// Sockets default to non-exclusive with an always-on trigger.
func NewInteractor(name string, kind Kind, r Resolver) *Interactor {
	i := &Interactor{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Pose:      xmath.PoseIdentity(),
		Layers:    LayerEverything,
		Enabled:   true,
		Resolver:  r,
		Exclusive: true,
		Trigger:   TriggerHold,
	}
	if kind == KindSocket {
		i.Exclusive = false
		i.Trigger = TriggerAlways
	}
	return i
}

func (i *Interactor) String() string {
	return fmt.Sprintf("%s(%s)", i.Name, i.Kind)
}

// WorldPose implements scene.PoseSource.
func (i *Interactor) WorldPose() xmath.Pose { return i.Pose }

// AttachPose returns the world pose of the attach point.
func (i *Interactor) AttachPose() xmath.Pose {
	return i.Pose.Mul(i.AttachOffset)
}

// SetSelectInput records the select button state for the next reconcile.
func (i *Interactor) SetSelectInput(pressed bool) { i.selectInput = pressed }

// SetActivateInput records the activate button state for the next reconcile.
func (i *Interactor) SetActivateInput(pressed bool) { i.activateInput = pressed }

func (i *Interactor) SelectInput() bool   { return i.selectInput }
func (i *Interactor) ActivateInput() bool { return i.activateInput }

// Selection returns the selected interactable, or nil.
func (i *Interactor) Selection() *Interactable { return i.selection }

// IsSelecting reports whether i selects t.
func (i *Interactor) IsSelecting(t *Interactable) bool { return t != nil && i.selection == t }

// IsHovering reports whether i hovers t.
func (i *Interactor) IsHovering(t *Interactable) bool { return slices.Contains(i.hovers, t) }

// Hovers returns a copy of the hovered interactables in enter order.
func (i *Interactor) Hovers() []*Interactable { return slices.Clone(i.hovers) }

// Candidates returns the candidate list from the last resolve. The slice is
// reused on the next tick.
func (i *Interactor) Candidates() []*Interactable { return i.candidates }

// IsActivated reports whether an Activate is outstanding.
func (i *Interactor) IsActivated() bool { return i.activated }

// DwellTarget returns the interactable the hover-to-select timer tracks.
func (i *Interactor) DwellTarget() *Interactable { return i.dwellTarget }
