package interaction

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Faultbox/xri/internal/attach"
	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// SelectMode controls how many interactors may select an interactable.
type SelectMode int

const (
	// SelectSingle allows one selector; a new exclusive selector steals.
	SelectSingle SelectMode = iota
	// SelectMultiple lets selections coexist.
	SelectMultiple
)

func (m SelectMode) String() string {
	switch m {
	case SelectSingle:
		return "single"
	case SelectMultiple:
		return "multiple"
	default:
		return fmt.Sprintf("SelectMode(%d)", int(m))
	}
}

// ParseSelectMode parses the names produced by SelectMode.String.
func ParseSelectMode(s string) (SelectMode, error) {
	switch strings.ToLower(s) {
	case "single", "":
		return SelectSingle, nil
	case "multiple":
		return SelectMultiple, nil
	}
	return SelectSingle, fmt.Errorf("unknown select mode %q", s)
}

// Interactable is a scene object that can be hovered and selected.
type Interactable struct {
	ID         uuid.UUID
	Name       string
	Colliders  []scene.ColliderID
	Layers     LayerMask
	SelectMode SelectMode
	Policy     Policy

	// Grabbable interactables follow their selector through Body.
	Grabbable    bool
	Body         scene.Body
	AttachOffset xmath.Pose // grab point in body space
	Attach       attach.Settings

	Events Events

	hoverers   []*Interactor
	selectors  []*Interactor
	controller *attach.Controller
	anchor     *Interactor
	registered bool
}

// NewInteractable creates an interactable owning the given colliders.
func NewInteractable(name string, colliders ...scene.ColliderID) *Interactable {
	return &Interactable{
		ID:        uuid.New(),
		Name:      name,
		Colliders: colliders,
		Layers:    LayerEverything,
		Attach:    attach.DefaultSettings(),
	}
}

func (t *Interactable) String() string { return t.Name }

func (t *Interactable) IsHovered() bool  { return len(t.hoverers) > 0 }
func (t *Interactable) IsSelected() bool { return len(t.selectors) > 0 }

// Hoverers returns a copy of the hovering interactors in enter order.
func (t *Interactable) Hoverers() []*Interactor { return slices.Clone(t.hoverers) }

// Selectors returns a copy of the selecting interactors in enter order.
func (t *Interactable) Selectors() []*Interactor { return slices.Clone(t.selectors) }

// Controller returns the attachment controller, nil unless a grabbable
// with a body was registered.
func (t *Interactable) Controller() *attach.Controller { return t.controller }

func (t *Interactable) selectedByOther(i *Interactor) bool {
	for _, s := range t.selectors {
		if s != i {
			return true
		}
	}
	return false
}
