package interaction

import "slices"

// Policy lets an interactable veto hover and select attempts.
type Policy interface {
	CanHover(i *Interactor, t *Interactable) bool
	CanSelect(i *Interactor, t *Interactable) bool
}

// PolicyFunc adapts plain functions to Policy. A nil function allows.
type PolicyFunc struct {
	Hover  func(i *Interactor, t *Interactable) bool
	Select func(i *Interactor, t *Interactable) bool
}

func (p PolicyFunc) CanHover(i *Interactor, t *Interactable) bool {
	return p.Hover == nil || p.Hover(i, t)
}

func (p PolicyFunc) CanSelect(i *Interactor, t *Interactable) bool {
	return p.Select == nil || p.Select(i, t)
}

type refuseAll struct{}

func (refuseAll) CanHover(*Interactor, *Interactable) bool  { return false }
func (refuseAll) CanSelect(*Interactor, *Interactable) bool { return false }

// RefuseAll rejects every interaction.
var RefuseAll Policy = refuseAll{}

// WhileUnselected allows hover and select only while no other interactor
// holds the interactable.
func WhileUnselected() Policy {
	free := func(i *Interactor, t *Interactable) bool {
		for _, s := range t.selectors {
			if s != i {
				return false
			}
		}
		return true
	}
	return PolicyFunc{Hover: free, Select: free}
}

// OnlyKinds allows interactors of the listed kinds.
func OnlyKinds(kinds ...Kind) Policy {
	allowed := func(i *Interactor, _ *Interactable) bool {
		return slices.Contains(kinds, i.Kind)
	}
	return PolicyFunc{Hover: allowed, Select: allowed}
}
