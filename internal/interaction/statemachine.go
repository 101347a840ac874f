package interaction

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

// StateMachine owns the hover and select relations and emits their events.
// Events fire on the interactor, then the interactable, then the machine.
type StateMachine struct {
	Events Events

	now time.Duration
}

// NewStateMachine creates a state machine.
func NewStateMachine() *StateMachine {
	return &StateMachine{}
}

// Now returns the time of the last reconcile.
func (m *StateMachine) Now() time.Duration { return m.now }

// SetNow sets the time used for dwell and recycle checks.
func (m *StateMachine) SetNow(now time.Duration) { m.now = now }

// CanHover reports whether i may hover t.
func (m *StateMachine) CanHover(i *Interactor, t *Interactable) bool {
	if i == nil || t == nil || !i.Enabled {
		return false
	}
	if !i.Layers.Overlaps(t.Layers) {
		return false
	}
	return t.Policy == nil || t.Policy.CanHover(i, t)
}

// CanSelect reports whether i may start selecting t.
func (m *StateMachine) CanSelect(i *Interactor, t *Interactable) bool {
	return m.canSelect(i, t, false)
}

func (m *StateMachine) canSelect(i *Interactor, t *Interactable, keeping bool) bool {
	if i == nil || t == nil || !i.Enabled {
		return false
	}
	if !i.Layers.Overlaps(t.Layers) {
		return false
	}
	if i.selection != nil && i.selection != t {
		return false
	}
	if !keeping {
		if i.released && i.RecycleDelay > 0 && scene.Seconds(m.now-i.lastRelease) < i.RecycleDelay {
			return false
		}
		if !i.Exclusive && t.selectedByOther(i) {
			return false
		}
	}
	return t.Policy == nil || t.Policy.CanSelect(i, t)
}

// Reconcile brings i's relations in line with this tick's candidates.
func (m *StateMachine) Reconcile(i *Interactor, candidates []*Interactable) {
	dwelled := m.updateDwell(i, candidates)

	pressed := i.selectInput && !i.prevSelectInput
	i.prevSelectInput = i.selectInput
	if i.Trigger == TriggerToggle && pressed {
		i.toggled = !i.toggled
	}
	inputActive := m.inputActive(i)

	if sel := i.selection; sel != nil {
		held := inputActive || (i.dwellReady && i.dwellTarget == sel)
		if !held || !m.canSelect(i, sel, true) {
			m.selectExit(i, sel)
		}
	}

	for _, t := range slices.Clone(i.hovers) {
		if !slices.Contains(candidates, t) || !m.CanHover(i, t) {
			m.hoverExit(i, t)
		}
	}
	for _, t := range candidates {
		if !i.IsHovering(t) && m.CanHover(i, t) {
			m.hoverEnter(i, t)
		}
	}

	if i.selection == nil && (inputActive || i.dwellReady) {
		for _, t := range candidates {
			if !inputActive && t != i.dwellTarget {
				continue
			}
			if !i.IsHovering(t) || !m.CanSelect(i, t) {
				continue
			}
			// taking a held single-mode target needs a fresh press or dwell
			if t.SelectMode == SelectSingle && t.selectedByOther(i) && !pressed && !dwelled {
				continue
			}
			m.steal(i, t)
			m.selectEnter(i, t)
			break
		}
	}
	if i.Trigger == TriggerToggle && i.toggled && i.selection == nil {
		i.toggled = false
	}

	m.updateActivate(i)
}

func (m *StateMachine) inputActive(i *Interactor) bool {
	switch i.Trigger {
	case TriggerAlways:
		return true
	case TriggerToggle:
		return i.toggled
	default:
		return i.selectInput
	}
}

// updateDwell tracks the dwell target and reports whether the dwell
// completed on this tick.
func (m *StateMachine) updateDwell(i *Interactor, candidates []*Interactable) bool {
	if !i.HoverToSelect {
		i.dwellTarget = nil
		i.dwellReady = false
		return false
	}
	var nearest *Interactable
	for _, t := range candidates {
		if m.CanHover(i, t) {
			nearest = t
			break
		}
	}
	if nearest != i.dwellTarget {
		i.dwellTarget = nearest
		i.dwellStart = m.now
		i.dwellReady = false
	}
	if nearest != nil && !i.dwellReady && scene.Seconds(m.now-i.dwellStart) >= i.HoverToSelectDuration {
		i.dwellReady = true
		return true
	}
	return false
}

func (m *StateMachine) updateActivate(i *Interactor) {
	rising := i.activateInput && !i.prevActivateInput
	falling := !i.activateInput && i.prevActivateInput
	i.prevActivateInput = i.activateInput

	switch {
	case i.selection == nil:
		i.activated = false
	case rising && !i.activated:
		i.activated = true
		m.emit(Event{Type: Activate, Interactor: i, Interactable: i.selection})
	case falling && i.activated:
		i.activated = false
		m.emit(Event{Type: Deactivate, Interactor: i, Interactable: i.selection})
	}
}

// steal ends other selections of a single-mode interactable before i takes it.
func (m *StateMachine) steal(i *Interactor, t *Interactable) {
	if t.SelectMode != SelectSingle {
		return
	}
	for _, other := range slices.Clone(t.selectors) {
		if other != i {
			m.selectExit(other, t)
		}
	}
}

func (m *StateMachine) hoverEnter(i *Interactor, t *Interactable) {
	if i.IsHovering(t) || slices.Contains(t.hoverers, i) {
		violation("hover enter on existing hover", pairFields(i, t)...)
		return
	}
	first := len(t.hoverers) == 0
	i.hovers = append(i.hovers, t)
	t.hoverers = append(t.hoverers, i)
	if first {
		m.emit(Event{Type: FirstHoverEnter, Interactor: i, Interactable: t})
	}
	m.emit(Event{Type: HoverEnter, Interactor: i, Interactable: t})
}

func (m *StateMachine) hoverExit(i *Interactor, t *Interactable) {
	idx := slices.Index(i.hovers, t)
	tidx := slices.Index(t.hoverers, i)
	if idx < 0 || tidx < 0 {
		violation("hover exit without hover", pairFields(i, t)...)
		return
	}
	i.hovers = slices.Delete(i.hovers, idx, idx+1)
	t.hoverers = slices.Delete(t.hoverers, tidx, tidx+1)
	m.emit(Event{Type: HoverExit, Interactor: i, Interactable: t})
	if len(t.hoverers) == 0 {
		m.emit(Event{Type: LastHoverExit, Interactor: i, Interactable: t})
	}
}

func (m *StateMachine) selectEnter(i *Interactor, t *Interactable) {
	if i.selection != nil || slices.Contains(t.selectors, i) {
		violation("select enter while selecting", pairFields(i, t)...)
		return
	}
	i.selection = t
	t.selectors = append(t.selectors, i)
	m.emit(Event{Type: SelectEnter, Interactor: i, Interactable: t})
}

func (m *StateMachine) selectExit(i *Interactor, t *Interactable) {
	tidx := slices.Index(t.selectors, i)
	if i.selection != t || tidx < 0 {
		violation("select exit without selection", pairFields(i, t)...)
		return
	}
	if i.activated {
		i.activated = false
		m.emit(Event{Type: Deactivate, Interactor: i, Interactable: t})
	}
	i.selection = nil
	t.selectors = slices.Delete(t.selectors, tidx, tidx+1)
	i.released = true
	i.lastRelease = m.now
	i.toggled = false
	m.emit(Event{Type: SelectExit, Interactor: i, Interactable: t})
}

// TeardownInteractor ends every relation of i.
func (m *StateMachine) TeardownInteractor(i *Interactor) {
	if sel := i.selection; sel != nil {
		m.selectExit(i, sel)
	}
	for _, t := range slices.Clone(i.hovers) {
		m.hoverExit(i, t)
	}
	i.dwellTarget = nil
	i.dwellReady = false
	i.candidates = i.candidates[:0]
}

// TeardownInteractable ends every relation of t.
func (m *StateMachine) TeardownInteractable(t *Interactable) {
	for _, i := range slices.Clone(t.selectors) {
		m.selectExit(i, t)
	}
	for _, i := range slices.Clone(t.hoverers) {
		m.hoverExit(i, t)
	}
}

func (m *StateMachine) emit(ev Event) {
	logger.Debug("interaction event",
		zap.Stringer("event", ev.Type),
		logger.Entity("interactor", ev.Interactor.Name, ev.Interactor.ID),
		logger.Entity("interactable", ev.Interactable.Name, ev.Interactable.ID))
	ev.Interactor.Events.emit(ev)
	ev.Interactable.Events.emit(ev)
	m.Events.emit(ev)
}

func pairFields(i *Interactor, t *Interactable) []zap.Field {
	return []zap.Field{
		logger.Entity("interactor", i.Name, i.ID),
		logger.Entity("interactable", t.Name, t.ID),
	}
}
