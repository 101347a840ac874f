package interaction

import (
	"fmt"
	"slices"
)

// EventType identifies an interaction event.
type EventType int

const (
	HoverEnter EventType = iota
	HoverExit
	FirstHoverEnter
	LastHoverExit
	SelectEnter
	SelectExit
	Activate
	Deactivate

	eventTypeCount
)

func (e EventType) String() string {
	switch e {
	case HoverEnter:
		return "hover_enter"
	case HoverExit:
		return "hover_exit"
	case FirstHoverEnter:
		return "first_hover_enter"
	case LastHoverExit:
		return "last_hover_exit"
	case SelectEnter:
		return "select_enter"
	case SelectExit:
		return "select_exit"
	case Activate:
		return "activate"
	case Deactivate:
		return "deactivate"
	default:
		return fmt.Sprintf("EventType(%d)", int(e))
	}
}

// Event carries the pair an event fired for.
type Event struct {
	Type         EventType
	Interactor   *Interactor
	Interactable *Interactable
}

// Handler receives events.
type Handler func(Event)

type handler struct {
	id uint32
	fn Handler
}

// Events is a list of handlers per event type. The zero value is ready.
type Events struct {
	handlers [eventTypeCount][]handler
	nextID   uint32
}

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id    uint32
	reg   *Events
	event EventType
}

// On registers fn for events of type t.
func (e *Events) On(t EventType, fn Handler) CallbackHandle {
	if t < 0 || t >= eventTypeCount || fn == nil {
		return CallbackHandle{}
	}
	e.nextID++
	id := e.nextID
	e.handlers[t] = append(e.handlers[t], handler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: e, event: t}
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.handlers[h.event]
	for i := range s {
		if s[i].id == h.id {
			h.reg.handlers[h.event] = slices.Delete(s, i, i+1)
			return
		}
	}
}

// Len returns the number of handlers registered for t.
func (e *Events) Len(t EventType) int {
	if t < 0 || t >= eventTypeCount {
		return 0
	}
	return len(e.handlers[t])
}

func (e *Events) emit(ev Event) {
	hs := e.handlers[ev.Type]
	if len(hs) == 0 {
		return
	}
	// handlers may remove themselves while running
	for _, h := range slices.Clone(hs) {
		h.fn(ev)
	}
}
