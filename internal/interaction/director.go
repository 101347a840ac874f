package interaction

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/attach"
	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

// Director runs the per-tick pipeline: resolve candidates, reconcile
// relations, drive attachments and process deferred detaches. It is not
// safe for concurrent use; call every phase from one goroutine.
type Director struct {
	Registry *Registry
	Machine  *StateMachine

	query scene.Query
	clock scene.Clock
	ctx   ResolveContext

	interactors   []*Interactor
	interactables []*Interactable

	inTick               bool
	pendingInteractors   []*Interactor
	pendingInteractables []*Interactable
}

// NewDirector creates a director over the given scene services.
func NewDirector(query scene.Query, clock scene.Clock) *Director {
	if clock == nil {
		clock = scene.NewManualClock()
	}
	d := &Director{
		Registry: NewRegistry(),
		Machine:  NewStateMachine(),
		query:    query,
		clock:    clock,
	}
	d.Machine.Events.On(SelectEnter, d.onSelectEnter)
	d.Machine.Events.On(SelectExit, d.onSelectExit)
	return d
}

func (d *Director) Interactors() []*Interactor     { return d.interactors }
func (d *Director) Interactables() []*Interactable { return d.interactables }
func (d *Director) Clock() scene.Clock             { return d.clock }

// RegisterInteractor adds i to the tick loop.
func (d *Director) RegisterInteractor(i *Interactor) error {
	if i == nil {
		return fmt.Errorf("register interactor: %w", ErrNotRegistered)
	}
	if i.registered {
		return fmt.Errorf("register interactor %s: %w", i.Name, ErrAlreadyRegistered)
	}
	if i.Resolver == nil {
		return fmt.Errorf("register interactor %s: %w", i.Name, ErrNoResolver)
	}
	i.registered = true
	d.interactors = append(d.interactors, i)
	logger.Debug("interactor registered",
		logger.Entity("interactor", i.Name, i.ID),
		zap.Stringer("kind", i.Kind))
	return nil
}

// UnregisterInteractor tears down i's relations and removes it. During a
// tick the removal waits until ProcessDetach.
func (d *Director) UnregisterInteractor(i *Interactor) error {
	if i == nil || !i.registered {
		return fmt.Errorf("unregister interactor: %w", ErrNotRegistered)
	}
	if d.inTick {
		if !slices.Contains(d.pendingInteractors, i) {
			d.pendingInteractors = append(d.pendingInteractors, i)
		}
		return nil
	}
	d.removeInteractor(i)
	return nil
}

// RegisterInteractable maps t's colliders and, for grabbables with a body,
// creates its attachment controller.
func (d *Director) RegisterInteractable(t *Interactable) error {
	if t == nil {
		return fmt.Errorf("register interactable: %w", ErrNotRegistered)
	}
	if t.registered {
		return fmt.Errorf("register interactable %s: %w", t.Name, ErrAlreadyRegistered)
	}
	for _, c := range t.Colliders {
		d.Registry.Register(c, t)
	}
	if t.Grabbable {
		if t.Body == nil {
			logger.Warn("grabbable interactable has no body, attachment disabled",
				logger.Entity("interactable", t.Name, t.ID))
		} else {
			t.controller = attach.NewController(t.Name, t.Body, t.AttachOffset, t.Attach)
		}
	}
	t.registered = true
	d.interactables = append(d.interactables, t)
	logger.Debug("interactable registered",
		logger.Entity("interactable", t.Name, t.ID),
		zap.Int("colliders", len(t.Colliders)))
	return nil
}

// UnregisterInteractable tears down t's relations, restores its body and
// removes its colliders. During a tick the removal waits until ProcessDetach.
func (d *Director) UnregisterInteractable(t *Interactable) error {
	if t == nil || !t.registered {
		return fmt.Errorf("unregister interactable: %w", ErrNotRegistered)
	}
	if d.inTick {
		if !slices.Contains(d.pendingInteractables, t) {
			d.pendingInteractables = append(d.pendingInteractables, t)
		}
		return nil
	}
	d.removeInteractable(t)
	return nil
}

// ResolveCandidates asks every interactor's resolver for its candidates.
func (d *Director) ResolveCandidates() {
	d.inTick = true
	now := d.clock.Now()
	d.Machine.SetNow(now)
	d.ctx = ResolveContext{Registry: d.Registry, Query: d.query, Clock: d.clock, Now: now}

	for _, i := range d.interactors {
		if !i.Enabled {
			i.candidates = i.candidates[:0]
			continue
		}
		i.candidates = i.Resolver.ValidTargets(&d.ctx, i, i.candidates)
	}
}

// Reconcile updates hover and select relations from the candidates.
func (d *Director) Reconcile() {
	d.inTick = true
	for _, i := range d.interactors {
		d.Machine.Reconcile(i, i.candidates)
	}
}

// FixedUpdate runs the physics-step phase of held interactables.
func (d *Director) FixedUpdate(dt float32) { d.tickControllers(attach.PhaseFixed, dt) }

// Update runs the per-frame phase of held interactables.
func (d *Director) Update(dt float32) { d.tickControllers(attach.PhaseDynamic, dt) }

// PreRender runs the late phase of held interactables.
func (d *Director) PreRender(dt float32) { d.tickControllers(attach.PhasePreRender, dt) }

func (d *Director) tickControllers(phase attach.Phase, dt float32) {
	d.inTick = true
	for _, t := range d.interactables {
		if t.controller != nil {
			t.controller.Tick(phase, dt)
		}
	}
}

// ProcessDetach restores released bodies and then applies unregistrations
// requested during the tick.
func (d *Director) ProcessDetach() {
	for _, t := range d.interactables {
		if t.controller != nil {
			t.controller.ProcessDetach()
		}
	}
	d.inTick = false

	pendingI, pendingT := d.pendingInteractors, d.pendingInteractables
	d.pendingInteractors, d.pendingInteractables = nil, nil
	for _, i := range pendingI {
		if i.registered {
			d.removeInteractor(i)
		}
	}
	for _, t := range pendingT {
		if t.registered {
			d.removeInteractable(t)
		}
	}
}

// Tick runs all six phases in order.
func (d *Director) Tick(fixedDt, dt float32) {
	d.ResolveCandidates()
	d.Reconcile()
	d.FixedUpdate(fixedDt)
	d.Update(dt)
	d.PreRender(dt)
	d.ProcessDetach()
}

func (d *Director) removeInteractor(i *Interactor) {
	d.Machine.TeardownInteractor(i)
	i.registered = false
	if idx := slices.Index(d.interactors, i); idx >= 0 {
		d.interactors = slices.Delete(d.interactors, idx, idx+1)
	}
	logger.Debug("interactor unregistered", logger.Entity("interactor", i.Name, i.ID))
}

func (d *Director) removeInteractable(t *Interactable) {
	d.Machine.TeardownInteractable(t)
	if t.controller != nil {
		t.controller.ProcessDetach()
		t.controller = nil
	}
	for _, c := range slices.Clone(d.Registry.Colliders(t)) {
		d.Registry.Unregister(c)
	}
	t.registered = false
	if idx := slices.Index(d.interactables, t); idx >= 0 {
		d.interactables = slices.Delete(d.interactables, idx, idx+1)
	}
	logger.Debug("interactable unregistered", logger.Entity("interactable", t.Name, t.ID))
}

func (d *Director) onSelectEnter(ev Event) {
	t := ev.Interactable
	if t.controller == nil || t.anchor != nil {
		return
	}
	t.anchor = ev.Interactor
	t.controller.Begin(ev.Interactor, ev.Interactor.MovementOverride)
}

func (d *Director) onSelectExit(ev Event) {
	t := ev.Interactable
	if t.controller == nil || t.anchor != ev.Interactor {
		return
	}
	t.anchor = nil
	if len(t.selectors) > 0 {
		next := t.selectors[0]
		t.anchor = next
		t.controller.Begin(next, next.MovementOverride)
		return
	}
	t.controller.End()
	linear, angular := t.controller.ReleaseVelocity()
	logger.Debug("interactable released",
		logger.Entity("interactable", t.Name, t.ID),
		zap.String("interactor", ev.Interactor.Name),
		zap.Float32("speed", linear.Len()),
		zap.Float32("spin", angular.Len()))
}
