package sim

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/interaction"
	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

var loggedEvents = []interaction.EventType{
	interaction.HoverEnter,
	interaction.HoverExit,
	interaction.FirstHoverEnter,
	interaction.LastHoverExit,
	interaction.SelectEnter,
	interaction.SelectExit,
	interaction.Activate,
	interaction.Deactivate,
}

// observe logs and counts every event the director's state machine emits.
func (s *Sim) observe() {
	for _, t := range loggedEvents {
		h := s.Director.Machine.Events.On(t, func(ev interaction.Event) {
			s.counts[ev.Type]++
			logger.Info("event",
				logger.Tick(s.frame),
				zap.Stringer("type", ev.Type),
				logger.Entity("interactor", ev.Interactor.Name, ev.Interactor.ID),
				logger.Entity("interactable", ev.Interactable.Name, ev.Interactable.ID))
		})
		s.handles = append(s.handles, h)
	}
}

// Step advances one frame. Physics runs in whole fixed steps, so a frame
// may run zero or several fixed updates.
func (s *Sim) Step() {
	s.frame++
	s.Clock.Advance(s.frameTime)
	now := s.Clock.Now()
	dt := scene.Seconds(s.frameTime)
	fixed := scene.Seconds(s.fixedStep)

	for _, p := range s.players {
		p.Apply(now)
	}

	s.Director.ResolveCandidates()
	s.Director.Reconcile()
	s.accum += s.frameTime
	for s.accum >= s.fixedStep {
		s.Director.FixedUpdate(fixed)
		s.World.Step(fixed)
		s.accum -= s.fixedStep
	}
	s.Director.Update(dt)
	s.Director.PreRender(dt)
	s.Director.ProcessDetach()
	// attach phases move bodies outside the fixed loop
	s.World.Sync()

	if s.recorder != nil {
		s.recorder.Sample(now)
	}
}

// Run steps frames until the count is reached or ctx is done, then saves
// the recording if one was requested.
func (s *Sim) Run(ctx context.Context, frames int) (Report, error) {
	logger.Info("simulation started",
		zap.String("scenario", s.Name),
		zap.Int("frames", frames),
		zap.Duration("fixed_step", s.fixedStep),
		zap.Duration("frame_time", s.frameTime))

	start := time.Now()
	for n := 0; n < frames; n++ {
		if err := ctx.Err(); err != nil {
			return s.Report(), err
		}
		s.Step()
	}
	logger.Debug("simulation finished", zap.Duration("wall", time.Since(start)))

	if s.recorder != nil && s.saveTo != "" {
		if err := s.recorder.Recording().Save(s.saveTo); err != nil {
			return s.Report(), err
		}
		logger.Info("recording saved",
			zap.String("path", s.saveTo),
			zap.Int("frames", s.recorder.Recording().Len()))
	}
	return s.Report(), nil
}

// Report summarizes the run so far.
func (s *Sim) Report() Report {
	r := Report{
		Frames:  s.frame,
		Elapsed: s.Clock.Now(),
		Events:  make(map[string]int, len(s.counts)),
	}
	for t, n := range s.counts {
		r.Events[t.String()] = n
	}
	for _, t := range s.Director.Interactables() {
		st := BodyState{Name: t.Name}
		if t.Body != nil {
			st.Position = t.Body.Position()
			st.Velocity = t.Body.Velocity()
		}
		for _, i := range t.Selectors() {
			st.Selectors = append(st.Selectors, i.Name)
		}
		r.Bodies = append(r.Bodies, st)
	}
	if s.recorder != nil {
		r.Recorded = s.recorder.Recording().Len()
	}
	return r
}

// Body returns the end state of the named interactable.
func (r Report) Body(name string) (BodyState, bool) {
	i := slices.IndexFunc(r.Bodies, func(b BodyState) bool { return b.Name == name })
	if i < 0 {
		return BodyState{}, false
	}
	return r.Bodies[i], true
}

// Close detaches add-ons and unregisters everything, restoring held bodies.
func (s *Sim) Close() {
	for _, h := range s.haptics {
		h.Detach()
	}
	for _, i := range slices.Clone(s.Director.Interactors()) {
		if err := s.Director.UnregisterInteractor(i); err != nil {
			logger.Warn("unregister interactor", zap.Error(err))
		}
	}
	for _, t := range slices.Clone(s.Director.Interactables()) {
		if err := s.Director.UnregisterInteractable(t); err != nil {
			logger.Warn("unregister interactable", zap.Error(err))
		}
	}
	for _, h := range s.handles {
		h.Remove()
	}
}
