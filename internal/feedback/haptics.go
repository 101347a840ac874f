// Package feedback sends haptic impulses to an input device when its
// interactor hovers, selects or activates.
package feedback

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/interaction"
	"github.com/Faultbox/xri/internal/logger"
)

// Device is the controller an impulse is played on.
type Device interface {
	// SendImpulse plays a vibration of amplitude in [0, 1] for duration
	// seconds and reports whether the device accepted it.
	SendImpulse(amplitude, duration float32) bool
}

// Impulse is one vibration. A zero amplitude disables it.
type Impulse struct {
	Amplitude float32 `yaml:"amplitude"`
	Duration  float32 `yaml:"duration"`
}

// Settings maps interaction events to impulses.
type Settings struct {
	HoverEnter  Impulse `yaml:"hover_enter"`
	HoverExit   Impulse `yaml:"hover_exit"`
	SelectEnter Impulse `yaml:"select_enter"`
	SelectExit  Impulse `yaml:"select_exit"`
	Activate    Impulse `yaml:"activate"`
	Deactivate  Impulse `yaml:"deactivate"`
}

// DefaultSettings returns a light hover tick and a firmer select pulse.
func DefaultSettings() Settings {
	return Settings{
		HoverEnter:  Impulse{Amplitude: 0.25, Duration: 0.05},
		SelectEnter: Impulse{Amplitude: 0.5, Duration: 0.1},
		Activate:    Impulse{Amplitude: 0.75, Duration: 0.1},
	}
}

// Validate checks every impulse has an amplitude in [0, 1] and a
// non-negative duration.
func (s Settings) Validate() error {
	for t := interaction.HoverEnter; t <= interaction.Deactivate; t++ {
		imp := s.impulse(t)
		if imp.Amplitude < 0 || imp.Amplitude > 1 {
			return fmt.Errorf("%s amplitude %v outside [0, 1]", t, imp.Amplitude)
		}
		if imp.Duration < 0 {
			return fmt.Errorf("%s duration %v is negative", t, imp.Duration)
		}
	}
	return nil
}

func (s Settings) impulse(t interaction.EventType) Impulse {
	switch t {
	case interaction.HoverEnter:
		return s.HoverEnter
	case interaction.HoverExit:
		return s.HoverExit
	case interaction.SelectEnter:
		return s.SelectEnter
	case interaction.SelectExit:
		return s.SelectExit
	case interaction.Activate:
		return s.Activate
	case interaction.Deactivate:
		return s.Deactivate
	}
	return Impulse{}
}

var hapticEvents = []interaction.EventType{
	interaction.HoverEnter,
	interaction.HoverExit,
	interaction.SelectEnter,
	interaction.SelectExit,
	interaction.Activate,
	interaction.Deactivate,
}

// Haptics is an interactor add-on. It listens on the interactor's own
// events, so it only fires for pairs that interactor is part of.
type Haptics struct {
	Settings Settings

	device  Device
	owner   *interaction.Interactor
	handles []interaction.CallbackHandle
	sent    int
}

// Attach subscribes a Haptics add-on to i.
func Attach(i *interaction.Interactor, d Device, s Settings) *Haptics {
	h := &Haptics{Settings: s, device: d, owner: i}
	for _, t := range hapticEvents {
		h.handles = append(h.handles, i.Events.On(t, h.handle))
	}
	return h
}

// Detach removes the add-on's handlers.
func (h *Haptics) Detach() {
	for _, handle := range h.handles {
		handle.Remove()
	}
	h.handles = nil
}

// Sent returns how many impulses the device accepted.
func (h *Haptics) Sent() int { return h.sent }

func (h *Haptics) handle(ev interaction.Event) {
	imp := h.Settings.impulse(ev.Type)
	if imp.Amplitude <= 0 || imp.Duration <= 0 || h.device == nil {
		return
	}
	amp := min(imp.Amplitude, 1)
	if !h.device.SendImpulse(amp, imp.Duration) {
		logger.Debug("haptic impulse rejected",
			zap.Stringer("event", ev.Type),
			logger.Entity("interactor", h.owner.Name, h.owner.ID))
		return
	}
	h.sent++
}

// LogDevice is a Device that writes impulses to the log. The simulator
// uses it in place of a controller.
type LogDevice struct {
	Name string
}

// SendImpulse logs the impulse and accepts it.
func (d LogDevice) SendImpulse(amplitude, duration float32) bool {
	logger.Info("haptic impulse",
		zap.String("device", d.Name),
		zap.Float32("amplitude", amplitude),
		zap.Float32("duration", duration))
	return true
}
