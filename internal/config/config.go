// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/xri/internal/attach"
	"github.com/Faultbox/xri/internal/feedback"
	"github.com/Faultbox/xri/internal/interaction"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// Config holds all simulator settings.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation"`
	Interaction InteractionConfig `yaml:"interaction"`
	Attachment  AttachmentConfig  `yaml:"attachment"`
	Haptics     feedback.Settings `yaml:"haptics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SimulationConfig holds the headless tick loop settings.
type SimulationConfig struct {
	FixedTimestep time.Duration `yaml:"fixed_timestep"`
	FrameTime     time.Duration `yaml:"frame_time"`
	Ticks         int           `yaml:"ticks"`
	Scenario      string        `yaml:"scenario"`
	RecordPath    string        `yaml:"record_path"`   // write the first interactor's poses here
	PlaybackPath  string        `yaml:"playback_path"` // drive the first interactor from here
}

// InteractionConfig holds defaults applied to interactors a scenario
// does not configure explicitly.
type InteractionConfig struct {
	HoverToSelectDuration float32 `yaml:"hover_to_select_duration"`
	RecycleDelay          float32 `yaml:"recycle_delay"`

	LineType           string  `yaml:"line_type"`
	MaxRaycastDistance float32 `yaml:"max_raycast_distance"`
	SampleFrequency    int     `yaml:"sample_frequency"`
	MaxSampleFrequency int     `yaml:"max_sample_frequency"`
	HitDetection       string  `yaml:"hit_detection"`
	SphereCastRadius   float32 `yaml:"sphere_cast_radius"`
}

// AttachmentConfig holds defaults for grabbable interactables.
type AttachmentConfig struct {
	Movement         string  `yaml:"movement"`
	EaseInTime       float32 `yaml:"ease_in_time"`
	UseDynamicAttach bool    `yaml:"use_dynamic_attach"`

	SmoothPosition       bool    `yaml:"smooth_position"`
	SmoothPositionAmount float32 `yaml:"smooth_position_amount"`
	TightenPosition      float32 `yaml:"tighten_position"`
	SmoothRotation       bool    `yaml:"smooth_rotation"`
	SmoothRotationAmount float32 `yaml:"smooth_rotation_amount"`
	TightenRotation      float32 `yaml:"tighten_rotation"`

	VelocityDamping        float32 `yaml:"velocity_damping"`
	VelocityScale          float32 `yaml:"velocity_scale"`
	AngularVelocityDamping float32 `yaml:"angular_velocity_damping"`
	AngularVelocityScale   float32 `yaml:"angular_velocity_scale"`

	ThrowOnDetach             bool    `yaml:"throw_on_detach"`
	ThrowWindow               float32 `yaml:"throw_window"`
	ThrowCurve                string  `yaml:"throw_curve"`
	ThrowFrames               int     `yaml:"throw_frames"`
	ThrowVelocityScale        float32 `yaml:"throw_velocity_scale"`
	ThrowAngularVelocityScale float32 `yaml:"throw_angular_velocity_scale"`
	ForceGravityOnDetach      bool    `yaml:"force_gravity_on_detach"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	ray := interaction.DefaultRayConfig()
	grab := attach.DefaultSettings()
	return &Config{
		Simulation: SimulationConfig{
			FixedTimestep: 20 * time.Millisecond,
			FrameTime:     time.Second / 60,
			Ticks:         300,
		},
		Interaction: InteractionConfig{
			HoverToSelectDuration: 0.5,
			LineType:              ray.LineType.String(),
			MaxRaycastDistance:    ray.MaxRaycastDistance,
			SampleFrequency:       ray.SampleFrequency,
			MaxSampleFrequency:    ray.MaxSampleFrequency,
			HitDetection:          ray.HitDetection.String(),
			SphereCastRadius:      ray.SphereCastRadius,
		},
		Attachment: AttachmentConfig{
			Movement:                  grab.Movement.String(),
			EaseInTime:                grab.AttachEaseInTime,
			SmoothPositionAmount:      grab.SmoothPositionAmount,
			TightenPosition:           grab.TightenPosition,
			SmoothRotationAmount:      grab.SmoothRotationAmount,
			TightenRotation:           grab.TightenRotation,
			VelocityDamping:           grab.VelocityDamping,
			VelocityScale:             grab.VelocityScale,
			AngularVelocityDamping:    grab.AngularVelocityDamping,
			AngularVelocityScale:      grab.AngularVelocityScale,
			ThrowOnDetach:             grab.ThrowOnDetach,
			ThrowWindow:               grab.ThrowSmoothingDuration,
			ThrowCurve:                "linear",
			ThrowFrames:               grab.ThrowFrames,
			ThrowVelocityScale:        grab.ThrowVelocityScale,
			ThrowAngularVelocityScale: grab.ThrowAngularVelocityScale,
		},
		Haptics: feedback.DefaultSettings(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// RayDefaults converts the interaction section into a ray resolver config.
func (c InteractionConfig) RayDefaults() (interaction.RayConfig, error) {
	cfg := interaction.DefaultRayConfig()
	lt, err := interaction.ParseLineType(c.LineType)
	if err != nil {
		return cfg, err
	}
	hd, err := interaction.ParseHitDetection(c.HitDetection)
	if err != nil {
		return cfg, err
	}
	cfg.LineType = lt
	cfg.HitDetection = hd
	if c.MaxRaycastDistance > 0 {
		cfg.MaxRaycastDistance = c.MaxRaycastDistance
	}
	if c.SampleFrequency > 0 {
		cfg.SampleFrequency = c.SampleFrequency
	}
	if c.MaxSampleFrequency > 0 {
		cfg.MaxSampleFrequency = c.MaxSampleFrequency
	}
	if c.SphereCastRadius > 0 {
		cfg.SphereCastRadius = c.SphereCastRadius
	}
	return cfg, nil
}

// Settings converts the attachment section into attach settings.
func (c AttachmentConfig) Settings() (attach.Settings, error) {
	s := attach.DefaultSettings()
	m, err := attach.ParseMovementType(c.Movement)
	if err != nil {
		return s, err
	}
	curve, ok := xmath.EasingByName(c.ThrowCurve)
	if !ok {
		return s, fmt.Errorf("unknown throw curve %q", c.ThrowCurve)
	}
	s.Movement = m
	s.AttachEaseInTime = c.EaseInTime
	s.UseDynamicAttach = c.UseDynamicAttach
	s.SmoothPosition = c.SmoothPosition
	s.SmoothPositionAmount = c.SmoothPositionAmount
	s.TightenPosition = c.TightenPosition
	s.SmoothRotation = c.SmoothRotation
	s.SmoothRotationAmount = c.SmoothRotationAmount
	s.TightenRotation = c.TightenRotation
	s.VelocityDamping = c.VelocityDamping
	s.VelocityScale = c.VelocityScale
	s.AngularVelocityDamping = c.AngularVelocityDamping
	s.AngularVelocityScale = c.AngularVelocityScale
	s.ThrowOnDetach = c.ThrowOnDetach
	s.ThrowSmoothingDuration = c.ThrowWindow
	s.ThrowSmoothingCurve = curve
	s.ThrowFrames = c.ThrowFrames
	s.ThrowVelocityScale = c.ThrowVelocityScale
	s.ThrowAngularVelocityScale = c.ThrowAngularVelocityScale
	s.ForceGravityOnDetach = c.ForceGravityOnDetach
	return s, nil
}
