package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/attach"
	"github.com/Faultbox/xri/internal/config"
	"github.com/Faultbox/xri/internal/feedback"
	"github.com/Faultbox/xri/internal/interaction"
	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/recording"
	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// Sim is a built scenario ready to step.
type Sim struct {
	Name     string
	World    *scene.World
	Clock    *scene.ManualClock
	Director *interaction.Director

	fixedStep time.Duration
	frameTime time.Duration
	accum     time.Duration
	frame     uint64

	players  []*recording.Player
	recorder *recording.Recorder
	haptics  []*feedback.Haptics
	counts   map[interaction.EventType]int
	handles  []interaction.CallbackHandle
	saveTo   string
}

// BodyState is an interactable's state at the end of a run.
type BodyState struct {
	Name      string
	Position  mgl32.Vec3
	Velocity  mgl32.Vec3
	Selectors []string
}

// Report summarizes a run.
type Report struct {
	Frames   uint64
	Elapsed  time.Duration
	Events   map[string]int
	Bodies   []BodyState
	Recorded int
}

// Build creates the scene, director and interactors described by sc.
func Build(sc *Scenario, cfg *config.Config) (*Sim, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	grab, err := cfg.Attachment.Settings()
	if err != nil {
		return nil, fmt.Errorf("attachment config: %w", err)
	}
	ray, err := cfg.Interaction.RayDefaults()
	if err != nil {
		return nil, fmt.Errorf("interaction config: %w", err)
	}

	world := scene.NewWorld()
	if len(sc.Gravity) > 0 {
		g, err := vec3(sc.Gravity, "gravity")
		if err != nil {
			return nil, err
		}
		world.Gravity = g
	}
	clock := scene.NewManualClock()
	s := &Sim{
		Name:      sc.Name,
		World:     world,
		Clock:     clock,
		Director:  interaction.NewDirector(world, clock),
		fixedStep: cfg.Simulation.FixedTimestep,
		frameTime: cfg.Simulation.FrameTime,
		counts:    make(map[interaction.EventType]int),
		saveTo:    cfg.Simulation.RecordPath,
	}
	if s.fixedStep <= 0 || s.frameTime <= 0 {
		return nil, fmt.Errorf("timesteps must be positive (fixed %v, frame %v)", s.fixedStep, s.frameTime)
	}
	s.observe()

	for _, o := range sc.Obstacles {
		c, err := o.collider()
		if err != nil {
			return nil, fmt.Errorf("obstacle: %w", err)
		}
		if c.Offset, err = vec3(o.Position, o.Name+" position"); err != nil {
			return nil, err
		}
		world.AddCollider(c, nil)
	}
	for _, spec := range sc.Interactables {
		if err := s.addInteractable(spec, grab); err != nil {
			return nil, fmt.Errorf("interactable %s: %w", spec.Name, err)
		}
	}
	for n, spec := range sc.Interactors {
		i, err := s.addInteractor(spec, cfg, ray)
		if err != nil {
			return nil, fmt.Errorf("interactor %s: %w", spec.Name, err)
		}
		// the first interactor can be recorded or replaced by a recording
		if n == 0 && cfg.Simulation.PlaybackPath != "" {
			if err := s.playback(i, cfg.Simulation.PlaybackPath); err != nil {
				return nil, err
			}
		} else if len(spec.Script) > 0 {
			rec, err := script(spec, i.Pose)
			if err != nil {
				return nil, fmt.Errorf("interactor %s: %w", spec.Name, err)
			}
			s.players = append(s.players, recording.NewPlayer(rec, i))
		}
		if n == 0 && cfg.Simulation.RecordPath != "" {
			s.recorder = recording.NewRecorder(recording.New(i.Name), i)
		}
	}
	world.Sync()

	logger.Info("scenario built",
		zap.String("scenario", sc.Name),
		zap.Int("interactors", len(sc.Interactors)),
		zap.Int("interactables", len(sc.Interactables)),
		zap.Int("obstacles", len(sc.Obstacles)))
	return s, nil
}

func (s *Sim) addInteractable(spec InteractableSpec, grab attach.Settings) error {
	c, err := spec.collider()
	if err != nil {
		return err
	}
	p, err := pose(spec.Position, spec.Rotation, spec.Name)
	if err != nil {
		return err
	}
	body := scene.NewRigidBody(spec.Name, p)
	if !spec.Dynamic {
		body.SetKinematic(true)
		body.SetUseGravity(false)
	}
	s.World.AddBody(body)
	id := s.World.AddCollider(c, body)

	t := interaction.NewInteractable(spec.Name, id)
	t.Layers = layers(spec.Layers)
	if t.SelectMode, err = interaction.ParseSelectMode(spec.SelectMode); err != nil {
		return err
	}
	if t.Policy, err = policy(spec.Policy); err != nil {
		return err
	}
	t.Grabbable = spec.Grabbable
	t.Body = body
	t.Attach = grab
	if spec.Movement != "" {
		if t.Attach.Movement, err = attach.ParseMovementType(spec.Movement); err != nil {
			return err
		}
	}
	off, err := vec3(spec.AttachOffset, "attach_offset")
	if err != nil {
		return err
	}
	t.AttachOffset = xmath.NewPose(off, mgl32.QuatIdent())
	return s.Director.RegisterInteractable(t)
}

func (s *Sim) addInteractor(spec InteractorSpec, cfg *config.Config, ray interaction.RayConfig) (*interaction.Interactor, error) {
	kind, err := interaction.ParseKind(spec.Kind)
	if err != nil {
		return nil, err
	}
	var r interaction.Resolver
	var listener scene.TriggerListener
	switch kind {
	case interaction.KindRay:
		rc := ray
		if spec.LineType != "" {
			if rc.LineType, err = interaction.ParseLineType(spec.LineType); err != nil {
				return nil, err
			}
		}
		if spec.HitDetection != "" {
			if rc.HitDetection, err = interaction.ParseHitDetection(spec.HitDetection); err != nil {
				return nil, err
			}
		}
		r = interaction.NewRayResolver(rc)
	case interaction.KindSocket:
		sr := interaction.NewSocketResolver()
		r, listener = sr, sr
	default:
		dr := interaction.NewDirectResolver()
		r, listener = dr, dr
	}

	i := interaction.NewInteractor(spec.Name, kind, r)
	if i.Pose, err = pose(spec.Position, spec.Rotation, spec.Name); err != nil {
		return nil, err
	}
	i.Layers = layers(spec.Layers)
	if spec.Trigger != "" {
		if i.Trigger, err = interaction.ParseTriggerMode(spec.Trigger); err != nil {
			return nil, err
		}
	}
	i.HoverToSelect = spec.HoverToSelect
	i.HoverToSelectDuration = cfg.Interaction.HoverToSelectDuration
	if spec.HoverToSelectDuration != nil {
		i.HoverToSelectDuration = *spec.HoverToSelectDuration
	}
	i.RecycleDelay = cfg.Interaction.RecycleDelay
	if spec.RecycleDelay != nil {
		i.RecycleDelay = *spec.RecycleDelay
	}
	if spec.Movement != "" {
		m, err := attach.ParseMovementType(spec.Movement)
		if err != nil {
			return nil, err
		}
		i.MovementOverride = &m
	}

	if listener != nil {
		radius := spec.Radius
		if radius <= 0 {
			radius = defaultTriggerRadius
		}
		id := s.World.AddCollider(scene.Collider{
			Name:      spec.Name,
			Shape:     scene.ShapeSphere,
			Radius:    radius,
			IsTrigger: true,
		}, i)
		s.World.SetTriggerListener(id, listener)
	}
	if spec.Haptics {
		s.haptics = append(s.haptics, feedback.Attach(i, feedback.LogDevice{Name: spec.Name}, cfg.Haptics))
	}
	return i, s.Director.RegisterInteractor(i)
}

// script turns keyframes into a recording the player steps through. A
// keyframe without a position or rotation keeps the previous one.
func script(spec InteractorSpec, start xmath.Pose) (*recording.Recording, error) {
	keys := append([]Keyframe(nil), spec.Script...)
	sort.SliceStable(keys, func(a, b int) bool { return keys[a].At < keys[b].At })
	rec := recording.New(spec.Name)
	cur := start
	for _, k := range keys {
		what := fmt.Sprintf("keyframe %v", k.At)
		if len(k.Position) > 0 {
			p, err := vec3(k.Position, what+" position")
			if err != nil {
				return nil, err
			}
			cur.Position = p
		}
		if len(k.Rotation) > 0 {
			q, err := rotation(k.Rotation, what+" rotation")
			if err != nil {
				return nil, err
			}
			cur.Rotation = q
		}
		if err := rec.Add(recording.Frame{Time: k.At, Pose: cur, Select: k.Select, Activate: k.Activate}); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (s *Sim) playback(i *interaction.Interactor, path string) error {
	rec, err := recording.Load(path)
	if err != nil {
		return err
	}
	s.players = append(s.players, recording.NewPlayer(rec, i))
	logger.Info("playing recording",
		zap.String("path", path),
		zap.Int("frames", rec.Len()),
		logger.Entity("interactor", i.Name, i.ID))
	return nil
}
