// Package sim runs interaction scenarios headless against the reference
// scene.
package sim

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/xri/internal/interaction"
	"github.com/Faultbox/xri/internal/scene"
	xmath "github.com/Faultbox/xri/pkg/math"
)

// Scenario describes a scene and the interactors acting in it.
type Scenario struct {
	Name    string    `yaml:"name"`
	Gravity []float32 `yaml:"gravity,flow"` // empty keeps the world default

	Obstacles     []ColliderSpec     `yaml:"obstacles"`
	Interactables []InteractableSpec `yaml:"interactables"`
	Interactors   []InteractorSpec   `yaml:"interactors"`
}

// ColliderSpec is a static or body-attached volume.
type ColliderSpec struct {
	Name        string    `yaml:"name"`
	Shape       string    `yaml:"shape"` // box or sphere
	Position    []float32 `yaml:"position,flow"`
	HalfExtents []float32 `yaml:"half_extents,flow"`
	Radius      float32   `yaml:"radius"`
	Layer       uint32    `yaml:"layer"`
}

// InteractableSpec is an object interactors can hover and select.
type InteractableSpec struct {
	ColliderSpec `yaml:",inline"`

	Rotation   []float32 `yaml:"rotation,flow"` // yaw, pitch, roll in degrees
	Layers     uint32    `yaml:"layers"`        // interaction layers, 0 means all
	SelectMode string    `yaml:"select_mode"`
	Policy     string    `yaml:"policy"` // "", while_unselected, refuse_all

	Grabbable    bool      `yaml:"grabbable"`
	Dynamic      bool      `yaml:"dynamic"` // falls under gravity while not held
	Movement     string    `yaml:"movement"`
	AttachOffset []float32 `yaml:"attach_offset,flow"`
}

// InteractorSpec is a hand, pointer or socket.
type InteractorSpec struct {
	Name     string    `yaml:"name"`
	Kind     string    `yaml:"kind"`
	Position []float32 `yaml:"position,flow"`
	Rotation []float32 `yaml:"rotation,flow"`
	Layers   uint32    `yaml:"layers"`
	Trigger  string    `yaml:"trigger"`
	Radius   float32   `yaml:"radius"` // trigger volume of direct and socket interactors

	LineType     string `yaml:"line_type"`
	HitDetection string `yaml:"hit_detection"`

	HoverToSelect         bool     `yaml:"hover_to_select"`
	HoverToSelectDuration *float32 `yaml:"hover_to_select_duration"`
	RecycleDelay          *float32 `yaml:"recycle_delay"`
	Movement              string   `yaml:"movement"` // overrides the interactable's movement
	Haptics               bool     `yaml:"haptics"`

	Script []Keyframe `yaml:"script"`
}

// Keyframe sets an interactor's pose and inputs from At onward.
type Keyframe struct {
	At       time.Duration `yaml:"at"`
	Position []float32     `yaml:"position,flow"`
	Rotation []float32     `yaml:"rotation,flow"`
	Select   bool          `yaml:"select"`
	Activate bool          `yaml:"activate"`
}

const defaultTriggerRadius = 0.1

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario from %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes a scenario from YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func vec3(v []float32, what string) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec3{}, nil
	case 3:
		out := mgl32.Vec3{v[0], v[1], v[2]}
		if !xmath.IsFinite(out) {
			return mgl32.Vec3{}, fmt.Errorf("%s is not finite", what)
		}
		return out, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("%s needs 3 values, got %d", what, len(v))
}

// rotation converts yaw, pitch, roll degrees into a quaternion.
func rotation(v []float32, what string) (mgl32.Quat, error) {
	e, err := vec3(v, what)
	if err != nil {
		return mgl32.QuatIdent(), err
	}
	return mgl32.AnglesToQuat(mgl32.DegToRad(e[0]), mgl32.DegToRad(e[1]), mgl32.DegToRad(e[2]), mgl32.YXZ), nil
}

func pose(pos, rot []float32, name string) (xmath.Pose, error) {
	p, err := vec3(pos, name+" position")
	if err != nil {
		return xmath.Pose{}, err
	}
	q, err := rotation(rot, name+" rotation")
	if err != nil {
		return xmath.Pose{}, err
	}
	return xmath.NewPose(p, q), nil
}

// collider builds the scene collider. Position is applied by the caller
// as either the static offset or the owning body's pose.
func (c ColliderSpec) collider() (scene.Collider, error) {
	out := scene.Collider{Name: c.Name, Layer: scene.Layers(c.Layer)}
	switch strings.ToLower(c.Shape) {
	case "box", "":
		half, err := vec3(c.HalfExtents, c.Name+" half_extents")
		if err != nil {
			return out, err
		}
		if half == (mgl32.Vec3{}) {
			half = mgl32.Vec3{0.5, 0.5, 0.5}
		}
		out.Shape = scene.ShapeBox
		out.HalfExtents = half
	case "sphere":
		if c.Radius <= 0 {
			return out, fmt.Errorf("%s: sphere needs a positive radius", c.Name)
		}
		out.Shape = scene.ShapeSphere
		out.Radius = c.Radius
	default:
		return out, fmt.Errorf("%s: unknown shape %q", c.Name, c.Shape)
	}
	return out, nil
}

func policy(name string) (interaction.Policy, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "while_unselected":
		return interaction.WhileUnselected(), nil
	case "refuse_all":
		return interaction.RefuseAll, nil
	}
	return nil, fmt.Errorf("unknown policy %q", name)
}

func layers(v uint32) interaction.LayerMask {
	if v == 0 {
		return interaction.LayerEverything
	}
	return interaction.LayerMask(v)
}
