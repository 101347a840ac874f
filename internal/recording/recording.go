// Package recording captures interactor poses and inputs over time and
// plays them back.
package recording

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	xmath "github.com/Faultbox/xri/pkg/math"
)

// ErrNotIncreasing is returned when a frame does not come strictly after
// the previous one.
var ErrNotIncreasing = errors.New("frame timestamps must be strictly increasing")

// Frame is one sample of a device.
type Frame struct {
	Time     time.Duration
	Pose     xmath.Pose
	Select   bool
	Activate bool
}

// Recording is an ordered list of frames.
type Recording struct {
	ID     uuid.UUID
	Name   string
	frames []Frame
}

// New creates an empty recording.
func New(name string) *Recording {
	return &Recording{ID: uuid.New(), Name: name}
}

// Add appends f. Its time must be after the last frame's.
func (r *Recording) Add(f Frame) error {
	if n := len(r.frames); n > 0 && f.Time <= r.frames[n-1].Time {
		return fmt.Errorf("%w: %v after %v", ErrNotIncreasing, f.Time, r.frames[n-1].Time)
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *Recording) Len() int        { return len(r.frames) }
func (r *Recording) Frames() []Frame { return r.frames }

// Duration returns the time of the last frame.
func (r *Recording) Duration() time.Duration {
	if len(r.frames) == 0 {
		return 0
	}
	return r.frames[len(r.frames)-1].Time
}

// At returns the last frame at or before t. It reports false when t is
// before the first frame.
func (r *Recording) At(t time.Duration) (Frame, bool) {
	i := sort.Search(len(r.frames), func(i int) bool { return r.frames[i].Time > t })
	if i == 0 {
		return Frame{}, false
	}
	return r.frames[i-1], true
}

type fileFormat struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Frames []frameYAML `yaml:"frames"`
}

type frameYAML struct {
	Time     time.Duration `yaml:"t"`
	Position []float32     `yaml:"position,flow"`
	Rotation []float32     `yaml:"rotation,flow"` // w, x, y, z
	Select   bool          `yaml:"select,omitempty"`
	Activate bool          `yaml:"activate,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (r *Recording) MarshalYAML() (any, error) {
	out := fileFormat{ID: r.ID.String(), Name: r.Name, Frames: make([]frameYAML, len(r.frames))}
	for i, f := range r.frames {
		p, q := f.Pose.Position, f.Pose.Rot()
		out.Frames[i] = frameYAML{
			Time:     f.Time,
			Position: []float32{p.X(), p.Y(), p.Z()},
			Rotation: []float32{q.W, q.V.X(), q.V.Y(), q.V.Z()},
			Select:   f.Select,
			Activate: f.Activate,
		}
	}
	return out, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Recording) UnmarshalYAML(node *yaml.Node) error {
	var in fileFormat
	if err := node.Decode(&in); err != nil {
		return err
	}
	id, err := uuid.Parse(in.ID)
	if err != nil {
		id = uuid.New()
	}
	rec := Recording{ID: id, Name: in.Name}
	for n, f := range in.Frames {
		if len(f.Position) != 3 || len(f.Rotation) != 4 {
			return fmt.Errorf("frame %d: position needs 3 values and rotation 4", n)
		}
		q := mgl32.Quat{W: f.Rotation[0], V: mgl32.Vec3{f.Rotation[1], f.Rotation[2], f.Rotation[3]}}
		pose := xmath.NewPose(mgl32.Vec3{f.Position[0], f.Position[1], f.Position[2]}, q)
		if !xmath.IsFinite(pose.Position) || !xmath.IsFiniteQuat(q) {
			return fmt.Errorf("frame %d: non-finite pose", n)
		}
		if err := rec.Add(Frame{Time: f.Time, Pose: pose, Select: f.Select, Activate: f.Activate}); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}
	*r = rec
	return nil
}

// Save writes the recording to path as YAML.
func (r *Recording) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding recording: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a recording saved by Save.
func Load(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := &Recording{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("loading recording from %s: %w", path, err)
	}
	return r, nil
}
