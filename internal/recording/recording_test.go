package recording

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xri/internal/interaction"
	xmath "github.com/Faultbox/xri/pkg/math"
)

func at(ms int, x float32) Frame {
	return Frame{
		Time: time.Duration(ms) * time.Millisecond,
		Pose: xmath.NewPose(mgl32.Vec3{x, 0, 0}, mgl32.QuatIdent()),
	}
}

func TestAddRequiresIncreasingTime(t *testing.T) {
	r := New("take")
	require.NoError(t, r.Add(at(0, 0)))
	require.NoError(t, r.Add(at(10, 1)))

	err := r.Add(at(10, 2))
	assert.True(t, errors.Is(err, ErrNotIncreasing))
	err = r.Add(at(5, 2))
	assert.True(t, errors.Is(err, ErrNotIncreasing))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 10*time.Millisecond, r.Duration())
}

func TestAtReturnsFrameAtOrBefore(t *testing.T) {
	r := New("take")
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Add(at(10+i*10, float32(i))))
	}

	tests := []struct {
		name  string
		t     time.Duration
		found bool
		x     float32
	}{
		{"before first", 5 * time.Millisecond, false, 0},
		{"exact first", 10 * time.Millisecond, true, 0},
		{"between", 25 * time.Millisecond, true, 1},
		{"exact middle", 30 * time.Millisecond, true, 2},
		{"after last", time.Second, true, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := r.At(tt.t)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.x, f.Pose.Position.X())
		})
	}

	_, ok := New("empty").At(time.Second)
	assert.False(t, ok)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "takes", "grab.yaml")

	r := New("grab")
	rot := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	require.NoError(t, r.Add(Frame{Time: 0, Pose: xmath.NewPose(mgl32.Vec3{0.5, 1.25, -2}, rot)}))
	require.NoError(t, r.Add(Frame{Time: 20 * time.Millisecond, Pose: xmath.PoseIdentity(), Select: true, Activate: true}))
	require.NoError(t, r.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, "grab", got.Name)
	require.Equal(t, 2, got.Len())

	first := got.Frames()[0]
	assert.Equal(t, mgl32.Vec3{0.5, 1.25, -2}, first.Pose.Position)
	assert.True(t, first.Pose.Rotation.OrientationEqualThreshold(rot, 1e-6))

	second := got.Frames()[1]
	assert.Equal(t, 20*time.Millisecond, second.Time)
	assert.True(t, second.Select)
	assert.True(t, second.Activate)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"out of order", `
name: bad
frames:
  - {t: 20ms, position: [0, 0, 0], rotation: [1, 0, 0, 0]}
  - {t: 10ms, position: [0, 0, 0], rotation: [1, 0, 0, 0]}
`},
		{"short position", `
frames:
  - {t: 0s, position: [0, 0], rotation: [1, 0, 0, 0]}
`},
		{"non finite", `
frames:
  - {t: 0s, position: [.nan, 0, 0], rotation: [1, 0, 0, 0]}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRecorderAndPlayer(t *testing.T) {
	src := interaction.NewInteractor("left", interaction.KindDirect, nil)
	rec := New("left")
	recorder := NewRecorder(rec, src)

	for i := 0; i < 3; i++ {
		src.Pose.Position = mgl32.Vec3{float32(i), 0, 0}
		src.SetSelectInput(i == 2)
		recorder.Sample(time.Duration(i) * 20 * time.Millisecond)
	}
	recorder.Sample(40 * time.Millisecond) // same time, dropped
	require.Equal(t, 3, rec.Len())

	dst := interaction.NewInteractor("replay", interaction.KindDirect, nil)
	p := NewPlayer(rec, dst)
	p.Offset = time.Second

	assert.False(t, p.Apply(500*time.Millisecond))
	assert.Equal(t, mgl32.Vec3{}, dst.Pose.Position)

	assert.True(t, p.Apply(time.Second+30*time.Millisecond))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, dst.Pose.Position)
	assert.False(t, dst.SelectInput())
	assert.False(t, p.Done(time.Second+30*time.Millisecond))

	assert.True(t, p.Apply(time.Second+40*time.Millisecond))
	assert.True(t, dst.SelectInput())
	assert.True(t, p.Done(time.Second+40*time.Millisecond))
}
