package interaction

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

const dt = float32(0.02)

// fixedResolver returns whatever targets the test put in it.
type fixedResolver struct {
	targets []*Interactable
}

func (f *fixedResolver) ValidTargets(_ *ResolveContext, _ *Interactor, dst []*Interactable) []*Interactable {
	return append(dst[:0], f.targets...)
}

func offer(i *Interactor, targets ...*Interactable) {
	i.Resolver.(*fixedResolver).targets = targets
}

type recorder struct {
	log []string
}

func (r *recorder) listen(ev *Events) {
	for et := HoverEnter; et < eventTypeCount; et++ {
		ev.On(et, func(e Event) {
			r.log = append(r.log, fmt.Sprintf("%s %s %s", e.Type, e.Interactor.Name, e.Interactable.Name))
		})
	}
}

func (r *recorder) count(et EventType) int {
	n := 0
	prefix := et.String() + " "
	for _, l := range r.log {
		if len(l) > len(prefix) && l[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (r *recorder) reset() { r.log = nil }

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.InitWithCore(core)
	t.Cleanup(logger.Reset)
	return logs
}

func newTestDirector(t *testing.T) (*Director, *scene.ManualClock, *recorder) {
	t.Helper()
	clock := scene.NewManualClock()
	d := NewDirector(nil, clock)
	rec := &recorder{}
	rec.listen(&d.Machine.Events)
	return d, clock, rec
}

func newHand(t *testing.T, d *Director, name string) *Interactor {
	t.Helper()
	i := NewInteractor(name, KindDirect, &fixedResolver{})
	require.NoError(t, d.RegisterInteractor(i))
	return i
}

func newTarget(t *testing.T, d *Director, name string) *Interactable {
	t.Helper()
	it := NewInteractable(name)
	require.NoError(t, d.RegisterInteractable(it))
	return it
}

// assertSymmetric checks that hover and select relations agree on both sides.
func assertSymmetric(t *testing.T, d *Director) {
	t.Helper()
	for _, i := range d.Interactors() {
		for _, h := range i.hovers {
			require.Contains(t, h.hoverers, i, "%s hovers %s one-sidedly", i.Name, h.Name)
		}
		if i.selection != nil {
			require.Contains(t, i.selection.selectors, i)
		}
	}
	for _, it := range d.Interactables() {
		for _, i := range it.hoverers {
			require.Contains(t, i.hovers, it)
		}
		for _, i := range it.selectors {
			require.Same(t, it, i.selection)
		}
		require.Equal(t, len(it.hoverers) > 0, it.IsHovered())
		require.Equal(t, len(it.selectors) > 0, it.IsSelected())
	}
}

func boxCollider(center mgl32.Vec3, half float32) scene.Collider {
	return scene.Collider{Shape: scene.ShapeBox, Offset: center, HalfExtents: mgl32.Vec3{half, half, half}}
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}
