package interaction

import (
	gomath "math"
	"slices"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

// ResolveContext carries the services a resolver may consult.
type ResolveContext struct {
	Registry *Registry
	Query    scene.Query
	Clock    scene.Clock
	Now      time.Duration
}

// Resolver produces an interactor's candidate list, highest priority first.
// Implementations append to dst[:0] and return it.
type Resolver interface {
	ValidTargets(ctx *ResolveContext, i *Interactor, dst []*Interactable) []*Interactable
}

type scored struct {
	target *Interactable
	dist   float32
}

// DirectResolver tracks overlapping colliders reported by a trigger volume
// and ranks their interactables by distance to the attach point.
type DirectResolver struct {
	overlaps []scene.ColliderID
	scratch  []scored
}

// NewDirectResolver creates a resolver with an empty overlap set.
func NewDirectResolver() *DirectResolver {
	return &DirectResolver{}
}

// TriggerEnter implements scene.TriggerListener.
func (r *DirectResolver) TriggerEnter(id scene.ColliderID) {
	if !slices.Contains(r.overlaps, id) {
		r.overlaps = append(r.overlaps, id)
	}
}

// TriggerExit implements scene.TriggerListener.
func (r *DirectResolver) TriggerExit(id scene.ColliderID) {
	if i := slices.Index(r.overlaps, id); i >= 0 {
		r.overlaps = slices.Delete(r.overlaps, i, i+1)
	}
}

// Overlaps returns the colliders currently inside the trigger.
func (r *DirectResolver) Overlaps() []scene.ColliderID { return r.overlaps }

// ValidTargets implements Resolver.
func (r *DirectResolver) ValidTargets(ctx *ResolveContext, i *Interactor, dst []*Interactable) []*Interactable {
	dst = dst[:0]
	r.scratch = r.scratch[:0]
	origin := i.AttachPose().Position

	for _, id := range r.overlaps {
		t := ctx.Registry.Resolve(id)
		if t == nil {
			logger.Debug("overlap without interactable",
				zap.String("interactor", i.Name),
				zap.Uint32("collider", uint32(id)))
			continue
		}
		if slices.ContainsFunc(r.scratch, func(s scored) bool { return s.target == t }) {
			continue
		}
		r.scratch = append(r.scratch, scored{target: t, dist: nearestSqr(ctx, t, origin)})
	}

	sort.SliceStable(r.scratch, func(a, b int) bool { return r.scratch[a].dist < r.scratch[b].dist })
	for _, s := range r.scratch {
		dst = append(dst, s.target)
	}
	return dst
}

func nearestSqr(ctx *ResolveContext, t *Interactable, origin mgl32.Vec3) float32 {
	best := float32(gomath.MaxFloat32)
	if ctx.Query == nil {
		return best
	}
	for _, id := range ctx.Registry.Colliders(t) {
		p, ok := ctx.Query.ClosestPoint(id, origin)
		if !ok {
			continue
		}
		if d := p.Sub(origin).LenSqr(); d < best {
			best = d
		}
	}
	return best
}

// SocketResolver is a DirectResolver that never offers the socket's current
// selection as a candidate.
type SocketResolver struct {
	DirectResolver
}

// NewSocketResolver creates a socket resolver.
func NewSocketResolver() *SocketResolver {
	return &SocketResolver{}
}

// ValidTargets implements Resolver.
func (r *SocketResolver) ValidTargets(ctx *ResolveContext, i *Interactor, dst []*Interactable) []*Interactable {
	dst = r.DirectResolver.ValidTargets(ctx, i, dst)
	if i.selection == nil {
		return dst
	}
	return slices.DeleteFunc(dst, func(t *Interactable) bool { return t == i.selection })
}
