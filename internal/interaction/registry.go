package interaction

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/xri/internal/logger"
	"github.com/Faultbox/xri/internal/scene"
)

// Registry maps collider handles to the interactable owning them.
type Registry struct {
	byCollider map[scene.ColliderID]*Interactable
	byTarget   map[*Interactable][]scene.ColliderID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byCollider: make(map[scene.ColliderID]*Interactable),
		byTarget:   make(map[*Interactable][]scene.ColliderID),
	}
}

// Register maps collider to t, replacing any previous owner.
func (r *Registry) Register(collider scene.ColliderID, t *Interactable) {
	if t == nil {
		return
	}
	if prev, ok := r.byCollider[collider]; ok {
		if prev == t {
			return
		}
		logger.Warn("collider already registered, replacing owner",
			zap.Uint32("collider", uint32(collider)),
			logger.Entity("previous", prev.Name, prev.ID),
			logger.Entity("interactable", t.Name, t.ID))
		r.removeFromTarget(prev, collider)
	}
	r.byCollider[collider] = t
	r.byTarget[t] = append(r.byTarget[t], collider)
}

// Unregister removes the mapping for collider.
func (r *Registry) Unregister(collider scene.ColliderID) {
	t, ok := r.byCollider[collider]
	if !ok {
		return
	}
	delete(r.byCollider, collider)
	r.removeFromTarget(t, collider)
}

// Resolve returns the interactable owning collider, or nil.
func (r *Registry) Resolve(collider scene.ColliderID) *Interactable {
	return r.byCollider[collider]
}

// Colliders returns t's colliders in registration order.
func (r *Registry) Colliders(t *Interactable) []scene.ColliderID {
	return r.byTarget[t]
}

// Len returns the number of registered colliders.
func (r *Registry) Len() int {
	return len(r.byCollider)
}

func (r *Registry) removeFromTarget(t *Interactable, collider scene.ColliderID) {
	list := r.byTarget[t]
	if i := slices.Index(list, collider); i >= 0 {
		list = slices.Delete(list, i, i+1)
	}
	if len(list) == 0 {
		delete(r.byTarget, t)
		return
	}
	r.byTarget[t] = list
}
