package unit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry holds every unit of a game keyed by ID. Iteration follows
// insertion order so resolution is deterministic.
type Registry struct {
	mu    sync.RWMutex
	units map[uuid.UUID]*Unit
	order []uuid.UUID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{units: make(map[uuid.UUID]*Unit)}
}

// Add registers a unit after checking it has every part.
func (r *Registry) Add(u *Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.units[u.ID]; ok {
		return fmt.Errorf("unit %s already registered", u.ID)
	}
	r.units[u.ID] = u
	r.order = append(r.order, u.ID)
	return nil
}

// Get looks up a unit.
func (r *Registry) Get(id uuid.UUID) (*Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	return u, ok
}

// All returns every unit in insertion order.
func (r *Registry) All() []*Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Unit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.units[id])
	}
	return out
}

// Active returns the deployed units that are not destroyed.
func (r *Registry) Active() []*Unit {
	var out []*Unit
	for _, u := range r.All() {
		if u.Deployed && !u.IsDestroyed() {
			out = append(out, u)
		}
	}
	return out
}

// ByOwner returns the units of a player in insertion order.
func (r *Registry) ByOwner(owner uuid.UUID) []*Unit {
	var out []*Unit
	for _, u := range r.All() {
		if u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// Len returns the number of units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
