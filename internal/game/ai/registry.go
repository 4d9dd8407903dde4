package ai

import (
	"fmt"
	"sort"
	"sync"
)

// Registry indexes Planners by domain ID. It is safe for concurrent use, so
// one Registry can serve the policies of many running battles.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	mu       sync.RWMutex
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register creates and stores a Planner for domain. Preconditions run in the
// scripting VM keyed by the domain ID, falling back to the global VM.
//
// Precondition: domain and caller must not be nil.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller) error {
	p := NewPlanner(domain, caller, domain.ID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = p
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.planners[domainID]
	return p, ok
}

// Domains returns the registered domain IDs in sorted order.
func (r *Registry) Domains() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered domains.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.planners)
}
