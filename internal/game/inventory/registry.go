package inventory

import (
	"fmt"
	"sort"
)

// Registry holds item definitions indexed by ID.
type Registry struct {
	items map[string]*ItemDef
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*ItemDef)}
}

// RegisterItem adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) RegisterItem(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("inventory: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the ItemDef for id.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// AllItems returns every definition sorted by ID.
func (r *Registry) AllItems() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
