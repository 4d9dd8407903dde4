package npc

import (
	"fmt"
	"maps"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// Registry indexes templates by ID and spawns combatants from them.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
	counter   atomic.Uint64
}

// NewRegistry creates a Registry holding templates.
//
// Postcondition: Returns an error on a duplicate template ID.
func NewRegistry(templates ...*Template) (*Registry, error) {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t.
//
// Precondition: t must not be nil.
// Postcondition: Returns an error if t is invalid or its ID is taken.
func (r *Registry) Register(t *Template) error {
	if t == nil {
		panic("npc: Registry.Register: template must not be nil")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ID]; ok {
		return fmt.Errorf("npc: template %q already registered", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Get returns the template with id.
func (r *Registry) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Spawn builds an enemy combatant from template id. Skills are resolved
// against skills; the instance ID is unique within this Registry.
//
// Postcondition: the combatant is at full HP and MP with TemplateID and
// AIDomain copied from the template.
func (r *Registry) Spawn(id string, skills *combat.SkillRegistry) (*combat.Combatant, error) {
	t, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("npc: unknown template %q", id)
	}
	resolved, err := skills.Resolve(t.Skills)
	if err != nil {
		return nil, fmt.Errorf("npc: spawning %q: %w", id, err)
	}
	n := r.counter.Add(1)
	c := combat.NewCombatant(fmt.Sprintf("%s-%d", t.ID, n), t.Name, combat.SideEnemy, t.Stats)
	c.TemplateID = t.ID
	c.AIDomain = t.AIDomain
	c.Skills = resolved
	c.Resistances = maps.Clone(t.Resistances)
	return c, nil
}

// SpawnGroup spawns one combatant per id. Names shared by several members get
// letter suffixes in spawn order ("Goblin A", "Goblin B").
func (r *Registry) SpawnGroup(ids []string, skills *combat.SkillRegistry) ([]*combat.Combatant, error) {
	out := make([]*combat.Combatant, 0, len(ids))
	counts := make(map[string]int)
	for _, id := range ids {
		c, err := r.Spawn(id, skills)
		if err != nil {
			return nil, err
		}
		counts[c.Name]++
		out = append(out, c)
	}
	seen := make(map[string]int)
	for _, c := range out {
		if counts[c.Name] < 2 {
			continue
		}
		base := c.Name
		c.Name = fmt.Sprintf("%s %c", base, 'A'+rune(seen[base]%26))
		seen[base]++
	}
	return out, nil
}
