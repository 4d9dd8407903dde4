// Package condition implements status effects: their YAML definitions, the
// ordered set active on one combatant, and the Tracker the battle engine
// consults at turn boundaries.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration types.
const (
	DurationRounds    = "rounds"
	DurationPermanent = "permanent"
)

// ErrInvalidDefinition is returned when a ConditionDef fails validation.
var ErrInvalidDefinition = errors.New("invalid condition definition")

// StatModifiers are fractional adjustments applied per stack, e.g. -0.25
// lowers the stat by a quarter.
type StatModifiers struct {
	Attack       float64 `yaml:"attack"`
	Defense      float64 `yaml:"defense"`
	Magic        float64 `yaml:"magic"`
	MagicDefense float64 `yaml:"magic_defense"`
	Speed        float64 `yaml:"speed"`
	Accuracy     float64 `yaml:"accuracy"`
	Evasion      float64 `yaml:"evasion"`
}

// add returns m + o*stacks.
func (m StatModifiers) add(o StatModifiers, stacks int) StatModifiers {
	f := float64(stacks)
	m.Attack += o.Attack * f
	m.Defense += o.Defense * f
	m.Magic += o.Magic * f
	m.MagicDefense += o.MagicDefense * f
	m.Speed += o.Speed * f
	m.Accuracy += o.Accuracy * f
	m.Evasion += o.Evasion * f
	return m
}

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	DurationType   string        `yaml:"duration_type"` // "rounds" | "permanent"
	MaxStacks      int           `yaml:"max_stacks"`    // 0 = unstackable
	PreventsAction bool          `yaml:"prevents_action"`
	WakeOnDamage   bool          `yaml:"wake_on_damage"`
	DamagePerTick  int           `yaml:"damage_per_tick"`
	HealPerTick    int           `yaml:"heal_per_tick"`
	Modifiers      StatModifiers `yaml:"modifiers"`
}

// Validate reports every problem with d joined into one error wrapping
// ErrInvalidDefinition.
func (d *ConditionDef) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	if d.DurationType != DurationRounds && d.DurationType != DurationPermanent {
		errs = append(errs, fmt.Sprintf("duration_type %q must be rounds or permanent", d.DurationType))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, "max_stacks must be >= 0")
	}
	if d.DamagePerTick < 0 || d.HealPerTick < 0 {
		errs = append(errs, "per-tick amounts must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidDefinition, d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	if def == nil || def.ID == "" {
		panic("condition: Register requires a non-nil def with an ID")
	}
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered ConditionDef sorted by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// ConditionDef, and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error naming the failing file.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
