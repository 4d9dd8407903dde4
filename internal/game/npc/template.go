// Package npc defines enemy templates, spawns combatants from them, and rolls
// their loot.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// ErrInvalidTemplate is returned when a template fails validation.
var ErrInvalidTemplate = errors.New("invalid npc template")

// Template defines a reusable enemy archetype loaded from YAML.
type Template struct {
	ID          string                     `yaml:"id"`
	Name        string                     `yaml:"name"`
	Description string                     `yaml:"description"`
	Level       int                        `yaml:"level"`
	Stats       combat.Stats               `yaml:"stats"`
	Skills      []string                   `yaml:"skills"`
	Resistances map[combat.Element]float64 `yaml:"resistances"`
	AIDomain    string                     `yaml:"ai_domain"` // HTN domain ID; empty = AttackWeakest
	Experience  int                        `yaml:"experience"`
	Gold        int                        `yaml:"gold"`
	Loot        *LootTable                 `yaml:"loot"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 1,
// stats.max_hp >= 1, no stat or reward is negative, every resistance is >= 0,
// and the loot table (if any) is valid.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id must not be empty", ErrInvalidTemplate)
	}
	if t.Name == "" {
		return fmt.Errorf("%w %q: name must not be empty", ErrInvalidTemplate, t.ID)
	}
	if t.Level < 1 {
		return fmt.Errorf("%w %q: level must be >= 1", ErrInvalidTemplate, t.ID)
	}
	s := t.Stats
	if s.MaxHP < 1 {
		return fmt.Errorf("%w %q: stats.max_hp must be >= 1", ErrInvalidTemplate, t.ID)
	}
	for name, v := range map[string]int{
		"max_mp": s.MaxMP, "attack": s.Attack, "defense": s.Defense, "magic": s.Magic,
		"magic_defense": s.MagicDefense, "speed": s.Speed, "luck": s.Luck,
		"experience": t.Experience, "gold": t.Gold,
	} {
		if v < 0 {
			return fmt.Errorf("%w %q: %s must be >= 0, got %d", ErrInvalidTemplate, t.ID, name, v)
		}
	}
	for e, r := range t.Resistances {
		if r < 0 {
			return fmt.Errorf("%w %q: resistance to %q must be >= 0", ErrInvalidTemplate, t.ID, e)
		}
	}
	if t.Loot != nil {
		if err := t.Loot.Validate(); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidTemplate, t.ID, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error. Unknown keys are
// rejected.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error naming the first file that
// failed to parse or validate.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
