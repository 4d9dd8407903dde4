// Package inventory defines consumable items and the party pouch that spends
// them in battle.
package inventory

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

// ErrInvalidItem is returned when an item definition fails validation.
var ErrInvalidItem = errors.New("invalid item")

// ItemDef defines a consumable item loaded from YAML.
type ItemDef struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Target      combat.TargetType `yaml:"target"`
	HealHP      int               `yaml:"heal_hp"`
	RestoreMP   int               `yaml:"restore_mp"`
	Cures       []string          `yaml:"cures"`
	// Revive items bring a defeated ally back with HealHP (at least 1) and
	// may only target the defeated.
	Revive bool `yaml:"revive"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid; otherwise every
// violation is reported in one error wrapping ErrInvalidItem.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !d.Target.Valid() {
		errs = append(errs, fmt.Errorf("target %q is not a known target type", d.Target))
	}
	if d.HealHP < 0 || d.RestoreMP < 0 {
		errs = append(errs, errors.New("heal_hp and restore_mp must be >= 0"))
	}
	if d.Revive && d.Target != combat.TargetSingleAlly && d.Target != combat.TargetAllAllies {
		errs = append(errs, errors.New("revive items must target allies"))
	}
	if d.HealHP == 0 && d.RestoreMP == 0 && len(d.Cures) == 0 && !d.Revive {
		errs = append(errs, errors.New("item has no effect"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidItem, d.ID, errors.Join(errs...))
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir, parses each as an
// ItemDef, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or an error naming the failing file.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	var out []*ItemDef
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ItemDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}
