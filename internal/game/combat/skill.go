package combat

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

var (
	// ErrInvalidSkill is returned when a Skill fails validation.
	ErrInvalidSkill = errors.New("invalid skill")
	// ErrDuplicateSkill is returned when two skills share an ID.
	ErrDuplicateSkill = errors.New("duplicate skill")
	// ErrUnknownSkill is returned when a skill ID is not registered.
	ErrUnknownSkill = errors.New("unknown skill")
)

// Inflict describes a status effect a skill may apply on hit.
type Inflict struct {
	Condition string  `yaml:"condition"`
	Stacks    int     `yaml:"stacks"`
	Duration  int     `yaml:"duration"`
	Chance    float64 `yaml:"chance"` // 0 means always
}

// Skill is an immutable combat ability shared by every combatant that knows it.
type Skill struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	DamageType    DamageType `yaml:"damage_type"`
	Target        TargetType `yaml:"target"`
	Effect        Effect     `yaml:"effect"`
	Element       Element    `yaml:"element"`
	Power         float64    `yaml:"power"`
	MPCost        int        `yaml:"mp_cost"`
	Accuracy      float64    `yaml:"accuracy"` // multiplier; 0 is read as 1
	CriticalBonus float64    `yaml:"critical_bonus"`
	GuaranteedHit bool       `yaml:"guaranteed_hit"`
	Dice          string     `yaml:"dice"` // base amount for "other" skills
	Inflicts      *Inflict   `yaml:"inflicts"`
}

// BasicAttack is used whenever an actor attacks without choosing a skill.
var BasicAttack = &Skill{
	ID:         "attack",
	Name:       "Attack",
	DamageType: DamagePhysical,
	Target:     TargetSingleEnemy,
	Effect:     EffectDamage,
	Power:      1,
	Accuracy:   1,
}

// AccuracyMultiplier returns the skill's accuracy, reading zero as 1.
func (s *Skill) AccuracyMultiplier() float64 {
	if s.Accuracy <= 0 {
		return 1
	}
	return s.Accuracy
}

// IsHeal reports whether the skill restores HP.
func (s *Skill) IsHeal() bool { return s.Effect == EffectHeal }

// Validate reports every problem with s joined into one error wrapping ErrInvalidSkill.
func (s *Skill) Validate() error {
	var errs []string
	if s.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if s.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	switch s.DamageType {
	case DamagePhysical, DamageMagical, DamageOther:
	default:
		errs = append(errs, fmt.Sprintf("damage_type %q is not physical, magical or other", s.DamageType))
	}
	if !s.Target.Valid() {
		errs = append(errs, fmt.Sprintf("target %q is not a known target type", s.Target))
	}
	if s.Effect != EffectDamage && s.Effect != EffectHeal {
		errs = append(errs, fmt.Sprintf("effect %q must be damage or heal", s.Effect))
	}
	if s.Power < 0 {
		errs = append(errs, "power must be >= 0")
	}
	if s.MPCost < 0 {
		errs = append(errs, "mp_cost must be >= 0")
	}
	if s.Accuracy < 0 {
		errs = append(errs, "accuracy must be >= 0")
	}
	if s.Dice != "" {
		if _, err := dice.Parse(s.Dice); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.Inflicts != nil {
		if s.Inflicts.Condition == "" {
			errs = append(errs, "inflicts.condition must not be empty")
		}
		if s.Inflicts.Chance < 0 || s.Inflicts.Chance > 1 {
			errs = append(errs, "inflicts.chance must be in [0, 1]")
		}
		if s.Inflicts.Duration < 0 {
			errs = append(errs, "inflicts.duration must be >= 0")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidSkill, s.ID, strings.Join(errs, "; "))
	}
	return nil
}

// SkillRegistry holds skill definitions keyed by ID.
type SkillRegistry struct {
	skills map[string]*Skill
}

// NewSkillRegistry returns a registry containing only BasicAttack.
func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{skills: map[string]*Skill{BasicAttack.ID: BasicAttack}}
}

// Register validates s and adds it.
//
// Postcondition: Returns ErrDuplicateSkill if the ID is taken.
func (r *SkillRegistry) Register(s *Skill) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, ok := r.skills[s.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSkill, s.ID)
	}
	r.skills[s.ID] = s
	return nil
}

// Get returns the skill with id.
func (r *SkillRegistry) Get(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Resolve maps ids to skills in order.
//
// Postcondition: Returns an error wrapping ErrUnknownSkill naming the first missing id.
func (r *SkillRegistry) Resolve(ids []string) ([]*Skill, error) {
	out := make([]*Skill, 0, len(ids))
	for _, id := range ids {
		s, ok := r.skills[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
		}
		out = append(out, s)
	}
	return out, nil
}

// All returns every skill sorted by ID.
func (r *SkillRegistry) All() []*Skill {
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type skillFile struct {
	Skills []*Skill `yaml:"skills"`
}

// LoadSkills reads every *.yaml file in dir. Each file holds a top-level
// "skills" list.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a registry seeded with BasicAttack plus every loaded skill,
// or an error naming the failing file.
func LoadSkills(dir string) (*SkillRegistry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skills dir %q: %w", dir, err)
	}
	reg := NewSkillRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f skillFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, s := range f.Skills {
			if err := reg.Register(s); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
		}
	}
	return reg, nil
}
