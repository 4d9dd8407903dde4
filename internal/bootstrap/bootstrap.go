// Package bootstrap loads the configured content directories and assembles
// the collaborators a battle needs.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/game/ai"
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
	"github.com/cory-johannsen/turnbattle/internal/game/npc"
	"github.com/cory-johannsen/turnbattle/internal/game/reward"
	"github.com/cory-johannsen/turnbattle/internal/observability"
	"github.com/cory-johannsen/turnbattle/internal/scripting"
)

// ErrBrokenReference is returned when loaded content names something that
// was not loaded.
var ErrBrokenReference = errors.New("content references unknown id")

// Runtime holds the loaded content and the long-lived collaborators shared by
// every battle it creates.
type Runtime struct {
	Config     config.Config
	Skills     *combat.SkillRegistry
	Conditions *condition.Registry
	Templates  *npc.Registry
	Items      *inventory.Registry
	Scripts    *scripting.Manager
	AI         *ai.Registry
	Policy     *ai.Policy
	Status     *condition.Tracker
	Roller     *dice.Roller
	Battles    *battle.Manager

	logger *zap.Logger
}

// Load builds a Runtime whose randomness comes from crypto/rand.
func Load(cfg config.Config, logger *zap.Logger) (*Runtime, error) {
	return LoadWithSource(cfg, dice.NewCryptoSource(), logger)
}

// LoadWithSource builds a Runtime drawing every random value from src.
// Content kinds whose directory is empty in cfg are left empty.
//
// Precondition: cfg must have passed Validate; src must not be nil.
// Postcondition: every cross reference between loaded content resolves, or
// an error wrapping ErrBrokenReference lists each one that does not.
func LoadWithSource(cfg config.Config, src dice.Source, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &Runtime{
		Config:     cfg,
		Skills:     combat.NewSkillRegistry(),
		Conditions: condition.NewRegistry(),
		Items:      inventory.NewRegistry(),
		AI:         ai.NewRegistry(),
		Roller:     dice.NewLoggedRoller(src, observability.Named(logger, "dice")),
		logger:     logger,
	}
	c := cfg.Content

	var err error
	if c.SkillsDir != "" {
		if rt.Skills, err = combat.LoadSkills(c.SkillsDir); err != nil {
			return nil, fmt.Errorf("loading skills: %w", err)
		}
	}
	if c.ConditionsDir != "" {
		if rt.Conditions, err = condition.LoadDirectory(c.ConditionsDir); err != nil {
			return nil, fmt.Errorf("loading conditions: %w", err)
		}
	}
	var templates []*npc.Template
	if c.NPCsDir != "" {
		if templates, err = npc.LoadTemplates(c.NPCsDir); err != nil {
			return nil, fmt.Errorf("loading npc templates: %w", err)
		}
	}
	if rt.Templates, err = npc.NewRegistry(templates...); err != nil {
		return nil, fmt.Errorf("registering npc templates: %w", err)
	}
	if c.ItemsDir != "" {
		defs, err := inventory.LoadItems(c.ItemsDir)
		if err != nil {
			return nil, fmt.Errorf("loading items: %w", err)
		}
		for _, d := range defs {
			if err := rt.Items.RegisterItem(d); err != nil {
				return nil, fmt.Errorf("registering items: %w", err)
			}
		}
	}
	var domains []*ai.Domain
	if c.AIDir != "" {
		if domains, err = ai.LoadDomains(c.AIDir); err != nil {
			return nil, fmt.Errorf("loading ai domains: %w", err)
		}
	}

	rt.Scripts = scripting.NewManager(rt.Roller, observability.Named(logger, "scripting"))
	if err := rt.loadScripts(c, domains); err != nil {
		rt.Scripts.Close()
		return nil, err
	}
	for _, d := range domains {
		if err := rt.AI.Register(d, rt.Scripts); err != nil {
			rt.Scripts.Close()
			return nil, err
		}
	}
	if err := rt.checkReferences(domains); err != nil {
		rt.Scripts.Close()
		return nil, err
	}

	rt.Policy = ai.NewPolicy(rt.AI, observability.Named(logger, "ai"))
	rt.Status = condition.NewTracker(rt.Conditions, observability.Named(logger, "condition"))
	rt.Battles = battle.NewManager(observability.Named(logger, "battle"))

	logger.Info("content loaded",
		zap.Int("skills", len(rt.Skills.All())),
		zap.Int("conditions", len(rt.Conditions.All())),
		zap.Int("npcs", len(rt.Templates.All())),
		zap.Int("items", len(rt.Items.AllItems())),
		zap.Strings("ai_domains", rt.AI.Domains()),
		zap.Strings("script_vms", rt.Scripts.Keys()),
	)
	return rt, nil
}

// loadScripts loads the top level of ScriptsDir as the global VM and each
// subdirectory named after a loaded domain as that domain's VM.
func (rt *Runtime) loadScripts(c config.ContentConfig, domains []*ai.Domain) error {
	if c.ScriptsDir == "" {
		return nil
	}
	if err := rt.Scripts.LoadGlobal(c.ScriptsDir, c.InstructionLimit); err != nil {
		return fmt.Errorf("loading global scripts: %w", err)
	}
	for _, d := range domains {
		dir := filepath.Join(c.ScriptsDir, d.ID)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := rt.Scripts.LoadZone(d.ID, dir, c.InstructionLimit); err != nil {
			return fmt.Errorf("loading scripts for domain %q: %w", d.ID, err)
		}
	}
	return nil
}

func (rt *Runtime) checkReferences(domains []*ai.Domain) error {
	var errs []error
	broken := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrBrokenReference}, args...)...))
	}

	for _, s := range rt.Skills.All() {
		if s.Inflicts == nil {
			continue
		}
		if _, ok := rt.Conditions.Get(s.Inflicts.Condition); !ok {
			broken("skill %q inflicts condition %q", s.ID, s.Inflicts.Condition)
		}
	}
	for _, t := range rt.Templates.All() {
		for _, id := range t.Skills {
			if _, ok := rt.Skills.Get(id); !ok {
				broken("npc %q knows skill %q", t.ID, id)
			}
		}
		if t.AIDomain != "" {
			if _, ok := rt.AI.PlannerFor(t.AIDomain); !ok {
				broken("npc %q uses ai domain %q", t.ID, t.AIDomain)
			}
		}
		if t.Loot != nil {
			for _, drop := range t.Loot.Items {
				if _, ok := rt.Items.Item(drop.ItemID); !ok {
					broken("npc %q drops item %q", t.ID, drop.ItemID)
				}
			}
		}
	}
	for _, d := range rt.Items.AllItems() {
		for _, id := range d.Cures {
			if _, ok := rt.Conditions.Get(id); !ok {
				broken("item %q cures condition %q", d.ID, id)
			}
		}
	}
	for _, d := range domains {
		for _, op := range d.Operators {
			if op.Action != ai.ActionSkill {
				continue
			}
			if _, ok := rt.Skills.Get(op.Skill); !ok {
				broken("ai domain %q operator %q uses skill %q", d.ID, op.ID, op.Skill)
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases the scripting VMs.
func (rt *Runtime) Close() {
	rt.Scripts.Close()
}

// SpawnEnemies builds one combatant per template ID. Duplicate names get
// letter suffixes.
func (rt *Runtime) SpawnEnemies(templateIDs []string) ([]*combat.Combatant, error) {
	return rt.Templates.SpawnGroup(templateIDs, rt.Skills)
}

// NewBattle creates and registers a battle using the configured balance and
// escape odds, the shared policy, tracker and roller. A nil pouch leaves the
// item command empty.
func (rt *Runtime) NewBattle(pouch *inventory.Pouch) (*battle.Battle, error) {
	balance := rt.Config.Battle.Balance()
	escape := battle.EscapeConfig{
		BaseRate:  rt.Config.Battle.EscapeBaseRate,
		Increment: rt.Config.Battle.EscapeIncrement,
	}
	opts := battle.Options{
		Balance: &balance,
		Escape:  &escape,
		Source:  rt.Roller,
		Status:  rt.Status,
		Policy:  rt.Policy,

		MaxIdleRounds: rt.Config.Battle.MaxIdleRounds,
	}
	if pouch != nil {
		opts.Items = pouch
		opts.Inventory = pouch
	}
	return rt.Battles.Create(opts)
}

// Rewards computes the payout of a won battle and its split across the
// surviving party. Any other outcome pays nothing.
func (rt *Runtime) Rewards(s battle.State) (reward.Rewards, []reward.Share) {
	if s.Phase != battle.PhaseVictory {
		return reward.Rewards{}, nil
	}
	r := reward.Compute(s.Enemies, rt.Templates, rt.Roller)
	shares := reward.Distribute(s.Party, r)
	rt.logger.Info("battle rewards",
		zap.String("battle_id", s.ID),
		zap.Int("experience", r.Experience),
		zap.Int("gold", r.Gold),
		zap.Int("items", len(r.Items)),
	)
	return r, shares
}
