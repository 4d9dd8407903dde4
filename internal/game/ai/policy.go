package ai

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// Policy chooses enemy actions for a battle. Enemies whose AIDomain has a
// registered planner follow its plan; everyone else uses AttackWeakest.
//
// Policy implements battle.Policy.
type Policy struct {
	registry *Registry
	logger   *zap.Logger
}

var _ battle.Policy = (*Policy)(nil)

// NewPolicy creates a Policy. A nil registry leaves every enemy on the fallback.
func NewPolicy(registry *Registry, logger *zap.Logger) *Policy {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{registry: registry, logger: logger}
}

// ChooseAction returns actor's action for this turn.
//
// Postcondition: only the plan's first step is used. An empty plan falls back
// to AttackWeakest; unaffordable skills and unresolvable targets degrade to defend.
func (p *Policy) ChooseAction(actor *combat.Combatant, s battle.State) (combat.BattleAction, error) {
	planner, ok := p.registry.PlannerFor(actor.AIDomain)
	if !ok {
		return AttackWeakest(actor, s), nil
	}
	plan, err := planner.Plan(BuildWorldState(actor, s))
	if err != nil {
		return combat.BattleAction{}, err
	}
	if len(plan) == 0 {
		p.logger.Debug("empty plan, using fallback",
			zap.String("actor", actor.ID),
			zap.String("domain", actor.AIDomain),
		)
		return AttackWeakest(actor, s), nil
	}
	action := toAction(actor, s, plan[0])
	p.logger.Debug("enemy planned",
		zap.String("actor", actor.ID),
		zap.String("domain", actor.AIDomain),
		zap.String("step", plan[0].Action),
		zap.Stringer("action", action.Type),
	)
	return action, nil
}

func toAction(actor *combat.Combatant, s battle.State, step PlannedAction) combat.BattleAction {
	roster := s.Roster()
	switch step.Action {
	case ActionAttack:
		t := combat.FindByID(combat.Candidates(actor, combat.BasicAttack.Target, roster), step.Target)
		if t == nil {
			return combat.DefendAction(actor)
		}
		return combat.BattleAction{Actor: actor, Type: combat.ActionAttack, Targets: []*combat.Combatant{t}}
	case ActionSkill:
		skill := actor.Skill(step.Skill)
		if skill == nil || !actor.CanAfford(skill) {
			return combat.DefendAction(actor)
		}
		cands := combat.Candidates(actor, skill.Target, roster)
		targets := cands
		if !skill.Target.IsGroup() {
			t := combat.FindByID(cands, step.Target)
			if t == nil && skill.Target == combat.TargetSelf && len(cands) > 0 {
				t = cands[0]
			}
			if t == nil {
				return combat.DefendAction(actor)
			}
			targets = []*combat.Combatant{t}
		}
		if len(targets) == 0 {
			return combat.DefendAction(actor)
		}
		return combat.BattleAction{Actor: actor, Type: combat.ActionSkill, Skill: skill, Targets: targets}
	default:
		return combat.DefendAction(actor)
	}
}

// AttackWeakest attacks the living opponent with the lowest HP percentage,
// ties to the lower position. With no opponent left it defends.
func AttackWeakest(actor *combat.Combatant, s battle.State) combat.BattleAction {
	var weakest *combat.Combatant
	for _, c := range combat.Opponents(actor, s.Roster()) {
		if weakest == nil || hpFraction(c) < hpFraction(weakest) {
			weakest = c
		}
	}
	if weakest == nil {
		return combat.DefendAction(actor)
	}
	return combat.BattleAction{Actor: actor, Type: combat.ActionAttack, Targets: []*combat.Combatant{weakest}}
}

func hpFraction(c *combat.Combatant) float64 {
	maxHP := c.MaxHitPoints()
	if maxHP <= 0 {
		return 0
	}
	return float64(c.CurrentHP) / float64(maxHP)
}
