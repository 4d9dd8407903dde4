package battle

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
)

// chooseEnemyAction asks the policy for actor's action. Any failure yields
// defend together with the reason.
func (b *Battle) chooseEnemyAction(actor *combat.Combatant) (combat.BattleAction, string) {
	if b.policy == nil {
		return combat.DefendAction(actor), "no policy"
	}
	chosen, err := b.askPolicy(actor)
	if err != nil {
		b.logger.Warn("enemy policy failed", zap.String("actor", actor.ID), zap.Error(err))
		return combat.DefendAction(actor), err.Error()
	}
	if chosen.Type == combat.ActionEscape {
		return combat.DefendAction(actor), "enemies cannot escape"
	}
	if chosen.Actor == nil {
		chosen.Actor = actor
	}
	bound, err := b.bind(chosen)
	if err != nil {
		b.logger.Warn("enemy action rejected", zap.String("actor", actor.ID), zap.Error(err))
		return combat.DefendAction(actor), err.Error()
	}
	return bound, ""
}

func (b *Battle) askPolicy(actor *combat.Combatant) (a combat.BattleAction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("policy panicked: %v", r)
		}
	}()
	snap := b.State()
	return b.policy.ChooseAction(snap.Combatant(actor.ID), snap)
}

// bind maps an action built against any copy of the rosters onto the live
// combatants and checks that it is legal for the current actor.
func (b *Battle) bind(a combat.BattleAction) (combat.BattleAction, error) {
	if err := a.Validate(); err != nil {
		return combat.BattleAction{}, err
	}
	cur := b.current()
	if cur == nil || a.Actor.ID != cur.ID {
		return combat.BattleAction{}, fmt.Errorf("%w: %q", ErrNotCurrentActor, a.Actor.ID)
	}
	roster := b.roster()
	out := combat.BattleAction{Actor: cur, Type: a.Type, ItemID: a.ItemID}

	switch a.Type {
	case combat.ActionAttack, combat.ActionSkill:
		skill := combat.BasicAttack
		if a.Type == combat.ActionSkill {
			skill = cur.Skill(a.Skill.ID)
			if skill == nil {
				return combat.BattleAction{}, fmt.Errorf("%w: %q", ErrUnknownSkill, a.Skill.ID)
			}
			if !cur.CanAfford(skill) {
				return combat.BattleAction{}, fmt.Errorf("%w: %q", ErrUnaffordable, skill.ID)
			}
			out.Skill = skill
		}
		cands := combat.Candidates(cur, skill.Target, roster)
		for _, t := range a.Targets {
			live := combat.FindByID(cands, t.ID)
			if live == nil {
				return combat.BattleAction{}, fmt.Errorf("%w: %q for %s", ErrInvalidTarget, t.ID, skill.ID)
			}
			if !slices.Contains(out.Targets, live) {
				out.Targets = append(out.Targets, live)
			}
		}
		if skill.Target.IsGroup() {
			out.Targets = cands
		} else if len(out.Targets) > 1 {
			out.Targets = out.Targets[:1]
		}
	case combat.ActionItem:
		for _, t := range a.Targets {
			live := combat.FindByID(roster, t.ID)
			if live == nil {
				return combat.BattleAction{}, fmt.Errorf("%w: %q", ErrInvalidTarget, t.ID)
			}
			out.Targets = append(out.Targets, live)
		}
	}
	return out, nil
}

// resolve applies a bound action, records it, and checks end conditions.
//
// Precondition: a.Actor is the current, living actor.
func (b *Battle) resolve(a combat.BattleAction, defaultedReason string) {
	if a.Actor == nil || a.Actor.IsDefeated() {
		panic("battle: resolve: actor must be a living combatant")
	}
	b.setPhase(PhaseResolving)

	rec := ActionRecord{
		Turn:      b.turn,
		ActorID:   a.Actor.ID,
		Type:      a.Type,
		ItemID:    a.ItemID,
		Defaulted: defaultedReason != "",
		Reason:    defaultedReason,
	}
	if a.Skill != nil {
		rec.SkillID = a.Skill.ID
	}

	escaped := false
	switch a.Type {
	case combat.ActionAttack, combat.ActionSkill:
		b.resolveOffense(a, &rec)
	case combat.ActionItem:
		b.resolveItem(a, &rec)
	case combat.ActionDefend:
		a.Actor.Defending = true
	case combat.ActionEscape:
		escaped = b.resolveEscape(&rec)
	}

	b.history = append(b.history, rec)
	b.logger.Debug("action resolved",
		zap.Int("turn", rec.Turn),
		zap.String("actor", rec.ActorID),
		zap.Stringer("type", rec.Type),
		zap.Strings("targets", a.TargetIDs()),
		zap.Bool("defaulted", rec.Defaulted),
	)
	b.emit(Event{Type: EventActionResolved, ActorID: rec.ActorID, Action: &b.history[len(b.history)-1]})

	if escaped {
		b.finish(PhaseEscaped)
		return
	}
	b.checkEnd()
}

func (b *Battle) resolveOffense(a combat.BattleAction, rec *ActionRecord) {
	actor := a.Actor
	skill := a.EffectiveSkill()
	if a.Type == combat.ActionSkill {
		if err := actor.SpendMP(skill.MPCost); err != nil {
			panic("battle: resolveOffense: " + err.Error())
		}
		rec.MPSpent = skill.MPCost
	}

	for _, target := range a.Targets {
		out := TargetOutcome{TargetID: target.ID}
		if target.IsDefeated() && skill.Target != combat.TargetSelf {
			rec.Outcomes = append(rec.Outcomes, out)
			continue
		}
		if skill.IsHeal() {
			h := combat.ComputeHealing(actor, target, skill, b.balance, b.src)
			out.WasHit = true
			out.Healed = target.Heal(h.Amount)
		} else {
			d := combat.ComputeDamage(actor, target, skill, b.balance, b.src)
			out.WasHit, out.IsCritical, out.Defended = d.WasHit, d.IsCritical, d.Defended
			if d.WasHit {
				out.Damage = target.ApplyDamage(d.FinalDamage)
				if d.Defended {
					target.Defending = false
				}
				if out.Damage > 0 && target.IsAlive() {
					out.Woke = b.status.NotifyDamaged(target)
				}
			}
		}
		if out.WasHit && skill.Inflicts != nil && target.IsAlive() {
			out.Status = b.inflict(target, skill.Inflicts)
		}
		out.Defeated = target.IsDefeated()
		rec.Outcomes = append(rec.Outcomes, out)
	}
}

// inflict rolls a skill's status chance and applies it through the tracker.
func (b *Battle) inflict(target *combat.Combatant, in *combat.Inflict) *StatusOutcome {
	so := &StatusOutcome{ConditionID: in.Condition}
	if in.Chance > 0 && !combat.Roll(in.Chance, b.src.Float64()) {
		so.Reason = "resisted"
		return so
	}
	res := b.status.Apply(target, condition.Application{
		ConditionID: in.Condition,
		Stacks:      in.Stacks,
		Duration:    in.Duration,
	})
	so.Applied, so.Reason = res.Success, res.Reason
	return so
}

func (b *Battle) resolveItem(a combat.BattleAction, rec *ActionRecord) {
	if b.items == nil {
		rec.ItemFailed = true
		rec.Item = &ItemResult{Message: "no item handler"}
		return
	}
	res, err := b.useItem(a)
	if err != nil {
		b.logger.Warn("item use failed",
			zap.String("actor", a.Actor.ID),
			zap.String("item", a.ItemID),
			zap.Error(err),
		)
		rec.ItemFailed = true
		rec.Item = &ItemResult{Message: err.Error()}
		return
	}
	rec.ItemFailed = !res.Success
	rec.Item = &res
	for _, e := range res.Effects {
		rec.Outcomes = append(rec.Outcomes, TargetOutcome{
			TargetID: e.TargetID,
			WasHit:   true,
			Healed:   e.HPRestored,
		})
	}
	for _, c := range a.Targets {
		c.Clamp()
	}
}

func (b *Battle) useItem(a combat.BattleAction) (res ItemResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item handler panicked: %v", r)
		}
	}()
	for _, t := range a.Targets {
		if !b.items.CanUseItem(a.ItemID, a.Actor, t) {
			return ItemResult{}, fmt.Errorf("item %q cannot be used on %q", a.ItemID, t.ID)
		}
	}
	return b.items.UseItem(a.ItemID, a.Actor, a.Targets)
}

// resolveEscape rolls the party's escape and reports success.
func (b *Battle) resolveEscape(rec *ActionRecord) bool {
	rec.EscapeChance = b.escape.Chance(b.failedEscapes)
	rec.Escaped = combat.Roll(rec.EscapeChance, b.src.Float64())
	if !rec.Escaped {
		b.failedEscapes++
	}
	return rec.Escaped
}
