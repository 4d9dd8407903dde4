package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

func TestStart_Errors(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 10})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 10})

	_, err := battle.New(battle.Options{}).Start(nil, []*combat.Combatant{orc})
	assert.ErrorIs(t, err, battle.ErrEmptyRoster)

	dup := combat.NewCombatant("hero", "Imposter", combat.SideEnemy, combat.Stats{MaxHP: 10})
	_, err = battle.New(battle.Options{}).Start([]*combat.Combatant{hero}, []*combat.Combatant{dup})
	assert.ErrorIs(t, err, battle.ErrDuplicateCombatant)

	b := battle.New(battle.Options{Source: steady})
	_, err = b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)
	_, err = b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	assert.ErrorIs(t, err, battle.ErrAlreadyStarted)
}

func TestStart_AssignsPositionsAndWaitsForFastestPlayer(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 10, Speed: 20})
	mage := member("mage", combat.Stats{MaxHP: 10, Speed: 70})
	orc := combat.NewCombatant("orc", "Orc", combat.SidePlayer, combat.Stats{MaxHP: 10, Speed: 50})

	b := battle.New(battle.Options{Source: steady})
	st, err := b.Start([]*combat.Combatant{hero, mage}, []*combat.Combatant{orc})
	require.NoError(t, err)

	assert.Equal(t, battle.PhasePlayerTurn, st.Phase)
	assert.Equal(t, 1, st.Turn)
	assert.Equal(t, combat.SideEnemy, orc.Side)
	assert.Equal(t, []int{0, 1, 2}, []int{hero.Position, mage.Position, orc.Position})
	assert.Equal(t, "mage", st.Actor().ID)
	assert.Equal(t, "mage", b.CurrentActor().ID)
	assert.NotEmpty(t, b.ID())
}

// A lone attacker keeps attacking a defending enemy until it falls.
func TestBattle_AttackUntilVictory(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Attack: 50, Speed: 60})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 50, Defense: 30, Speed: 30})

	b := battle.New(battle.Options{Source: dice.NewSeededSource(7)})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	for i := 0; i < 200 && st.Phase == battle.PhasePlayerTurn; i++ {
		st, err = attack(b, "orc")
		require.NoError(t, err)
	}
	require.Equal(t, battle.PhaseVictory, st.Phase)
	assert.True(t, st.Enemies[0].IsDefeated())

	total := 0
	for _, r := range recordsOf(st, "hero") {
		require.Len(t, r.Outcomes, 1)
		assert.GreaterOrEqual(t, r.Outcomes[0].Damage, 0)
		total += r.Outcomes[0].Damage
	}
	assert.Equal(t, 50, total, "damage applied never exceeds the HP the enemy had")
	last, ok := st.LastAction()
	require.True(t, ok)
	assert.True(t, last.Outcomes[0].Defeated)

	assert.ErrorIs(t, b.SelectCommand(combat.ActionAttack), battle.ErrNotAwaitingPlayer)
	assert.Nil(t, b.Selector())
	assert.Nil(t, b.CurrentActor())
}

func TestBattle_CommandsBeforeStartReturnErrors(t *testing.T) {
	b := battle.New(battle.Options{Source: steady})

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, b.SelectCommand(combat.ActionAttack), battle.ErrNotAwaitingPlayer)
		assert.ErrorIs(t, b.SelectSkill("fire"), battle.ErrNotAwaitingPlayer)
		assert.ErrorIs(t, b.AcceptTargets(), battle.ErrNotAwaitingPlayer)
		assert.ErrorIs(t, b.CancelCommand(), battle.ErrNotAwaitingPlayer)
		_, err := b.ConfirmCommand()
		assert.ErrorIs(t, err, battle.ErrNotAwaitingPlayer)
	})
	assert.Equal(t, battle.PhaseInitializing, b.Phase())
}

func TestBattle_EnemyTurnsRunUntilPlayerTurn(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Defense: 10, Speed: 10})
	wolf := combat.NewCombatant("wolf", "Wolf", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 30, Speed: 40})
	bat := combat.NewCombatant("bat", "Bat", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 30, Speed: 20})

	b := battle.New(battle.Options{Source: steady, Policy: attackFirst})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{wolf, bat})
	require.NoError(t, err)

	require.Len(t, st.History, 2)
	assert.Equal(t, "wolf", st.History[0].ActorID)
	assert.Equal(t, "bat", st.History[1].ActorID)
	assert.Equal(t, 25, st.History[0].Outcomes[0].Damage)
	assert.Equal(t, 50, st.Party[0].CurrentHP)
	assert.Equal(t, 50, hero.CurrentHP)
	assert.Equal(t, battle.PhasePlayerTurn, st.Phase)
	assert.Equal(t, "hero", st.Actor().ID)
	assert.Equal(t, 2, st.CurrentActor, "hero acts last")
}

func TestBattle_DefendConsumedByNextHit(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Defense: 10, Speed: 50})
	e1 := combat.NewCombatant("e1", "Wolf", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 30, Speed: 40})
	e2 := combat.NewCombatant("e2", "Bat", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 30, Speed: 30})

	b := battle.New(battle.Options{Source: steady, Policy: attackFirst})
	_, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{e1, e2})
	require.NoError(t, err)

	st, err := simple(b, combat.ActionDefend)
	require.NoError(t, err)

	require.Len(t, st.History, 3)
	first, second := st.History[1].Outcomes[0], st.History[2].Outcomes[0]
	assert.True(t, first.Defended)
	assert.Equal(t, 13, first.Damage)
	assert.False(t, second.Defended)
	assert.Equal(t, 25, second.Damage)
	assert.Equal(t, 62, st.Party[0].CurrentHP)
	assert.False(t, st.Party[0].Defending)
	assert.Equal(t, 2, st.Turn)
}

func TestBattle_DefendClearsAtActorsNextTurn(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 30})

	var defendingAfterRound []bool
	b := battle.New(battle.Options{Source: steady})
	b.Subscribe(func(ev battle.Event) {
		if ev.Type == battle.EventRoundStarted {
			defendingAfterRound = append(defendingAfterRound, hero.Defending)
		}
	})
	_, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	st, err := simple(b, combat.ActionDefend)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, defendingAfterRound, "the stance survives the round boundary")
	assert.False(t, st.Party[0].Defending, "and ends when the defender's turn comes round")
	assert.True(t, st.Enemies[0].Defending, "enemies without a policy defend")
}

func TestBattle_EscapeEndsImmediately(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 99, Speed: 30})

	b := battle.New(battle.Options{Source: steady, Policy: attackFirst, Escape: &battle.EscapeConfig{BaseRate: 1}})
	_, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	st, err := simple(b, combat.ActionEscape)
	require.NoError(t, err)
	assert.Equal(t, battle.PhaseEscaped, st.Phase)
	require.Len(t, st.History, 1)
	assert.True(t, st.History[0].Escaped)
	assert.Equal(t, 100, st.Party[0].CurrentHP)
}

func TestBattle_EscapeChanceGrowsPerFailure(t *testing.T) {
	cfg := battle.EscapeConfig{BaseRate: 0.3, Increment: 0.2}
	src := dice.NewSeededSource(1234)
	const battles = 2000
	var attempts, successes [6]int

	for n := 0; n < battles; n++ {
		hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
		orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 30})
		b := battle.New(battle.Options{Source: src, Escape: &cfg})
		st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
		require.NoError(t, err)
		for st.Phase == battle.PhasePlayerTurn {
			st, err = simple(b, combat.ActionEscape)
			require.NoError(t, err)
		}
		require.Equal(t, battle.PhaseEscaped, st.Phase)

		k := 0
		for _, r := range recordsOf(st, "hero") {
			k++
			want := cfg.BaseRate + cfg.Increment*float64(k-1)
			if want > 1 {
				want = 1
			}
			require.InDelta(t, want, r.EscapeChance, 1e-9, "attempt %d", k)
			attempts[k]++
			if r.Escaped {
				successes[k]++
			}
		}
		require.LessOrEqual(t, k, 5)
	}

	assert.Equal(t, battles, attempts[1])
	assert.InDelta(t, 0.3, float64(successes[1])/float64(attempts[1]), 0.05)
	assert.InDelta(t, 0.5, float64(successes[2])/float64(attempts[2]), 0.05)
	assert.Equal(t, attempts[5], successes[5], "the fifth attempt is certain")
}

func TestBattle_DeterministicWithSeededSource(t *testing.T) {
	play := func() battle.State {
		hero := member("hero", combat.Stats{MaxHP: 80, Attack: 30, Defense: 10, Speed: 40, Luck: 50})
		wolf := combat.NewCombatant("wolf", "Wolf", combat.SideEnemy, combat.Stats{MaxHP: 60, Attack: 25, Defense: 12, Speed: 40})
		b := battle.New(battle.Options{ID: "replay", Source: dice.NewSeededSource(99), Policy: attackFirst})
		st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{wolf})
		require.NoError(t, err)
		for i := 0; i < 100 && st.Phase == battle.PhasePlayerTurn; i++ {
			st, err = attack(b, "wolf")
			require.NoError(t, err)
		}
		return st
	}
	a, b := play(), play()
	assert.True(t, a.Phase.IsTerminal())
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Turn, b.Turn)
}

func TestBattle_ConditionsSkipTurnsAndTick(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "sleep", Name: "Sleep", DurationType: condition.DurationRounds, PreventsAction: true, WakeOnDamage: true})
	tracker := condition.NewTracker(reg, nil)

	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 10})
	require.NoError(t, hero.Effects().Apply(mustDef(reg, "sleep"), 1, 2))

	var skipped, ticked int
	b := battle.New(battle.Options{Source: steady, Status: tracker})
	b.Subscribe(func(ev battle.Event) {
		switch ev.Type {
		case battle.EventTurnSkipped:
			skipped++
		case battle.EventStatusTicked:
			ticked++
		}
	})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	assert.Equal(t, battle.PhasePlayerTurn, st.Phase)
	assert.Equal(t, 3, st.Turn)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 1, ticked, "only the tick that expired sleep is reported")
	assert.False(t, st.Party[0].Effects().Has("sleep"))
}

func TestBattle_StalemateWhenNobodyCanAct(t *testing.T) {
	for name, tc := range map[string]struct {
		maxIdle  int
		wantTurn int
	}{
		"default limit": {maxIdle: 0, wantTurn: battle.DefaultMaxIdleRounds + 1},
		"custom limit":  {maxIdle: 3, wantTurn: 4},
	} {
		t.Run(name, func(t *testing.T) {
			reg := condition.NewRegistry()
			reg.Register(&condition.ConditionDef{ID: "stone", Name: "Stone", DurationType: condition.DurationPermanent, PreventsAction: true})
			core, logs := observer.New(zapcore.WarnLevel)

			hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
			orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 10})
			require.NoError(t, hero.Effects().Apply(mustDef(reg, "stone"), 1, -1))

			var ended int
			b := battle.New(battle.Options{
				Source:        steady,
				Status:        condition.NewTracker(reg, nil),
				Logger:        zap.New(core),
				MaxIdleRounds: tc.maxIdle,
			})
			b.Subscribe(func(ev battle.Event) {
				if ev.Type == battle.EventBattleEnded {
					ended++
				}
			})
			st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
			require.NoError(t, err)

			assert.Equal(t, battle.PhaseStalemate, st.Phase)
			assert.True(t, st.Phase.IsTerminal())
			assert.Equal(t, tc.wantTurn, st.Turn)
			assert.Equal(t, 1, ended)
			assert.Equal(t, 1, logs.FilterMessage("battle stalled").Len())
		})
	}
}

func TestBattle_ChangingRoundsAreNotIdle(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "stone", Name: "Stone", DurationType: condition.DurationPermanent, PreventsAction: true})

	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 5, Speed: 10})
	require.NoError(t, hero.Effects().Apply(mustDef(reg, "stone"), 1, -1))

	b := battle.New(battle.Options{Source: steady, Status: condition.NewTracker(reg, nil), Policy: attackFirst, MaxIdleRounds: 2})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	assert.Equal(t, battle.PhaseDefeat, st.Phase, "rounds in which the hero loses HP never count as idle")
	assert.Greater(t, st.Turn, 3)
}

func TestBattle_DamageWakesSleeper(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "sleep", Name: "Sleep", DurationType: condition.DurationRounds, PreventsAction: true, WakeOnDamage: true})

	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 10})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Attack: 20, Speed: 50})
	require.NoError(t, hero.Effects().Apply(mustDef(reg, "sleep"), 1, 5))

	b := battle.New(battle.Options{Source: steady, Status: condition.NewTracker(reg, nil), Policy: attackFirst})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	require.Len(t, st.History, 1)
	assert.Equal(t, []string{"sleep"}, st.History[0].Outcomes[0].Woke)
	assert.Equal(t, battle.PhasePlayerTurn, st.Phase)
	assert.Equal(t, 1, st.Turn)
}

func TestBattle_DamageOverTimeCanEndBattle(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "poison", Name: "Poison", DurationType: condition.DurationRounds, DamagePerTick: 100})

	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 50, Speed: 10})
	require.NoError(t, orc.Effects().Apply(mustDef(reg, "poison"), 1, 3))

	var ticks []*battle.TickRecord
	b := battle.New(battle.Options{Source: steady, Status: condition.NewTracker(reg, nil)})
	b.Subscribe(func(ev battle.Event) {
		if ev.Type == battle.EventStatusTicked {
			ticks = append(ticks, ev.Tick)
		}
	})
	_, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	st, err := simple(b, combat.ActionDefend)
	require.NoError(t, err)
	assert.Equal(t, battle.PhaseVictory, st.Phase)
	assert.Equal(t, 2, st.Turn)
	require.Len(t, ticks, 1)
	assert.Equal(t, 50, ticks[0].Damage)
	assert.True(t, ticks[0].Defeated)
}

func TestBattle_GroupSkillAndHeal(t *testing.T) {
	quake := &combat.Skill{ID: "quake", Name: "Quake", DamageType: combat.DamageMagical, Target: combat.TargetAllEnemies,
		Effect: combat.EffectDamage, Power: 1, MPCost: 5}
	cure := &combat.Skill{ID: "cure", Name: "Cure", DamageType: combat.DamageMagical, Target: combat.TargetSingleAlly,
		Effect: combat.EffectHeal, Power: 1, MPCost: 3}
	sage := member("sage", combat.Stats{MaxHP: 40, MaxMP: 10, Magic: 20, Speed: 50})
	sage.Skills = []*combat.Skill{quake, cure}
	sage.SetHP(25)
	imp := combat.NewCombatant("imp", "Imp", combat.SideEnemy, combat.Stats{MaxHP: 100, Speed: 10})
	bat := combat.NewCombatant("bat", "Bat", combat.SideEnemy, combat.Stats{MaxHP: 100, Speed: 10})

	b := battle.New(battle.Options{Source: steady})
	_, err := b.Start([]*combat.Combatant{sage}, []*combat.Combatant{imp, bat})
	require.NoError(t, err)

	require.NoError(t, b.SelectCommand(combat.ActionSkill))
	require.NoError(t, b.SelectSkill("quake"))
	require.NoError(t, b.AcceptTargets())
	st, err := b.ConfirmCommand()
	require.NoError(t, err)
	quakeRec := recordsOf(st, "sage")[0]
	require.Len(t, quakeRec.Outcomes, 2)
	assert.Equal(t, 5, quakeRec.MPSpent)
	assert.Equal(t, 80, st.Enemies[0].CurrentHP)
	assert.Equal(t, 80, st.Enemies[1].CurrentHP)

	require.NoError(t, b.SelectCommand(combat.ActionSkill))
	require.NoError(t, b.SelectSkill("quake"), "exactly 5 MP left")
	require.NoError(t, b.CancelCommand())
	require.NoError(t, b.SelectSkill("cure"))
	require.NoError(t, b.SelectTarget("sage"))
	st, err = b.ConfirmCommand()
	require.NoError(t, err)
	cureRec := recordsOf(st, "sage")[1]
	assert.Equal(t, 15, cureRec.Outcomes[0].Healed)
	assert.Equal(t, 40, st.Party[0].CurrentHP)
	assert.Equal(t, 2, st.Party[0].CurrentMP)
}

func TestBattle_SubmitActionValidation(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	mage := member("mage", combat.Stats{MaxHP: 100, Speed: 40})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 10})

	b := battle.New(battle.Options{Source: steady})
	st, err := b.Start([]*combat.Combatant{hero, mage}, []*combat.Combatant{orc})
	require.NoError(t, err)

	_, err = b.SubmitAction(combat.BattleAction{Actor: mage, Type: combat.ActionDefend})
	assert.ErrorIs(t, err, battle.ErrNotCurrentActor)

	_, err = b.SubmitAction(combat.BattleAction{Actor: hero, Type: combat.ActionAttack, Targets: []*combat.Combatant{mage}})
	assert.ErrorIs(t, err, battle.ErrInvalidTarget)

	ghost := &combat.Skill{ID: "ghost", Target: combat.TargetSingleEnemy}
	_, err = b.SubmitAction(combat.BattleAction{Actor: hero, Type: combat.ActionSkill, Skill: ghost, Targets: []*combat.Combatant{orc}})
	assert.ErrorIs(t, err, battle.ErrUnknownSkill)

	_, err = b.SubmitAction(combat.BattleAction{Actor: hero, Type: combat.ActionAttack})
	assert.ErrorIs(t, err, combat.ErrInvalidAction)

	after := b.State()
	assert.Equal(t, st.History, after.History)
	assert.Equal(t, "hero", after.Actor().ID)

	// Actions built against a snapshot bind to the live combatants.
	snapOrc := after.Combatant("orc")
	st, err = b.SubmitAction(combat.BattleAction{Actor: after.Actor(), Type: combat.ActionAttack, Targets: []*combat.Combatant{snapOrc}})
	require.NoError(t, err)
	assert.Less(t, orc.CurrentHP, 30)
	assert.Equal(t, "mage", st.Actor().ID)
}

func TestBattle_StateIsASnapshot(t *testing.T) {
	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 10})
	b := battle.New(battle.Options{Source: steady})
	st, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)

	st.Enemies[0].SetHP(0)
	assert.Same(t, st.Party[0], st.TurnOrder[0], "turn order refers to the snapshot copies")
	assert.Equal(t, 30, orc.CurrentHP)
	assert.Equal(t, 30, b.State().Enemies[0].CurrentHP)
}

func TestBattle_SubscriberPanicIsContained(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	hero := member("hero", combat.Stats{MaxHP: 100, Speed: 50})
	orc := combat.NewCombatant("orc", "Orc", combat.SideEnemy, combat.Stats{MaxHP: 30, Speed: 10})

	b := battle.New(battle.Options{Source: steady, Logger: zap.New(core)})
	b.Subscribe(func(battle.Event) { panic("listener bug") })
	var seen []battle.EventType
	unsubscribe := b.Subscribe(func(ev battle.Event) { seen = append(seen, ev.Type) })

	_, err := b.Start([]*combat.Combatant{hero}, []*combat.Combatant{orc})
	require.NoError(t, err)
	assert.Equal(t, []battle.EventType{battle.EventRoundStarted, battle.EventPhaseChanged, battle.EventTurnStarted}, seen)
	panics := logs.FilterMessage("battle subscriber panicked").All()
	require.NotEmpty(t, panics)
	var ids int
	for _, f := range panics[0].Context {
		if f.Key == "battle_id" {
			ids++
		}
	}
	assert.Equal(t, 1, ids, "battle_id is attached once")

	unsubscribe()
	_, err = simple(b, combat.ActionDefend)
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestEscapeConfig_Chance(t *testing.T) {
	cfg := battle.EscapeConfig{BaseRate: 0.5, Increment: 0.2}
	assert.InDelta(t, 0.5, cfg.Chance(0), 1e-9)
	assert.InDelta(t, 0.9, cfg.Chance(2), 1e-9)
	assert.Equal(t, 1.0, cfg.Chance(10))
	assert.Panics(t, func() { cfg.Chance(-1) })
}

func TestPhase(t *testing.T) {
	for _, p := range []battle.Phase{battle.PhaseVictory, battle.PhaseDefeat, battle.PhaseEscaped, battle.PhaseStalemate} {
		assert.True(t, p.IsTerminal(), p.String())
	}
	for _, p := range []battle.Phase{battle.PhaseInitializing, battle.PhasePlayerTurn, battle.PhaseEnemyTurn, battle.PhaseResolving} {
		assert.False(t, p.IsTerminal(), p.String())
	}
}

func mustDef(reg *condition.Registry, id string) *condition.ConditionDef {
	d, ok := reg.Get(id)
	if !ok {
		panic("missing condition " + id)
	}
	return d
}
