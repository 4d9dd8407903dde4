package battle

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/command"
	"github.com/cory-johannsen/turnbattle/internal/game/condition"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

var (
	// ErrAlreadyStarted is returned by Start on a battle that has left PhaseInitializing.
	ErrAlreadyStarted = errors.New("battle already started")
	// ErrEmptyRoster is returned when either side has no combatants.
	ErrEmptyRoster = errors.New("party and enemy group must both be non-empty")
	// ErrDuplicateCombatant is returned when two combatants share an ID.
	ErrDuplicateCombatant = errors.New("duplicate combatant id")
	// ErrNotAwaitingPlayer is returned by the command family outside PhasePlayerTurn.
	ErrNotAwaitingPlayer = errors.New("battle is not waiting for a player command")
	// ErrNotCurrentActor is returned when an action names someone other than the current actor.
	ErrNotCurrentActor = errors.New("not the current actor")
	// ErrInvalidTarget is returned when an action's targets are not legal candidates.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrUnknownSkill is returned when the actor does not know the action's skill.
	ErrUnknownSkill = errors.New("actor does not know skill")
	// ErrUnaffordable is returned when the actor cannot pay the action's skill cost.
	ErrUnaffordable = errors.New("actor cannot afford skill")
)

// Options configures a Battle. Zero values select defaults.
type Options struct {
	ID        string // generated when empty
	Balance   *combat.Balance
	Escape    *EscapeConfig
	Source    dice.Source
	Status    StatusTracker
	Items     ItemUser
	Inventory command.Inventory
	Policy    Policy
	Logger    *zap.Logger

	// MaxIdleRounds ends the battle in PhaseStalemate after this many
	// consecutive rounds in which no player acted and nothing changed.
	MaxIdleRounds int // DefaultMaxIdleRounds when <= 0
}

// DefaultMaxIdleRounds is the idle round limit used when Options leaves it unset.
const DefaultMaxIdleRounds = 10

// Battle is one battle session. It owns mutation of its combatants from Start
// until it reaches a terminal phase.
//
// Enemy turns run synchronously inside Start and the player command methods;
// the battle suspends in PhasePlayerTurn until the current player's command
// is confirmed. It is not safe for concurrent use.
type Battle struct {
	id       string
	balance  combat.Balance
	escape   EscapeConfig
	src      dice.Source
	status   StatusTracker
	items    ItemUser
	policy   Policy
	logger   *zap.Logger
	selector *command.Selector

	phase         Phase
	turn          int
	party         []*combat.Combatant
	enemies       []*combat.Combatant
	order         []*combat.Combatant
	index         int
	history       []ActionRecord
	failedEscapes int

	maxIdleRounds int
	idleRounds    int
	playerTurned  bool
	roundMarks    []mark

	subscribers []subscription
	nextSubID   int
}

// New creates a battle in PhaseInitializing.
//
// Postcondition: missing options are replaced by defaults: a generated uuid,
// DefaultBalance, DefaultEscapeConfig, a crypto Source, a condition tracker
// with no definitions and a no-op logger. A nil Policy makes every enemy defend.
func New(opts Options) *Battle {
	b := &Battle{
		id:      opts.ID,
		balance: combat.DefaultBalance(),
		escape:  DefaultEscapeConfig(),
		src:     opts.Source,
		status:  opts.Status,
		items:   opts.Items,
		policy:  opts.Policy,
		logger:  opts.Logger,
		phase:   PhaseInitializing,

		maxIdleRounds: opts.MaxIdleRounds,
	}
	if b.maxIdleRounds <= 0 {
		b.maxIdleRounds = DefaultMaxIdleRounds
	}
	if b.id == "" {
		b.id = uuid.NewString()
	}
	if opts.Balance != nil {
		b.balance = *opts.Balance
	}
	if opts.Escape != nil {
		b.escape = *opts.Escape
	}
	if b.src == nil {
		b.src = dice.NewCryptoSource()
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.status == nil {
		b.status = condition.NewTracker(condition.NewRegistry(), b.logger)
	}
	b.logger = b.logger.With(zap.String("battle_id", b.id))
	b.selector = command.NewSelector(opts.Inventory)
	return b
}

// ID returns the battle's identifier.
func (b *Battle) ID() string { return b.id }

// Phase returns the current phase.
func (b *Battle) Phase() Phase { return b.phase }

// Start installs the rosters, computes the first turn order and runs until
// the first player turn or a terminal phase.
//
// Precondition: the combatants must not be shared with another active battle.
// Postcondition: Positions are assigned party first; Turn == 1.
func (b *Battle) Start(party, enemies []*combat.Combatant) (State, error) {
	if b.phase != PhaseInitializing {
		return State{}, ErrAlreadyStarted
	}
	if len(party) == 0 || len(enemies) == 0 {
		return State{}, ErrEmptyRoster
	}
	seen := make(map[string]bool, len(party)+len(enemies))
	for _, c := range append(append([]*combat.Combatant(nil), party...), enemies...) {
		if c == nil {
			return State{}, fmt.Errorf("%w: nil combatant", ErrEmptyRoster)
		}
		if seen[c.ID] {
			return State{}, fmt.Errorf("%w: %q", ErrDuplicateCombatant, c.ID)
		}
		seen[c.ID] = true
	}

	b.party = append([]*combat.Combatant(nil), party...)
	b.enemies = append([]*combat.Combatant(nil), enemies...)
	for i, c := range b.party {
		c.Side, c.Position = combat.SidePlayer, i
	}
	for i, c := range b.enemies {
		c.Side, c.Position = combat.SideEnemy, len(b.party)+i
	}
	for _, c := range b.roster() {
		c.Clamp()
		c.Defending = false
		c.Effects()
	}

	b.logger.Info("battle started",
		zap.Int("party", len(b.party)),
		zap.Int("enemies", len(b.enemies)),
	)
	b.turn = 1
	if b.checkEnd() {
		return b.State(), nil
	}
	b.beginRound()
	b.run()
	return b.State(), nil
}

// State returns a deep snapshot of the battle.
func (b *Battle) State() State {
	clones := make(map[*combat.Combatant]*combat.Combatant, len(b.party)+len(b.enemies))
	clone := func(src []*combat.Combatant) []*combat.Combatant {
		out := make([]*combat.Combatant, len(src))
		for i, c := range src {
			cp, ok := clones[c]
			if !ok {
				cp = c.Clone()
				clones[c] = cp
			}
			out[i] = cp
		}
		return out
	}
	s := State{
		ID:            b.id,
		Phase:         b.phase,
		Turn:          b.turn,
		Party:         clone(b.party),
		Enemies:       clone(b.enemies),
		CurrentActor:  -1,
		History:       append([]ActionRecord(nil), b.history...),
		FailedEscapes: b.failedEscapes,
	}
	s.TurnOrder = clone(b.order)
	if b.phase == PhasePlayerTurn || b.phase == PhaseEnemyTurn || b.phase == PhaseResolving {
		s.CurrentActor = b.index
	}
	return s
}

// CurrentActor returns a snapshot of the combatant whose turn it is, or nil
// when no turn is in progress.
func (b *Battle) CurrentActor() *combat.Combatant {
	if a := b.current(); a != nil {
		return a.Clone()
	}
	return nil
}

func (b *Battle) current() *combat.Combatant {
	switch b.phase {
	case PhasePlayerTurn, PhaseEnemyTurn, PhaseResolving:
		if b.index < len(b.order) {
			return b.order[b.index]
		}
	}
	return nil
}

func (b *Battle) roster() []*combat.Combatant {
	return append(append([]*combat.Combatant(nil), b.party...), b.enemies...)
}

func (b *Battle) setPhase(p Phase) {
	if b.phase == p {
		return
	}
	b.phase = p
	b.emit(Event{Type: EventPhaseChanged})
}

func (b *Battle) beginRound() {
	b.order = combat.TurnOrder(b.roster())
	b.index = 0
	b.playerTurned = false
	b.roundMarks = b.marks()
	b.emit(Event{Type: EventRoundStarted})
}

// mark fingerprints one combatant for idle round detection.
type mark struct {
	hp, mp int
	status string
}

func (b *Battle) marks() []mark {
	roster := b.roster()
	out := make([]mark, len(roster))
	for i, c := range roster {
		var sb strings.Builder
		for _, ac := range c.Effects().All() {
			fmt.Fprintf(&sb, "%s:%d:%d;", ac.Def.ID, ac.Stacks, ac.DurationRemaining)
		}
		out[i] = mark{hp: c.CurrentHP, mp: c.CurrentMP, status: sb.String()}
	}
	return out
}

// run advances through turns until a player must choose or the battle ends.
func (b *Battle) run() {
	for !b.phase.IsTerminal() {
		if b.index >= len(b.order) {
			if b.endRound() {
				return
			}
			continue
		}
		actor := b.order[b.index]
		if actor.IsDefeated() {
			b.index++
			continue
		}
		actor.Defending = false
		if !b.status.CanAct(actor) {
			b.emit(Event{Type: EventTurnSkipped, ActorID: actor.ID, Reason: "cannot act"})
			b.index++
			continue
		}

		if actor.Side == combat.SidePlayer {
			b.playerTurned = true
			b.selector.Start(actor, b.party, b.enemies)
			b.setPhase(PhasePlayerTurn)
			b.emit(Event{Type: EventTurnStarted, ActorID: actor.ID})
			return
		}

		b.setPhase(PhaseEnemyTurn)
		b.emit(Event{Type: EventTurnStarted, ActorID: actor.ID})
		action, reason := b.chooseEnemyAction(actor)
		b.resolve(action, reason)
		if b.phase.IsTerminal() {
			return
		}
		b.index++
	}
}

// endRound ticks statuses, advances the turn counter and starts the next round.
// It reports whether the battle ended, either during the tick or because
// MaxIdleRounds rounds passed with no player turn and no change to any
// combatant.
func (b *Battle) endRound() bool {
	b.turn++
	for _, c := range b.roster() {
		if c.IsDefeated() {
			continue
		}
		res := b.status.Tick(c)
		if res.Damage == 0 && res.Healed == 0 && len(res.Expired) == 0 {
			continue
		}
		rec := &TickRecord{CombatantID: c.ID, TickResult: res, Defeated: c.IsDefeated()}
		b.emit(Event{Type: EventStatusTicked, ActorID: c.ID, Tick: rec})
	}
	if b.checkEnd() {
		return true
	}
	if !b.playerTurned && slices.Equal(b.roundMarks, b.marks()) {
		b.idleRounds++
	} else {
		b.idleRounds = 0
	}
	if b.idleRounds >= b.maxIdleRounds {
		b.logger.Warn("battle stalled",
			zap.Int("turn", b.turn),
			zap.Int("idle_rounds", b.idleRounds),
		)
		b.finish(PhaseStalemate)
		return true
	}
	b.beginRound()
	return false
}

// checkEnd moves to a terminal phase when one side is wiped out. Victory is
// checked first.
func (b *Battle) checkEnd() bool {
	switch {
	case combat.AllDefeated(b.enemies):
		b.finish(PhaseVictory)
	case combat.AllDefeated(b.party):
		b.finish(PhaseDefeat)
	default:
		return false
	}
	return true
}

func (b *Battle) finish(p Phase) {
	b.setPhase(p)
	b.logger.Info("battle ended",
		zap.Stringer("phase", p),
		zap.Int("turn", b.turn),
		zap.Int("actions", len(b.history)),
	)
	b.emit(Event{Type: EventBattleEnded})
}
