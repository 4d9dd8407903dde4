package battle

import "go.uber.org/zap"

// EventType enumerates battle notifications.
type EventType int

const (
	EventPhaseChanged EventType = iota
	EventRoundStarted
	EventTurnStarted
	EventTurnSkipped
	EventActionResolved
	EventStatusTicked
	EventBattleEnded
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPhaseChanged:
		return "phase_changed"
	case EventRoundStarted:
		return "round_started"
	case EventTurnStarted:
		return "turn_started"
	case EventTurnSkipped:
		return "turn_skipped"
	case EventActionResolved:
		return "action_resolved"
	case EventStatusTicked:
		return "status_ticked"
	case EventBattleEnded:
		return "battle_ended"
	default:
		return "unknown"
	}
}

// Event is a fire-and-forget notification. Only the fields relevant to Type are set.
type Event struct {
	Type     EventType
	BattleID string
	Turn     int
	Phase    Phase
	ActorID  string
	Reason   string
	Action   *ActionRecord
	Tick     *TickRecord
}

// Subscriber receives events synchronously. It must not call back into the battle.
type Subscriber func(Event)

type subscription struct {
	id int
	fn Subscriber
}

// Subscribe registers fn and returns a function that removes it.
func (b *Battle) Subscribe(fn Subscriber) (unsubscribe func()) {
	if fn == nil {
		panic("battle: Subscribe: fn must not be nil")
	}
	b.nextSubID++
	id := b.nextSubID
	b.subscribers = append(b.subscribers, subscription{id: id, fn: fn})
	return func() {
		for i, s := range b.subscribers {
			if s.id == id {
				b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (b *Battle) emit(ev Event) {
	ev.BattleID = b.id
	ev.Turn = b.turn
	ev.Phase = b.phase
	for _, s := range append([]subscription(nil), b.subscribers...) {
		b.deliver(s, ev)
	}
}

func (b *Battle) deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("battle subscriber panicked",
				zap.Stringer("event", ev.Type),
				zap.Any("panic", r),
			)
		}
	}()
	s.fn(ev)
}
