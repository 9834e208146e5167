package engine

import "github.com/veylen/mapletide/internal/platform"

// ActionConditionKind gates when a scripted action becomes eligible.
type ActionConditionKind int

const (
	// ConditionAny actions belong to the routine sweep.
	ConditionAny ActionConditionKind = iota
	// ConditionEveryMillis actions re-queue once the interval has elapsed
	// since they were last queued.
	ConditionEveryMillis
	// ConditionErdaShowerOffCooldown actions re-queue when the tracked
	// ability is usable.
	ConditionErdaShowerOffCooldown
	// ConditionLinked actions chain onto the preceding action and are never
	// scheduled on their own.
	ConditionLinked
)

// ActionCondition is immutable per scripted action.
type ActionCondition struct {
	Kind   ActionConditionKind
	Millis int64
}

// ActionKeyDirection optionally forces the avatar to face a direction before
// a key action fires.
type ActionKeyDirection int

const (
	DirectionAny ActionKeyDirection = iota
	DirectionLeft
	DirectionRight
)

// ActionKeyWith selects the stance required for a key action.
type ActionKeyWith int

const (
	ActionKeyWithAny ActionKeyWith = iota
	ActionKeyWithStationary
	ActionKeyWithDoubleJump
)

// LinkKeyKind orders a linked key relative to the main key press.
type LinkKeyKind int

const (
	LinkKeyBefore LinkKeyKind = iota
	LinkKeyAtTheSame
	LinkKeyAfter
)

// LinkKey is an optional companion key for a key action.
type LinkKey struct {
	Kind LinkKeyKind
	Key  platform.Key
}

// Action is one scripted step: either a move-to or a press-key. The rotator
// consumes a flat ordered list of these and is agnostic to how they were
// persisted.
type Action interface {
	Condition() ActionCondition
}

// ActionMove walks the avatar to a position.
type ActionMove struct {
	X              int
	Y              int
	AllowAdjusting bool
	Cond           ActionCondition
	WaitAfterMillis int64
}

func (a ActionMove) Condition() ActionCondition { return a.Cond }

// ActionKey presses a key, optionally at a position, with stance, direction
// and link key requirements.
type ActionKey struct {
	Key       platform.Key
	Link      *LinkKey
	Count     int
	HasPos    bool
	X         int
	Y         int
	AllowAdjusting bool
	Cond      ActionCondition
	Direction ActionKeyDirection
	With      ActionKeyWith
	WaitBeforeMillis int64
	WaitAfterMillis  int64
	QueueToFront     bool
}

func (a ActionKey) Condition() ActionCondition { return a.Cond }

// useCount normalizes the configured press count.
func (a ActionKey) useCount() int {
	if a.Count <= 0 {
		return 1
	}
	return a.Count
}

// PlayerAction is one unit of work held by the avatar engine, consumed
// exactly once to terminal completion.
type PlayerAction interface {
	playerAction()
	String() string
}

// PlayerActionMove wraps a scripted move.
type PlayerActionMove struct {
	Action ActionMove
}

// PlayerActionKey wraps a scripted key press.
type PlayerActionKey struct {
	Action ActionKey
}

// PlayerActionAutoMob targets an engine-generated mob position.
type PlayerActionAutoMob struct {
	Pos Point
}

// PlayerActionSolveRune walks to the active rune and solves it.
type PlayerActionSolveRune struct {
	Pos Point
}

func (PlayerActionMove) playerAction()      {}
func (PlayerActionKey) playerAction()       {}
func (PlayerActionAutoMob) playerAction()   {}
func (PlayerActionSolveRune) playerAction() {}

func (PlayerActionMove) String() string      { return "move" }
func (PlayerActionKey) String() string       { return "key" }
func (PlayerActionAutoMob) String() string   { return "auto_mob" }
func (PlayerActionSolveRune) String() string { return "solve_rune" }

// onActionStateMut runs the action-association overlay: if the avatar holds
// an action (priority first), onAction interprets the tick's computed next
// state for it, optionally marking the action terminally complete. handled
// false defers to fallback. Without any held action fallback runs directly.
func onActionStateMut(
	state *PlayerState,
	onAction func(*PlayerState, PlayerAction, bool) (next Player, terminal bool, handled bool),
	fallback func() Player,
) Player {
	action, priority, ok := state.heldAction()
	if !ok {
		return fallback()
	}
	next, terminal, handled := onAction(state, action, priority)
	if !handled {
		return fallback()
	}
	if terminal {
		state.completeAction(priority)
	}
	return next
}

// onAction is the read-only variant of the overlay.
func onAction(
	state *PlayerState,
	handler func(PlayerAction, bool) (Player, bool, bool),
	fallback func() Player,
) Player {
	return onActionStateMut(
		state,
		func(_ *PlayerState, action PlayerAction, priority bool) (Player, bool, bool) {
			return handler(action, priority)
		},
		fallback,
	)
}
