package engine

import (
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// Player is the avatar's current behavior state. Every variant is a value
// type; transition functions return a fresh variant instead of mutating the
// previous one in place.
type Player interface {
	playerState()
	Name() string
}

// PlayerDetecting re-acquires the avatar after startup or an unstuck reset.
type PlayerDetecting struct{}

// PlayerIdle waits for the rotator to hand over an action.
type PlayerIdle struct{}

// PlayerMoving walks toward a destination, dispatching to the specialized
// movement variants as the remaining distance demands.
type PlayerMoving struct {
	Moving Moving
}

// PlayerAdjusting taps toward the destination for fine horizontal closure.
type PlayerAdjusting struct {
	Moving Moving
}

// PlayerDoubleJumping covers large horizontal gaps. Forced double jumps are
// requested by key actions and fire regardless of remaining distance;
// RequireStationary delays the jump until the avatar has settled.
type PlayerDoubleJumping struct {
	Moving            Moving
	Forced            bool
	RequireStationary bool
}

// PlayerGrappling rides the rope lift across the [GrapplingThreshold,
// GrapplingMaxThreshold] vertical band.
type PlayerGrappling struct {
	Moving Moving
	StartX int
}

// PlayerJumping closes small upward gaps with a plain jump.
type PlayerJumping struct {
	Moving Moving
}

// PlayerUpJumping closes medium upward gaps with an up jump.
type PlayerUpJumping struct {
	Moving Moving
}

// PlayerFalling drops through the current platform. Anchor is the position
// at entry; falling completes once the avatar is below it.
type PlayerFalling struct {
	Moving Moving
	Anchor Point
}

// PlayerUnstucking runs the escape routine after repeated positioning
// failures or an avatar pinned to the minimap edge.
type PlayerUnstucking struct {
	Timeout   Timeout
	Gamba     bool
	Direction platform.Key
}

// PlayerStalling waits out a tick budget, then resumes a caller-provided
// fallback state or Idle.
type PlayerStalling struct {
	Timeout Timeout
	Max     uint32
}

// PlayerSolvingRune interacts with an active rune and presses its detected
// key sequence.
type PlayerSolvingRune struct {
	SolvingRune SolvingRune
}

// PlayerUseKey performs a scripted key press with stance, direction and link
// key staging.
type PlayerUseKey struct {
	UseKey UseKey
}

// PlayerCashShop runs the cash shop round trip used to reset a stuck rune
// limit.
type PlayerCashShop struct {
	Timeout Timeout
	Stage   CashShopStage
}

func (PlayerDetecting) playerState()     {}
func (PlayerIdle) playerState()          {}
func (PlayerMoving) playerState()        {}
func (PlayerAdjusting) playerState()     {}
func (PlayerDoubleJumping) playerState() {}
func (PlayerGrappling) playerState()     {}
func (PlayerJumping) playerState()       {}
func (PlayerUpJumping) playerState()     {}
func (PlayerFalling) playerState()       {}
func (PlayerUnstucking) playerState()    {}
func (PlayerStalling) playerState()      {}
func (PlayerSolvingRune) playerState()   {}
func (PlayerUseKey) playerState()        {}
func (PlayerCashShop) playerState()      {}

func (PlayerDetecting) Name() string     { return "detecting" }
func (PlayerIdle) Name() string          { return "idle" }
func (PlayerMoving) Name() string        { return "moving" }
func (PlayerAdjusting) Name() string     { return "adjusting" }
func (PlayerDoubleJumping) Name() string { return "double_jumping" }
func (PlayerGrappling) Name() string     { return "grappling" }
func (PlayerJumping) Name() string       { return "jumping" }
func (PlayerUpJumping) Name() string     { return "up_jumping" }
func (PlayerFalling) Name() string       { return "falling" }
func (PlayerUnstucking) Name() string    { return "unstucking" }
func (PlayerStalling) Name() string      { return "stalling" }
func (PlayerSolvingRune) Name() string   { return "solving_rune" }
func (PlayerUseKey) Name() string        { return "use_key" }
func (PlayerCashShop) Name() string      { return "cash_shop" }

// lastMovement tags the most recent specialized movement for auto-mob
// pathing heuristics.
type lastMovement int

const (
	lastMovementNone lastMovement = iota
	lastMovementDoubleJumping
	lastMovementGrappling
	lastMovementUpJumping
	lastMovementFalling
)

// PlayerState is the avatar-persistent memory mutated in place every tick,
// never reconstructed. All access is confined to the tick thread.
type PlayerState struct {
	Config CharacterConfig

	priorityAction PlayerAction
	normalAction   PlayerAction

	pos      Point
	posKnown bool
	// posChangedTick mirrors whether pos moved on the current tick.
	posChanged bool

	lastDirection       ActionKeyDirection
	lastMovement        lastMovement
	isStationary        bool
	isStationaryTimeout Timeout

	failedDetectCount         uint32
	unstuckCounter            uint32
	unstuckConsecutiveCounter uint32

	runeValidateTimeout *Timeout
	runeFailedCount     uint32
	runeCashShop        bool
	runeTask            *Task[detect.ArrowsState]

	// stallingTimeoutState, when set, is where Stalling resumes after its
	// budget instead of Idle. Only UseKey sets it.
	stallingTimeoutState Player

	// useImmediateControlFlow requests a same-tick re-dispatch after the
	// current transition.
	useImmediateControlFlow bool

	autoMobReachableY    *int
	autoMobReachableYMap map[int]uint32
	autoMobbing          bool

	// rng drives gamba-mode choices; overridable in tests.
	rng *rand.Rand

	// onActionCompleted, when set, observes every terminal completion.
	onActionCompleted func(action PlayerAction, priority bool)
}

// NewPlayerState prepares avatar memory for a run.
func NewPlayerState(config CharacterConfig) *PlayerState {
	return &PlayerState{
		Config:               config,
		autoMobReachableYMap: make(map[int]uint32),
		rng:                  rand.New(rand.NewSource(rand.Int63())),
	}
}

// Pos returns the last known avatar position and whether one is known.
func (s *PlayerState) Pos() (Point, bool) {
	return s.pos, s.posKnown
}

// HasPriorityAction reports whether the priority slot is occupied.
func (s *PlayerState) HasPriorityAction() bool { return s.priorityAction != nil }

// HasNormalAction reports whether the normal slot is occupied.
func (s *PlayerState) HasNormalAction() bool { return s.normalAction != nil }

// HasRunePending reports an in-flight or awaiting-validation rune solve.
func (s *PlayerState) HasRunePending() bool {
	if s.runeValidateTimeout != nil {
		return true
	}
	if _, ok := s.priorityAction.(PlayerActionSolveRune); ok {
		return true
	}
	return false
}

// SetPriorityAction hands the avatar a priority action. At most one may be
// held at a time; the rotator guarantees it never injects over an occupied
// slot.
func (s *PlayerState) SetPriorityAction(action PlayerAction) {
	if s.priorityAction != nil {
		panic("engine: priority action slot occupied")
	}
	s.priorityAction = action
}

// SetNormalAction hands the avatar a normal action.
func (s *PlayerState) SetNormalAction(action PlayerAction) {
	if s.normalAction != nil {
		panic("engine: normal action slot occupied")
	}
	s.normalAction = action
}

// heldAction returns the active action, priority taking precedence.
func (s *PlayerState) heldAction() (PlayerAction, bool, bool) {
	if s.priorityAction != nil {
		return s.priorityAction, true, true
	}
	if s.normalAction != nil {
		return s.normalAction, false, true
	}
	return nil, false, false
}

// completeAction clears the indicated slot and resets the unstuck escalation
// counter: a terminally completed action proves positioning works again.
func (s *PlayerState) completeAction(priority bool) {
	var action PlayerAction
	if priority {
		action = s.priorityAction
		s.priorityAction = nil
	} else {
		action = s.normalAction
		s.normalAction = nil
	}
	s.unstuckConsecutiveCounter = 0
	if s.onActionCompleted != nil && action != nil {
		s.onActionCompleted(action, priority)
	}
}

// abortAction drops the held action without completion (e.g. on re-detection
// resets).
func (s *PlayerState) abortAction() {
	s.priorityAction = nil
	s.normalAction = nil
}

// doubleJumpThreshold is the horizontal distance that justifies a double
// jump, relaxed while auto-mobbing.
func (s *PlayerState) doubleJumpThreshold() int {
	if s.autoMobbing {
		return constants.DoubleJumpAutoMobThreshold
	}
	return constants.DoubleJumpThreshold
}

// updateRuneFailCount counts a failed solve, arming the cash shop round trip
// at the limit.
func (s *PlayerState) updateRuneFailCount() {
	s.runeFailedCount++
	if s.runeFailedCount >= constants.MaxRuneFailedCount {
		s.runeFailedCount = 0
		s.runeCashShop = true
	}
}

// updateState refreshes per-tick avatar memory from the frame: position,
// stationariness and the rune validation window. Returns false when the
// avatar could not be located this tick.
func (s *PlayerState) updateState(ctx *Context) bool {
	s.updateRuneValidating(ctx)

	idle, ok := ctx.minimapIdle()
	if !ok {
		s.posKnown = false
		return false
	}
	rect, err := ctx.Detector.DetectPlayer(idle.BBox)
	if err != nil {
		s.failedDetectCount++
		s.posChanged = false
		return false
	}
	s.failedDetectCount = 0

	center := rect.Center()
	cur := Point{
		X: center.X - idle.BBox.X,
		Y: idle.BBox.Y + idle.BBox.H - center.Y,
	}
	s.posChanged = !s.posKnown || cur != s.pos
	s.pos = cur
	s.posKnown = true

	// Stationary once the position has held still for a full move budget.
	if s.posChanged {
		s.isStationary = false
		s.isStationaryTimeout = Timeout{}
	}
	s.isStationaryTimeout = advanceTimeout(
		s.isStationaryTimeout,
		constants.MoveTimeout,
		func(t Timeout) Timeout { return t },
		func() Timeout {
			s.isStationary = true
			return s.isStationaryTimeout
		},
		func(t Timeout) Timeout { return t },
	)
	return true
}

// updateRuneValidating drives the post-solve validation window: the rune
// buff must appear before it expires or the solve counts as failed.
func (s *PlayerState) updateRuneValidating(ctx *Context) {
	if s.runeValidateTimeout == nil {
		return
	}
	if ctx.hasBuff(detect.BuffRune) {
		s.runeValidateTimeout = nil
		s.runeFailedCount = 0
		return
	}
	*s.runeValidateTimeout = advanceTimeout(
		*s.runeValidateTimeout,
		constants.RuneValidateTimeout,
		func(t Timeout) Timeout { return t },
		func() Timeout {
			s.runeValidateTimeout = nil
			s.updateRuneFailCount()
			log.Debug().
				Uint32("failed_count", s.runeFailedCount).
				Bool("cash_shop", s.runeCashShop).
				Msg("rune validation expired")
			return Timeout{}
		},
		func(t Timeout) Timeout { return t },
	)
}

// updatePlayerContext advances the avatar one step. The returned control flow
// is Immediate when a transition wants the successor state to run within the
// same tick.
func updatePlayerContext(ctx *Context, state *PlayerState, player Player) (Player, controlFlow) {
	detected := state.updateState(ctx)

	next := dispatchPlayer(ctx, state, player, detected)

	flow := controlFlowNext
	if state.useImmediateControlFlow {
		state.useImmediateControlFlow = false
		flow = controlFlowImmediate
	}
	return next, flow
}

func dispatchPlayer(ctx *Context, state *PlayerState, player Player, detected bool) Player {
	// Escape hatch: repeated detection failure outside the states that
	// legitimately hide the avatar (cash shop, unstuck itself).
	switch player.(type) {
	case PlayerCashShop, PlayerUnstucking, PlayerDetecting:
	default:
		if state.failedDetectCount >= constants.UnstuckTrackerThreshold {
			state.failedDetectCount = 0
			return PlayerUnstucking{}
		}
	}

	switch p := player.(type) {
	case PlayerDetecting:
		return updateDetectingContext(state, detected)
	case PlayerIdle:
		return updateIdleContext(ctx, state, detected)
	case PlayerMoving:
		return updateMovingContext(ctx, state, p, detected)
	case PlayerAdjusting:
		return updateAdjustingContext(ctx, state, p)
	case PlayerDoubleJumping:
		return updateDoubleJumpingContext(ctx, state, p)
	case PlayerGrappling:
		return updateGrapplingContext(ctx, state, p)
	case PlayerJumping:
		return updateJumpingContext(ctx, state, p)
	case PlayerUpJumping:
		return updateUpJumpingContext(ctx, state, p)
	case PlayerFalling:
		return updateFallingContext(ctx, state, p)
	case PlayerUnstucking:
		return updateUnstuckingContext(ctx, state, p)
	case PlayerStalling:
		return updateStallingContext(state, p)
	case PlayerSolvingRune:
		return updateSolvingRuneContext(ctx, state, p)
	case PlayerUseKey:
		return updateUseKeyContext(ctx, state, p)
	case PlayerCashShop:
		return updateCashShopContext(ctx, state, p, !detected)
	default:
		panic("engine: unknown player state")
	}
}
