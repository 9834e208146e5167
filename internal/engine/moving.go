package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
)

// adjustingThreshold is the horizontal distance (px) under which moving stops
// walking and hands over to fine adjustment taps.
const adjustingThreshold = 3

// maxIntermediates bounds waypoints per movement; scripted routes never need
// more.
const maxIntermediates = 16

// Waypoint is one intermediate destination on the way to a final one.
type Waypoint struct {
	Dest  Point
	Exact bool
}

// Intermediates walks a fixed route of waypoints. Push-only; consumed by
// index.
type Intermediates struct {
	inner   bounded[Waypoint]
	current int
}

// NewIntermediates builds a route. The final scripted destination must be the
// last waypoint.
func NewIntermediates(waypoints []Waypoint) *Intermediates {
	inner := newBounded[Waypoint](maxIntermediates)
	for _, w := range waypoints {
		inner.push(w)
	}
	return &Intermediates{inner: inner}
}

func (i *Intermediates) hasNext() bool {
	return i != nil && i.current < i.inner.len()
}

// next consumes and returns the upcoming waypoint.
func (i *Intermediates) next() Waypoint {
	w := i.inner.at(i.current)
	i.current++
	return w
}

// Moving is the in-flight movement payload shared by every movement-derived
// state.
type Moving struct {
	Pos           Point
	Dest          Point
	Exact         bool
	Completed     bool
	Intermediates *Intermediates
	Timeout       Timeout
}

func (m Moving) withPos(pos Point) Moving {
	m.Pos = pos
	return m
}

func (m Moving) withTimeout(t Timeout) Moving {
	m.Timeout = t
	return m
}

func (m Moving) withCompleted() Moving {
	m.Completed = true
	return m
}

// resetTimeout re-arms the embedded timeout for a successor state's own run.
func (m Moving) resetTimeout() Moving {
	m.Timeout = Timeout{}
	return m
}

// distances returns the remaining (dx, dy) toward the destination, y positive
// meaning the destination is above.
func (m Moving) distances() (int, int) {
	return m.Dest.X - m.Pos.X, m.Dest.Y - m.Pos.Y
}

// updateDetectingContext waits until the avatar has been located.
func updateDetectingContext(state *PlayerState, detected bool) Player {
	if !detected {
		return PlayerDetecting{}
	}
	log.Debug().Int("x", state.pos.X).Int("y", state.pos.Y).Msg("player detected")
	return PlayerIdle{}
}

// updateIdleContext dispatches a held action into its entry state.
func updateIdleContext(ctx *Context, state *PlayerState, detected bool) Player {
	if !detected {
		return PlayerIdle{}
	}
	if state.runeCashShop {
		// The rune failure limit escalates to a cash shop round trip
		// before anything else runs.
		state.runeCashShop = false
		state.abortAction()
		state.useImmediateControlFlow = true
		return PlayerCashShop{Stage: CashShopEntering}
	}

	return onAction(
		state,
		func(action PlayerAction, _ bool) (Player, bool, bool) {
			switch a := action.(type) {
			case PlayerActionMove:
				state.useImmediateControlFlow = true
				return startMoving(state, Point{X: a.Action.X, Y: a.Action.Y}, a.Action.AllowAdjusting), false, true
			case PlayerActionKey:
				if a.Action.HasPos {
					state.useImmediateControlFlow = true
					return startMoving(state, Point{X: a.Action.X, Y: a.Action.Y}, a.Action.AllowAdjusting), false, true
				}
				return PlayerUseKey{UseKey: newUseKey(a.Action)}, false, true
			case PlayerActionAutoMob:
				state.useImmediateControlFlow = true
				return startMoving(state, a.Pos, false), false, true
			case PlayerActionSolveRune:
				state.useImmediateControlFlow = true
				return startMoving(state, a.Pos, true), false, true
			default:
				panic("engine: unknown player action")
			}
		},
		func() Player { return PlayerIdle{} },
	)
}

// startMoving enters the movement chain toward dest from the current
// position.
func startMoving(state *PlayerState, dest Point, exact bool) Player {
	return PlayerMoving{Moving: Moving{
		Pos:   state.pos,
		Dest:  dest,
		Exact: exact,
	}}
}

// updateMovingContext advances plain movement: while incomplete it picks the
// specialized variant the remaining distance demands; once complete it walks
// intermediates and finally resolves the held action.
func updateMovingContext(ctx *Context, state *PlayerState, p PlayerMoving, detected bool) Player {
	if !detected {
		return p
	}
	return advanceMovingTimeout(
		p.Moving, state.pos, constants.MoveTimeout, ChangeAxisBoth,
		func(m Moving) Player { return decideMoving(ctx, state, m) },
		nil,
		func(m Moving) Player { return decideMoving(ctx, state, m) },
	)
}

func decideMoving(ctx *Context, state *PlayerState, moving Moving) Player {
	if !moving.Completed {
		dx, dy := moving.distances()
		switch {
		case abs(dx) >= state.doubleJumpThreshold():
			state.useImmediateControlFlow = true
			return PlayerDoubleJumping{Moving: moving.resetTimeout()}
		case abs(dx) > adjustingThreshold || (moving.Exact && dx != 0):
			if !state.Config.DisableAdjusting {
				state.useImmediateControlFlow = true
				return PlayerAdjusting{Moving: moving.resetTimeout()}
			}
		}
		switch {
		case dy >= constants.GrapplingThreshold && dy <= constants.GrapplingMaxThreshold && state.Config.hasRopeLift():
			state.useImmediateControlFlow = true
			return PlayerGrappling{Moving: moving.resetTimeout(), StartX: moving.Pos.X}
		case dy >= constants.UpJumpThreshold:
			state.useImmediateControlFlow = true
			return PlayerUpJumping{Moving: moving.resetTimeout()}
		case dy >= constants.JumpThreshold:
			state.useImmediateControlFlow = true
			return PlayerJumping{Moving: moving.resetTimeout()}
		case dy <= -constants.FallingThreshold:
			state.useImmediateControlFlow = true
			return PlayerFalling{Moving: moving.resetTimeout(), Anchor: moving.Pos}
		}
		moving = moving.withCompleted()
	}

	if moving.Intermediates.hasNext() {
		w := moving.Intermediates.next()
		state.useImmediateControlFlow = true
		return PlayerMoving{Moving: Moving{
			Pos:           moving.Pos,
			Dest:          w.Dest,
			Exact:         w.Exact,
			Intermediates: moving.Intermediates,
		}}
	}

	return onActionStateMut(
		state,
		func(state *PlayerState, action PlayerAction, _ bool) (Player, bool, bool) {
			switch a := action.(type) {
			case PlayerActionMove:
				if a.Action.WaitAfterMillis > 0 {
					return PlayerStalling{Max: millisToTicks(a.Action.WaitAfterMillis)}, false, true
				}
				return PlayerIdle{}, true, true
			case PlayerActionKey:
				state.useImmediateControlFlow = true
				return PlayerUseKey{UseKey: newUseKey(a.Action)}, false, true
			case PlayerActionAutoMob:
				state.useImmediateControlFlow = true
				return PlayerUseKey{UseKey: newUseKey(ActionKey{
					Key:  state.Config.JumpKey,
					With: ActionKeyWithAny,
				})}, false, true
			case PlayerActionSolveRune:
				state.useImmediateControlFlow = true
				return PlayerSolvingRune{}, false, true
			default:
				panic("engine: unknown player action")
			}
		},
		func() Player { return PlayerIdle{} },
	)
}

// millisToTicks converts a scripted millisecond budget to ticks at the
// nominal rate.
func millisToTicks(millis int64) uint32 {
	ticks := millis * constants.TicksPerSecond / 1000
	if ticks < 1 {
		ticks = 1
	}
	return uint32(ticks)
}
