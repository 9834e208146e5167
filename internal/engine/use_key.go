package engine

import (
	"github.com/veylen/mapletide/internal/platform"
)

// UseKeyStage sequences a scripted key press.
type UseKeyStage int

const (
	// useKeyPrecondition waits for stance and facing requirements.
	useKeyPrecondition UseKeyStage = iota
	// useKeyChangingDirection taps the avatar around to the required facing.
	useKeyChangingDirection
	// useKeyUsing delivers the presses and any link key.
	useKeyUsing
)

// UseKey is the payload of PlayerUseKey.
type UseKey struct {
	Action       ActionKey
	Stage        UseKeyStage
	CurrentCount int
	LinkSent     bool
}

func newUseKey(action ActionKey) UseKey {
	return UseKey{Action: action, Stage: useKeyPrecondition}
}

// updateUseKeyContext stages a key action: precondition (stance, facing,
// optional pre-wait), direction change, then the presses themselves with
// before/same/after link key ordering and an optional post-wait.
func updateUseKeyContext(ctx *Context, state *PlayerState, p PlayerUseKey) Player {
	u := p.UseKey
	action := u.Action

	switch u.Stage {
	case useKeyPrecondition:
		if action.With == ActionKeyWithStationary && !state.isStationary {
			return p
		}
		if action.With == ActionKeyWithDoubleJump {
			state.useImmediateControlFlow = true
			return PlayerDoubleJumping{
				Moving:            Moving{Pos: state.pos, Dest: state.pos},
				Forced:            true,
				RequireStationary: true,
			}
		}
		if action.Direction != DirectionAny && state.lastDirection != action.Direction {
			state.useImmediateControlFlow = true
			u.Stage = useKeyChangingDirection
			return PlayerUseKey{UseKey: u}
		}
		u.Stage = useKeyUsing
		if action.WaitBeforeMillis > 0 {
			state.stallingTimeoutState = PlayerUseKey{UseKey: u}
			return stallFor(action.WaitBeforeMillis)
		}
		state.useImmediateControlFlow = true
		return PlayerUseKey{UseKey: u}

	case useKeyChangingDirection:
		key := platform.KeyRight
		if action.Direction == DirectionLeft {
			key = platform.KeyLeft
		}
		_ = ctx.Keys.Send(key)
		state.lastDirection = action.Direction
		u.Stage = useKeyUsing
		if action.WaitBeforeMillis > 0 {
			state.stallingTimeoutState = PlayerUseKey{UseKey: u}
			return stallFor(action.WaitBeforeMillis)
		}
		return PlayerUseKey{UseKey: u}

	case useKeyUsing:
		if u.CurrentCount < action.useCount() {
			if action.Link != nil && action.Link.Kind == LinkKeyBefore && !u.LinkSent {
				_ = ctx.Keys.Send(action.Link.Key)
				u.LinkSent = true
				return PlayerUseKey{UseKey: u}
			}
			if action.Link != nil && action.Link.Kind == LinkKeyAtTheSame {
				_ = ctx.Keys.Send(action.Link.Key)
			}
			_ = ctx.Keys.Send(action.Key)
			u.CurrentCount++
			if u.CurrentCount < action.useCount() {
				return PlayerUseKey{UseKey: u}
			}
		}
		if action.Link != nil && action.Link.Kind == LinkKeyAfter && !u.LinkSent {
			_ = ctx.Keys.Send(action.Link.Key)
			u.LinkSent = true
			return PlayerUseKey{UseKey: u}
		}

		return onActionStateMut(
			state,
			func(state *PlayerState, _ PlayerAction, _ bool) (Player, bool, bool) {
				if action.WaitAfterMillis > 0 {
					// The stall's own expiry marks the action done.
					return stallFor(action.WaitAfterMillis), false, true
				}
				return PlayerIdle{}, true, true
			},
			func() Player {
				if action.WaitAfterMillis > 0 {
					return stallFor(action.WaitAfterMillis)
				}
				return PlayerIdle{}
			},
		)

	default:
		panic("engine: unknown use key stage")
	}
}
