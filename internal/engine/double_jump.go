package engine

import (
	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

// doubleJumpTimeout budgets the airborne phase before falling back to plain
// moving.
const doubleJumpTimeout = constants.MoveTimeout

// updateDoubleJumpingContext covers a large horizontal gap: hold the
// direction, press jump once on entry, release once the remaining gap drops
// under the threshold (or immediately for forced jumps once airborne).
func updateDoubleJumpingContext(ctx *Context, state *PlayerState, p PlayerDoubleJumping) Player {
	if p.RequireStationary && !state.isStationary && !p.Moving.Timeout.Started {
		return p
	}

	return advanceMovingTimeout(
		p.Moving, state.pos, doubleJumpTimeout, ChangeAxisHorizontal,
		func(m Moving) Player {
			dx, _ := m.distances()
			_ = ctx.Keys.SendDown(directionKey(dx))
			_ = ctx.Keys.Send(state.Config.JumpKey)
			state.lastDirection = directionOf(dx)
			state.lastMovement = lastMovementDoubleJumping
			p.Moving = m
			return p
		},
		func() {
			// The held direction is unknown at expiry; drop both arrows.
			_ = ctx.Keys.SendUp(platform.KeyLeft)
			_ = ctx.Keys.SendUp(platform.KeyRight)
		},
		func(m Moving) Player {
			dx, _ := m.distances()
			done := abs(dx) < state.doubleJumpThreshold()
			if p.Forced {
				// Forced jumps serve a key action, not a destination.
				done = m.Timeout.Total >= 2
			}
			if !done {
				p.Moving = m
				return p
			}
			_ = ctx.Keys.SendUp(directionKey(dx))

			return onActionStateMut(
				state,
				func(state *PlayerState, action PlayerAction, _ bool) (Player, bool, bool) {
					key, ok := action.(PlayerActionKey)
					if !ok || !p.Forced {
						return nil, false, false
					}
					// A double-jump key action fires its key at the
					// apex instead of resuming movement.
					state.useImmediateControlFlow = true
					use := newUseKey(key.Action)
					use.Stage = useKeyUsing
					return PlayerUseKey{UseKey: use}, false, true
				},
				func() Player {
					state.useImmediateControlFlow = true
					return PlayerMoving{Moving: m.resetTimeout()}
				},
			)
		},
	)
}
