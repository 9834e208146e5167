package engine

import (
	"github.com/veylen/mapletide/internal/constants"
)

const jumpingTimeout = constants.MoveTimeout * 2

// updateJumpingContext closes a small upward gap with a single jump pressed
// on entry. Vertical progress past the destination hands control back to
// Moving; stagnation falls back through the movement timeout.
func updateJumpingContext(ctx *Context, state *PlayerState, p PlayerJumping) Player {
	return advanceMovingTimeout(
		p.Moving, state.pos, jumpingTimeout, ChangeAxisVertical,
		func(m Moving) Player {
			_ = ctx.Keys.Send(state.Config.JumpKey)
			p.Moving = m
			return p
		},
		nil,
		func(m Moving) Player {
			if m.Pos.Y >= m.Dest.Y {
				state.useImmediateControlFlow = true
				return PlayerMoving{Moving: m.resetTimeout()}
			}
			p.Moving = m
			return p
		},
	)
}
