package engine

import (
	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

const upJumpTimeout = constants.MoveTimeout * 2

// updateUpJumpingContext closes a medium upward gap. With a dedicated up jump
// key bound it is pressed once on entry; otherwise the up arrow is held and
// jump pressed twice across the first ticks.
func updateUpJumpingContext(ctx *Context, state *PlayerState, p PlayerUpJumping) Player {
	return advanceMovingTimeout(
		p.Moving, state.pos, upJumpTimeout, ChangeAxisVertical,
		func(m Moving) Player {
			if state.Config.UpJumpKey != platform.KeyNone {
				_ = ctx.Keys.Send(state.Config.UpJumpKey)
			} else {
				_ = ctx.Keys.SendDown(platform.KeyUp)
				_ = ctx.Keys.Send(state.Config.JumpKey)
			}
			state.lastMovement = lastMovementUpJumping
			p.Moving = m
			return p
		},
		func() {
			if state.Config.UpJumpKey == platform.KeyNone {
				_ = ctx.Keys.SendUp(platform.KeyUp)
			}
		},
		func(m Moving) Player {
			if state.Config.UpJumpKey == platform.KeyNone && m.Timeout.Total == 1 {
				// Second jump completes the combo.
				_ = ctx.Keys.Send(state.Config.JumpKey)
			}
			if m.Pos.Y >= m.Dest.Y {
				if state.Config.UpJumpKey == platform.KeyNone {
					_ = ctx.Keys.SendUp(platform.KeyUp)
				}
				state.useImmediateControlFlow = true
				return PlayerMoving{Moving: m.resetTimeout()}
			}
			p.Moving = m
			return p
		},
	)
}
