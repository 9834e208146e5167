package engine

import (
	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

const (
	fallingTimeout = constants.MoveTimeout * 2
	// fallingStopDownTick releases the down arrow early so a slow drop does
	// not keep it held for the whole budget.
	fallingStopDownTick = 3
)

// updateFallingContext drops through the current platform with down+jump.
// The entry position is the anchor; falling is done once the avatar sits
// below it.
func updateFallingContext(ctx *Context, state *PlayerState, p PlayerFalling) Player {
	return advanceMovingTimeout(
		p.Moving, state.pos, fallingTimeout, ChangeAxisVertical,
		func(m Moving) Player {
			_ = ctx.Keys.SendDown(platform.KeyDown)
			_ = ctx.Keys.Send(state.Config.JumpKey)
			state.lastMovement = lastMovementFalling
			p.Moving = m
			return p
		},
		func() {
			_ = ctx.Keys.SendUp(platform.KeyDown)
		},
		func(m Moving) Player {
			if m.Timeout.Total == fallingStopDownTick {
				_ = ctx.Keys.SendUp(platform.KeyDown)
			}
			if m.Pos.Y < p.Anchor.Y {
				_ = ctx.Keys.SendUp(platform.KeyDown)
				state.useImmediateControlFlow = true
				return PlayerMoving{Moving: m.resetTimeout()}
			}
			p.Moving = m
			return p
		},
	)
}
