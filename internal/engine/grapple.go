package engine

import (
	"github.com/veylen/mapletide/internal/constants"
)

const (
	grapplingTimeout = constants.MoveTimeout * 10
	// grapplingStoppingTicks lets the avatar detach and settle after the
	// rope before moving resumes.
	grapplingStoppingTicks = 3
)

// updateGrapplingContext rides the rope lift upward. Horizontal drift away
// from the entry column means the lift fired during a simultaneous jump and
// missed; the attempt is abandoned. Reaching or passing the destination row,
// or running out the budget, marks the grapple complete, and completion
// returns to Moving after a short settle (immediately while auto-mobbing).
func updateGrapplingContext(ctx *Context, state *PlayerState, p PlayerGrappling) Player {
	return advanceMovingTimeout(
		p.Moving, state.pos, grapplingTimeout, ChangeAxisVertical,
		func(m Moving) Player {
			_ = ctx.Keys.Send(state.Config.RopeLiftKey)
			state.lastMovement = lastMovementGrappling
			p.Moving = m
			return p
		},
		nil,
		func(m Moving) Player {
			if !m.Completed {
				if m.Pos.X != p.StartX {
					// Missed grab mid-jump; abandon and let Moving
					// re-evaluate the remaining distance.
					state.useImmediateControlFlow = true
					return PlayerMoving{Moving: m.resetTimeout()}
				}
				if m.Pos.Y >= m.Dest.Y {
					m = m.withCompleted()
				}
			}
			if m.Completed && (state.autoMobbing || m.Timeout.Current >= grapplingStoppingTicks) {
				state.useImmediateControlFlow = true
				return PlayerMoving{Moving: m.resetTimeout()}
			}
			p.Moving = m
			return p
		},
	)
}
