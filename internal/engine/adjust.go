package engine

import (
	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

// directionKey maps a horizontal delta to the arrow key that closes it.
func directionKey(dx int) platform.Key {
	if dx < 0 {
		return platform.KeyLeft
	}
	return platform.KeyRight
}

// directionOf maps a horizontal delta to the facing it produces.
func directionOf(dx int) ActionKeyDirection {
	if dx < 0 {
		return DirectionLeft
	}
	return DirectionRight
}

// updateAdjustingContext closes the last few horizontal pixels with arrow
// taps: full taps while the gap is over the medium budget, single-tick taps
// in exact mode. Completion hands control back to Moving for the vertical
// phase.
func updateAdjustingContext(ctx *Context, state *PlayerState, p PlayerAdjusting) Player {
	return advanceMovingTimeout(
		p.Moving, state.pos, constants.MoveTimeout, ChangeAxisHorizontal,
		func(m Moving) Player { return adjustTick(ctx, state, m) },
		nil,
		func(m Moving) Player { return adjustTick(ctx, state, m) },
	)
}

func adjustTick(ctx *Context, state *PlayerState, m Moving) Player {
	dx, _ := m.distances()
	done := dx == 0
	if !m.Exact && abs(dx) <= adjustingThreshold {
		done = true
	}
	if done {
		// Horizontal closure only; Moving re-evaluates the vertical axis.
		state.useImmediateControlFlow = true
		return PlayerMoving{Moving: m.resetTimeout()}
	}

	key := directionKey(dx)
	if m.Exact && abs(dx) <= adjustingThreshold {
		// Short taps: press on a sparse cadence so each nudge lands
		// before the next.
		if m.Timeout.Total%(constants.AdjustingShortTimeout+1) == 0 {
			_ = ctx.Keys.Send(key)
		}
	} else {
		if m.Timeout.Total%(constants.AdjustingMediumTimeout+1) == 0 {
			_ = ctx.Keys.Send(key)
		}
	}
	state.lastDirection = directionOf(dx)
	return PlayerAdjusting{Moving: m}
}
