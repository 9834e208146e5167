package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// SolvingRune is the payload of PlayerSolvingRune.
type SolvingRune struct {
	Timeout     Timeout
	Keys        [4]platform.Key
	HasKeys     bool
	KeyIndex    int
	Calibrating detect.ArrowsCalibrating
}

// updateSolvingRuneContext interacts with an active rune: interact key on
// entry, then arrow detection through the task bridge (re-armed on a minimum
// delay) once the rune UI has settled, then one key every press interval. A
// rune that cannot be read before the outer budget expires is assumed to be
// spinning and counts as a failure; a fully keyed rune arms the validation
// window instead.
func updateSolvingRuneContext(ctx *Context, state *PlayerState, p PlayerSolvingRune) Player {
	if state.runeValidateTimeout != nil {
		panic("engine: solving rune while validation pending")
	}
	if state.runeCashShop {
		panic("engine: solving rune while cash shop armed")
	}

	solving := p.SolvingRune
	withTimeout := func(t Timeout) Player {
		next := solving
		next.Timeout = t
		return PlayerSolvingRune{SolvingRune: next}
	}

	next := advanceTimeout(
		solving.Timeout,
		constants.SolvingRuneTimeout,
		func(t Timeout) Player {
			_ = ctx.Keys.Send(state.Config.InteractKey)
			return withTimeout(t)
		},
		func() Player {
			// Likely a spinning rune the detector cannot read.
			return PlayerIdle{}
		},
		func(t Timeout) Player {
			if t.Total <= constants.SolvingRuneSolveStartTick {
				return withTimeout(t)
			}
			if !solving.HasKeys {
				if next, ok := calibrateRuneArrows(ctx, state, t, solving); ok {
					return next
				}
				return withTimeout(t)
			}
			if t.Current%constants.SolvingRunePressKeyInterval != 0 {
				return withTimeout(t)
			}
			if solving.KeyIndex >= len(solving.Keys) {
				panic("engine: rune key index out of range")
			}
			_ = ctx.Keys.Send(solving.Keys[solving.KeyIndex])
			if solving.KeyIndex+1 >= len(solving.Keys) {
				return PlayerIdle{}
			}
			advanced := solving
			advanced.Timeout = t
			advanced.KeyIndex++
			return PlayerSolvingRune{SolvingRune: advanced}
		},
	)

	return onActionStateMut(
		state,
		func(state *PlayerState, action PlayerAction, _ bool) (Player, bool, bool) {
			if _, ok := action.(PlayerActionSolveRune); !ok {
				panic("engine: solving rune with non-rune action")
			}
			_, terminal := next.(PlayerIdle)
			if terminal {
				if solving.HasKeys {
					state.runeValidateTimeout = &Timeout{}
					log.Info().Msg("rune keys sent, validating")
				} else {
					state.updateRuneFailCount()
					log.Warn().
						Uint32("failed_count", state.runeFailedCount).
						Msg("rune solve failed")
				}
			}
			return next, terminal, true
		},
		func() Player { return next },
	)
}

// calibrateRuneArrows advances arrow detection one attempt. Spinning arrows
// are detected synchronously on the tick thread to avoid frame skew; the
// steady case goes through the task bridge.
func calibrateRuneArrows(ctx *Context, state *PlayerState, t Timeout, solving SolvingRune) (Player, bool) {
	var arrows detect.ArrowsState
	if solving.Calibrating.HasSpinArrows() {
		var err error
		arrows, err = ctx.Detector.DetectRuneArrows(solving.Calibrating)
		if err != nil {
			return nil, false
		}
	} else {
		snapshot := ctx.Detector.Snapshot()
		calibrating := solving.Calibrating
		poll := updateTaskRepeatable(
			constants.RuneDetectRearmMillis*time.Millisecond,
			&state.runeTask,
			func() (detect.ArrowsState, error) {
				return snapshot.DetectRuneArrows(calibrating)
			},
		)
		if poll.State != TaskComplete {
			return nil, false
		}
		arrows = poll.Value
	}

	next := solving
	next.Timeout = t
	if arrows.Complete {
		next.HasKeys = true
		next.Keys = arrows.Keys
		next.KeyIndex = 0
		// Restart the press cadence; starting at 1 avoids an immediate
		// press on this same tick.
		next.Timeout.Current = 1
	} else {
		next.Calibrating = arrows.Calibrating
	}
	return PlayerSolvingRune{SolvingRune: next}, true
}
