package engine

import (
	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/platform"
)

const unstuckTimeout = constants.MoveTimeout * 6

// updateUnstuckingContext escapes a stuck avatar: close any obstructing
// dialog, hold a direction away from the nearest edge and jump periodically,
// then release everything and re-acquire the minimap. Entry counts toward the
// consecutive escalation; at the gamba threshold position-informed choices
// are abandoned for randomized ones and the dialog query is skipped (worst
// case is assumed).
func updateUnstuckingContext(ctx *Context, state *PlayerState, p PlayerUnstucking) Player {
	return advanceTimeout(
		p.Timeout,
		unstuckTimeout,
		func(t Timeout) Player {
			state.unstuckCounter++
			state.unstuckConsecutiveCounter++
			gamba := state.unstuckConsecutiveCounter >= constants.UnstuckGambaThreshold
			log.Info().
				Uint32("consecutive", state.unstuckConsecutiveCounter).
				Bool("gamba", gamba).
				Msg("unstucking")

			if gamba || ctx.Detector.DetectEscMenuOpen() {
				_ = ctx.Keys.Send(platform.KeyEsc)
			}

			dir := unstuckDirection(ctx, state, gamba)
			_ = ctx.Keys.SendDown(dir)
			return PlayerUnstucking{Timeout: t, Gamba: gamba, Direction: dir}
		},
		func() Player {
			_ = ctx.Keys.SendUp(p.Direction)
			_ = ctx.Keys.SendUp(platform.KeyUp)
			_ = ctx.Keys.SendUp(platform.KeyDown)
			return PlayerDetecting{}
		},
		func(t Timeout) Player {
			if !unstuckNearBottom(ctx, state) && t.Current%constants.MoveTimeout == 0 {
				_ = ctx.Keys.Send(state.Config.JumpKey)
			}
			p.Timeout = t
			return p
		},
	)
}

// unstuckDirection picks the escape direction: toward the interior when the
// avatar sits near an edge, randomly in gamba mode or mid-map.
func unstuckDirection(ctx *Context, state *PlayerState, gamba bool) platform.Key {
	if !gamba && state.posKnown {
		if idle, ok := ctx.minimapIdle(); ok {
			switch {
			case state.pos.X <= constants.UnstuckXToRightThreshold:
				return platform.KeyRight
			case state.pos.X >= idle.BBox.W-constants.UnstuckXToRightThreshold:
				return platform.KeyLeft
			}
		}
	}
	if state.rng.Intn(2) == 0 {
		return platform.KeyLeft
	}
	return platform.KeyRight
}

// unstuckNearBottom reports whether the avatar is too close to the minimap
// bottom for the escape jump to be safe.
func unstuckNearBottom(ctx *Context, state *PlayerState) bool {
	if !state.posKnown {
		return false
	}
	return state.pos.Y <= constants.UnstuckYIgnoreThreshold
}
