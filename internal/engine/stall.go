package engine

import (
	"github.com/rs/zerolog/log"
)

// autoMobReachableYSolidifyCount is how many settles at the same row it takes
// before that row counts as reliably reachable.
const autoMobReachableYSolidifyCount = 4

// updateStallingContext waits out Max ticks, then resumes the caller-provided
// fallback state (set only by UseKey) or Idle. Idle is the terminal outcome
// for a held action. While auto-mobbing, a terminal stall additionally
// solidifies the settled row as reachable, re-entering the stall until the
// avatar has stopped moving so the sample is trustworthy.
func updateStallingContext(state *PlayerState, p PlayerStalling) Player {
	update := func(t Timeout) Player {
		return PlayerStalling{Timeout: t, Max: p.Max}
	}
	next := advanceTimeout(
		p.Timeout,
		p.Max,
		update,
		func() Player {
			if state.stallingTimeoutState != nil {
				resume := state.stallingTimeoutState
				state.stallingTimeoutState = nil
				return resume
			}
			return PlayerIdle{}
		},
		update,
	)

	return onActionStateMut(
		state,
		func(state *PlayerState, action PlayerAction, _ bool) (Player, bool, bool) {
			_, terminal := next.(PlayerIdle)
			if _, ok := action.(PlayerActionAutoMob); ok && terminal && state.autoMobReachableYRequireUpdate() {
				if !state.isStationary {
					return PlayerStalling{Max: p.Max}, false, true
				}
				state.solidifyAutoMobReachableY()
			}
			return next, terminal, true
		},
		func() Player { return next },
	)
}

// autoMobReachableYRequireUpdate reports whether the settled row still needs
// solidifying samples.
func (s *PlayerState) autoMobReachableYRequireUpdate() bool {
	if !s.posKnown {
		return false
	}
	count, ok := s.autoMobReachableYMap[s.pos.Y]
	return !ok || count < autoMobReachableYSolidifyCount
}

// solidifyAutoMobReachableY books the current row as a reachable landing row,
// decaying a previously tracked row that no longer matches.
func (s *PlayerState) solidifyAutoMobReachableY() {
	if !s.posKnown {
		return
	}
	if s.autoMobReachableY != nil && *s.autoMobReachableY != s.pos.Y {
		y := *s.autoMobReachableY
		if count, ok := s.autoMobReachableYMap[y]; ok {
			if count <= 1 {
				delete(s.autoMobReachableYMap, y)
				s.autoMobReachableY = nil
			} else {
				s.autoMobReachableYMap[y] = count - 1
			}
		}
	}
	count := s.autoMobReachableYMap[s.pos.Y]
	if count < autoMobReachableYSolidifyCount {
		count++
		s.autoMobReachableYMap[s.pos.Y] = count
	}
	y := s.pos.Y
	s.autoMobReachableY = &y
	log.Debug().
		Int("y", y).
		Uint32("count", count).
		Msg("auto mob reachable y")
}

// stallFor builds a stalling state with a tick budget derived from a scripted
// millisecond wait.
func stallFor(millis int64) PlayerStalling {
	return PlayerStalling{Max: millisToTicks(millis)}
}
