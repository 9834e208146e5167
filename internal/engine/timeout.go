package engine

// Timeout counts ticks for a single logical run of a timed state. Current is
// the tick count since the last reset, Total the count since the run started,
// Started whether the first tick has fired. The zero value is an unstarted
// timeout.
type Timeout struct {
	Current uint32
	Total   uint32
	Started bool
}

// advanceTimeout drives one tick of a timed state. Exactly one of the three
// callbacks runs:
//   - onFirst when the timeout has not started yet, with Started flipped true
//     and the counters untouched
//   - onExpired when Current has reached max
//   - onTick otherwise, with Current and Total incremented
//
// The primitive itself is side effect free; callers send keys inside the
// callbacks.
func advanceTimeout[T any](
	timeout Timeout,
	max uint32,
	onFirst func(Timeout) T,
	onExpired func() T,
	onTick func(Timeout) T,
) T {
	if max == 0 {
		panic("engine: timeout max must be positive")
	}
	if !timeout.Started && (timeout.Current != 0 || timeout.Total != 0) {
		panic("engine: unstarted timeout must be zero")
	}
	if timeout.Current > max {
		panic("engine: timeout current exceeds max")
	}

	switch {
	case !timeout.Started:
		timeout.Started = true
		return onFirst(timeout)
	case timeout.Current >= max:
		return onExpired()
	default:
		timeout.Current++
		timeout.Total++
		return onTick(timeout)
	}
}

// ChangeAxis selects which coordinate resets a movement timeout when it
// changes tick over tick.
type ChangeAxis int

const (
	ChangeAxisHorizontal ChangeAxis = iota
	ChangeAxisVertical
	ChangeAxisBoth
)

// advanceMovingTimeout wraps advanceTimeout for movement states: progress
// along the tracked axis resets Current so a state in transit never times out,
// and genuine expiry collapses back to plain moving toward the original
// destination instead of the specific movement variant. A run that has already
// reached its budget expires even if the position moved on the same tick.
// onExpired runs right before the fallback; states that hold a key down
// release it there (nil when nothing is held).
func advanceMovingTimeout(
	moving Moving,
	cur Point,
	max uint32,
	axis ChangeAxis,
	onFirst func(Moving) Player,
	onExpired func(),
	onTick func(Moving) Player,
) Player {
	if moving.Timeout.Started && moving.Timeout.Current < max {
		changed := false
		switch axis {
		case ChangeAxisHorizontal:
			changed = cur.X != moving.Pos.X
		case ChangeAxisVertical:
			changed = cur.Y != moving.Pos.Y
		case ChangeAxisBoth:
			changed = cur != moving.Pos
		}
		if changed {
			moving.Timeout.Current = 0
		}
	}

	return advanceTimeout(
		moving.Timeout,
		max,
		func(t Timeout) Player {
			return onFirst(moving.withPos(cur).withTimeout(t))
		},
		func() Player {
			if onExpired != nil {
				onExpired()
			}
			return PlayerMoving{Moving: Moving{
				Pos:           cur,
				Dest:          moving.Dest,
				Exact:         moving.Exact,
				Intermediates: moving.Intermediates,
			}}
		},
		func(t Timeout) Player {
			return onTick(moving.withPos(cur).withTimeout(t))
		},
	)
}
