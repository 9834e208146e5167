package engine

import "testing"

// advanceTicks drives advanceTimeout n times, returning the final timeout and
// which callbacks fired.
func advanceTicks(t *testing.T, timeout Timeout, max uint32, n int) (Timeout, int, int, int) {
	t.Helper()
	firsts, expires, ticks := 0, 0, 0
	for i := 0; i < n; i++ {
		timeout = advanceTimeout(
			timeout, max,
			func(next Timeout) Timeout { firsts++; return next },
			func() Timeout { expires++; return timeout },
			func(next Timeout) Timeout { ticks++; return next },
		)
	}
	return timeout, firsts, expires, ticks
}

func TestTimeoutLifecycle(t *testing.T) {
	// First call only starts the run; counters stay untouched
	timeout, firsts, expires, ticks := advanceTicks(t, Timeout{}, 5, 1)
	if firsts != 1 || expires != 0 || ticks != 0 {
		t.Fatalf("expected only onFirst, got firsts=%d expires=%d ticks=%d", firsts, expires, ticks)
	}
	if !timeout.Started || timeout.Current != 0 || timeout.Total != 0 {
		t.Fatalf("expected started zero-count timeout, got %+v", timeout)
	}

	// The next five calls tick up to max
	timeout, _, expires, ticks = advanceTicks(t, timeout, 5, 5)
	if ticks != 5 || expires != 0 {
		t.Fatalf("expected 5 plain ticks, got ticks=%d expires=%d", ticks, expires)
	}
	if timeout.Current != 5 || timeout.Total != 5 {
		t.Fatalf("expected counters at 5, got %+v", timeout)
	}

	// At max every further call expires and counters freeze
	timeout, _, expires, ticks = advanceTicks(t, timeout, 5, 3)
	if expires != 3 || ticks != 0 {
		t.Fatalf("expected 3 expirations, got expires=%d ticks=%d", expires, ticks)
	}
	if timeout.Current != 5 || timeout.Total != 5 {
		t.Fatalf("expected counters frozen at max, got %+v", timeout)
	}
}

func TestTimeoutCountersMonotonic(t *testing.T) {
	timeout := Timeout{}
	prevTotal := uint32(0)
	for i := 0; i < 20; i++ {
		timeout = advanceTimeout(
			timeout, 8,
			func(next Timeout) Timeout { return next },
			func() Timeout { return timeout },
			func(next Timeout) Timeout { return next },
		)
		if timeout.Total < prevTotal {
			t.Fatalf("total decreased: %d -> %d", prevTotal, timeout.Total)
		}
		if timeout.Current > 8 {
			t.Fatalf("current exceeded max: %+v", timeout)
		}
		prevTotal = timeout.Total
	}
}

func TestTimeoutPanics(t *testing.T) {
	expectPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		f()
	}

	expectPanic("zero max", func() {
		advanceTimeout(Timeout{}, 0,
			func(next Timeout) Timeout { return next },
			func() Timeout { return Timeout{} },
			func(next Timeout) Timeout { return next })
	})
	expectPanic("non-zero unstarted", func() {
		advanceTimeout(Timeout{Current: 1}, 5,
			func(next Timeout) Timeout { return next },
			func() Timeout { return Timeout{} },
			func(next Timeout) Timeout { return next })
	})
	expectPanic("current past max", func() {
		advanceTimeout(Timeout{Started: true, Current: 6, Total: 6}, 5,
			func(next Timeout) Timeout { return next },
			func() Timeout { return Timeout{} },
			func(next Timeout) Timeout { return next })
	})
}

// movingTick drives advanceMovingTimeout one step with identity callbacks,
// returning the updated payload (or the fallback state on expiry).
func movingTick(moving Moving, cur Point, max uint32, axis ChangeAxis) Player {
	keep := func(m Moving) Player { return PlayerMoving{Moving: m} }
	return advanceMovingTimeout(moving, cur, max, axis, keep, nil, keep)
}

func TestMovingTimeoutAxisReset(t *testing.T) {
	cases := []struct {
		name  string
		axis  ChangeAxis
		pos   Point
		reset bool
	}{
		{"horizontal resets on x", ChangeAxisHorizontal, Point{X: 11, Y: 20}, true},
		{"horizontal ignores y", ChangeAxisHorizontal, Point{X: 10, Y: 21}, false},
		{"vertical resets on y", ChangeAxisVertical, Point{X: 10, Y: 21}, true},
		{"vertical ignores x", ChangeAxisVertical, Point{X: 11, Y: 20}, false},
		{"both resets on x", ChangeAxisBoth, Point{X: 11, Y: 20}, true},
		{"both resets on y", ChangeAxisBoth, Point{X: 10, Y: 21}, true},
		{"both holds when still", ChangeAxisBoth, Point{X: 10, Y: 20}, false},
	}

	for _, tc := range cases {
		moving := Moving{
			Pos:     Point{X: 10, Y: 20},
			Dest:    Point{X: 100, Y: 20},
			Timeout: Timeout{Started: true, Current: 3, Total: 3},
		}
		next := movingTick(moving, tc.pos, 10, tc.axis)
		p, ok := next.(PlayerMoving)
		if !ok {
			t.Fatalf("%s: expected PlayerMoving, got %T", tc.name, next)
		}
		wantCurrent := uint32(4)
		if tc.reset {
			wantCurrent = 1
		}
		if p.Moving.Timeout.Current != wantCurrent {
			t.Errorf("%s: expected current=%d, got %d", tc.name, wantCurrent, p.Moving.Timeout.Current)
		}
		// Total always advances regardless of resets
		if p.Moving.Timeout.Total != 4 {
			t.Errorf("%s: expected total=4, got %d", tc.name, p.Moving.Timeout.Total)
		}
	}
}

func TestMovingTimeoutExpiryRunsRelease(t *testing.T) {
	moving := Moving{
		Pos:     Point{X: 10, Y: 20},
		Dest:    Point{X: 100, Y: 20},
		Timeout: Timeout{Started: true, Current: 10, Total: 10},
	}

	released := false
	keep := func(m Moving) Player { return PlayerMoving{Moving: m} }
	next := advanceMovingTimeout(
		moving, moving.Pos, 10, ChangeAxisBoth,
		keep,
		func() { released = true },
		keep,
	)
	if _, ok := next.(PlayerMoving); !ok {
		t.Fatalf("expected fallback PlayerMoving, got %T", next)
	}
	if !released {
		t.Error("expected the release hook to run on expiry")
	}
}

func TestMovingTimeoutResetCannotCancelExpiry(t *testing.T) {
	// The run is already at its budget; movement on the tracked axis this
	// same tick must not revive it.
	moving := Moving{
		Pos:     Point{X: 10, Y: 20},
		Dest:    Point{X: 100, Y: 20},
		Timeout: Timeout{Started: true, Current: 10, Total: 12},
	}

	next := movingTick(moving, Point{X: 11, Y: 20}, 10, ChangeAxisHorizontal)
	p, ok := next.(PlayerMoving)
	if !ok {
		t.Fatalf("expected fallback PlayerMoving, got %T", next)
	}
	if p.Moving.Timeout != (Timeout{}) {
		t.Errorf("expected a fresh fallback timeout, got %+v", p.Moving.Timeout)
	}
}

func TestMovingTimeoutExpiryFallsBackToMoving(t *testing.T) {
	intermediates := NewIntermediates([]Waypoint{{Dest: Point{X: 80, Y: 20}}})
	moving := Moving{
		Pos:           Point{X: 10, Y: 20},
		Dest:          Point{X: 100, Y: 20},
		Exact:         true,
		Intermediates: intermediates,
		Timeout:       Timeout{Started: true, Current: 10, Total: 30},
	}

	// Same position, so no reset: the run expires
	next := movingTick(moving, moving.Pos, 10, ChangeAxisBoth)
	p, ok := next.(PlayerMoving)
	if !ok {
		t.Fatalf("expected fallback PlayerMoving, got %T", next)
	}
	if p.Moving.Dest != moving.Dest || !p.Moving.Exact {
		t.Errorf("expected destination preserved, got %+v", p.Moving)
	}
	if p.Moving.Intermediates != intermediates {
		t.Error("expected intermediates carried into the fallback")
	}
	if p.Moving.Timeout != (Timeout{}) {
		t.Errorf("expected fresh timeout in fallback, got %+v", p.Moving.Timeout)
	}
	if p.Moving.Completed {
		t.Error("expected fallback to re-evaluate, not be completed")
	}
}
