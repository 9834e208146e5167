package engine

import (
	"testing"
	"time"

	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

func setupRotatorTest(t *testing.T) (*Rotator, *Context, *PlayerState) {
	t.Helper()
	return NewRotator(nil), &Context{}, NewPlayerState(DefaultCharacterConfig())
}

// moveList builds n distinct scripted sweep actions.
func moveList(n int) []Action {
	actions := make([]Action, n)
	for i := range actions {
		actions[i] = ActionMove{X: i, Cond: ActionCondition{Kind: ConditionAny}}
	}
	return actions
}

// sweepSequence rotates count times with an always-empty normal slot and
// returns the X of each handed-out move.
func sweepSequence(t *testing.T, r *Rotator, ctx *Context, state *PlayerState, count int) []int {
	t.Helper()
	var seq []int
	for i := 0; i < count; i++ {
		r.RotateAction(ctx, state)
		move, ok := state.normalAction.(PlayerActionMove)
		if !ok {
			t.Fatalf("rotation %d: expected a move in the normal slot, got %T", i, state.normalAction)
		}
		seq = append(seq, move.Action.X)
		state.normalAction = nil
	}
	return seq
}

func TestSweepStartToEnd(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions(moveList(3), state.Config, RotatorStartToEnd)

	got := sweepSequence(t, r, ctx, state, 8)
	want := []int{0, 1, 2, 0, 1, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSweepBounce(t *testing.T) {
	cases := []struct {
		n    int
		want []int
	}{
		{1, []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		{2, []int{0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0, 0, 1, 1, 0}},
		{5, []int{0, 1, 2, 3, 4, 4, 3, 2, 1, 0, 0, 1, 2, 3, 4, 4, 3, 2, 1, 0}},
	}

	for _, tc := range cases {
		r, ctx, state := setupRotatorTest(t)
		r.BuildActions(moveList(tc.n), state.Config, RotatorStartToEndThenReverse)

		got := sweepSequence(t, r, ctx, state, len(tc.want))
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("n=%d: expected %v, got %v", tc.n, tc.want, got)
			}
		}
	}
}

func TestHaltingPausesRotation(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions(moveList(2), state.Config, RotatorStartToEnd)

	ctx.Halting = true
	r.RotateAction(ctx, state)
	if state.HasNormalAction() || state.HasPriorityAction() {
		t.Error("expected no actions handed out while halting")
	}

	ctx.Halting = false
	r.RotateAction(ctx, state)
	if !state.HasNormalAction() {
		t.Error("expected rotation to resume after halting clears")
	}
}

// rotateCountingQueued rotates once and reports how many priority actions the
// rotator produced on that tick (enqueued plus popped into the slot).
func rotateCountingQueued(r *Rotator, ctx *Context, state *PlayerState) int {
	before := len(r.queue)
	hadPriority := state.HasPriorityAction()
	r.RotateAction(ctx, state)
	popped := 0
	if !hadPriority && state.HasPriorityAction() {
		popped = 1
	}
	return len(r.queue) + popped - before
}

func TestEveryMillisGate(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions([]Action{
		ActionKey{Key: platform.KeyA, Cond: ActionCondition{Kind: ConditionEveryMillis, Millis: 1000}},
	}, state.Config, RotatorStartToEnd)

	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	// Never queued before, so the first rotation is eligible immediately
	if got := rotateCountingQueued(r, ctx, state); got != 1 {
		t.Fatalf("expected initial queue, got %d", got)
	}
	state.priorityAction = nil

	queued := 0
	for _, advance := range []time.Duration{1200, 300, 1200} {
		now = now.Add(advance * time.Millisecond)
		queued += rotateCountingQueued(r, ctx, state)
		state.priorityAction = nil
	}
	if queued != 2 {
		t.Fatalf("expected exactly 2 queue events across 1200/300/1200ms, got %d", queued)
	}
}

func TestPriorityTakesPrecedence(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions([]Action{
		ActionMove{X: 10, Cond: ActionCondition{Kind: ConditionAny}},
		ActionKey{Key: platform.KeyA, Cond: ActionCondition{Kind: ConditionEveryMillis, Millis: 1000}},
	}, state.Config, RotatorStartToEnd)

	// First rotation queues the priority action; second pops it into the slot
	r.RotateAction(ctx, state)
	r.RotateAction(ctx, state)

	if !state.HasPriorityAction() || !state.HasNormalAction() {
		t.Fatal("expected both slots occupied")
	}
	action, priority, ok := state.heldAction()
	if !ok || !priority {
		t.Fatal("expected the priority action to be the held one")
	}
	if _, isKey := action.(PlayerActionKey); !isKey {
		t.Errorf("expected the scripted key, got %T", action)
	}
}

func TestRuneQueuedAheadOfScripted(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions([]Action{
		ActionKey{
			Key:          platform.KeyA,
			QueueToFront: true,
			Cond:         ActionCondition{Kind: ConditionEveryMillis, Millis: 1000},
		},
	}, state.Config, RotatorStartToEnd)

	runePos := Point{X: 30, Y: 40}
	ctx.Minimap = MinimapIdle{Rune: &runePos}

	r.RotateAction(ctx, state)

	// Both the rune and the front-queued key were produced this tick; the
	// rune stays ahead
	if len(r.queue) != 2 {
		t.Fatalf("expected 2 queued actions, got %d", len(r.queue))
	}
	solve, ok := r.queue[0].(PlayerActionSolveRune)
	if !ok {
		t.Fatalf("expected rune solve at the queue front, got %T", r.queue[0])
	}
	if solve.Pos != runePos {
		t.Errorf("expected rune position %+v, got %+v", runePos, solve.Pos)
	}
	if _, ok := r.queue[1].(PlayerActionKey); !ok {
		t.Errorf("expected the scripted key behind the rune, got %T", r.queue[1])
	}
}

func TestRuneNotRequeuedWhilePending(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions(nil, state.Config, RotatorStartToEnd)

	runePos := Point{X: 30, Y: 40}
	ctx.Minimap = MinimapIdle{Rune: &runePos}

	r.RotateAction(ctx, state)
	if len(r.queue) != 1 {
		t.Fatalf("expected rune queued once, got %d", len(r.queue))
	}

	// The solve pops into the priority slot; while it is pending the marker
	// being still visible must not queue another
	r.RotateAction(ctx, state)
	if !state.HasRunePending() {
		t.Fatal("expected pending rune solve")
	}
	if len(r.queue) != 0 {
		t.Fatalf("expected empty queue, got %d", len(r.queue))
	}
	r.RotateAction(ctx, state)
	if len(r.queue) != 0 {
		t.Error("expected no rune re-queue while one is pending")
	}
}

func TestRuneSuppressedByBuffAndCashShop(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions(nil, state.Config, RotatorStartToEnd)

	runePos := Point{X: 30, Y: 40}
	ctx.Minimap = MinimapIdle{Rune: &runePos}

	ctx.Buffs[detect.BuffRune] = BuffPresent{}
	r.RotateAction(ctx, state)
	if len(r.queue) != 0 {
		t.Error("expected no rune queue while the rune buff is up")
	}

	ctx.Buffs[detect.BuffRune] = BuffAbsent{}
	state.runeCashShop = true
	r.RotateAction(ctx, state)
	if len(r.queue) != 0 {
		t.Error("expected no rune queue while the cash shop trip is armed")
	}
}

func TestLinkedChainFollowsAnchor(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions([]Action{
		ActionKey{Key: platform.KeyA, Cond: ActionCondition{Kind: ConditionEveryMillis, Millis: 1000}},
		ActionKey{Key: platform.KeyB, Cond: ActionCondition{Kind: ConditionLinked}},
		ActionKey{Key: platform.KeyC, Cond: ActionCondition{Kind: ConditionLinked}},
	}, state.Config, RotatorStartToEnd)

	r.RotateAction(ctx, state)

	if len(r.queue) != 3 {
		t.Fatalf("expected the anchor plus 2 linked actions, got %d", len(r.queue))
	}
	want := []platform.Key{platform.KeyA, platform.KeyB, platform.KeyC}
	for i, key := range want {
		action, ok := r.queue[i].(PlayerActionKey)
		if !ok || action.Action.Key != key {
			t.Fatalf("position %d: expected key %v, got %+v", i, key, r.queue[i])
		}
	}
}

func TestLeadingLinkedJoinsSweep(t *testing.T) {
	r, _, state := setupRotatorTest(t)
	r.BuildActions([]Action{
		ActionKey{Key: platform.KeyB, Cond: ActionCondition{Kind: ConditionLinked}},
		ActionMove{X: 10, Cond: ActionCondition{Kind: ConditionAny}},
	}, state.Config, RotatorStartToEnd)

	if len(r.normal) != 2 {
		t.Fatalf("expected the orphaned linked action in the sweep, got %d normals", len(r.normal))
	}
	if len(r.priority) != 0 {
		t.Fatalf("expected no priority entries, got %d", len(r.priority))
	}
}

func TestBuiltInBuffGatedByPresence(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	state.Config.BuffKeys[detect.BuffSayramElixir] = platform.Key9
	r.BuildActions(nil, state.Config, RotatorStartToEnd)

	if len(r.priority) != 1 {
		t.Fatalf("expected 1 built-in buff entry, got %d", len(r.priority))
	}

	ctx.Buffs[detect.BuffSayramElixir] = BuffPresent{}
	r.RotateAction(ctx, state)
	if len(r.queue) != 0 {
		t.Error("expected no queue while the buff is present")
	}

	ctx.Buffs[detect.BuffSayramElixir] = BuffAbsent{}
	r.RotateAction(ctx, state)
	if len(r.queue) != 1 {
		t.Fatalf("expected the buff key queued once absent, got %d", len(r.queue))
	}
	action, ok := r.queue[0].(PlayerActionKey)
	if !ok || action.Action.Key != platform.Key9 {
		t.Errorf("expected the bound buff key, got %+v", r.queue[0])
	}
}

func TestPotionEntryBuilt(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	state.Config.PotionKey = platform.KeyDelete
	r.BuildActions(nil, state.Config, RotatorStartToEnd)

	if len(r.priority) != 1 {
		t.Fatalf("expected the potion entry, got %d", len(r.priority))
	}
	r.RotateAction(ctx, state)
	if len(r.queue) != 1 {
		t.Fatalf("expected the potion queued, got %d", len(r.queue))
	}
}

func TestAutoMobTargetsInsideBound(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	state.Config.AutoMobBound = Rect{X: 10, Y: 20, W: 50, H: 30}
	r.BuildActions(nil, state.Config, RotatorAutoMobbing)

	for i := 0; i < 20; i++ {
		r.RotateAction(ctx, state)
		mob, ok := state.normalAction.(PlayerActionAutoMob)
		if !ok {
			t.Fatalf("expected an auto mob target, got %T", state.normalAction)
		}
		bound := state.Config.AutoMobBound
		if mob.Pos.X < bound.X || mob.Pos.X >= bound.X+bound.W {
			t.Fatalf("target x=%d outside bound", mob.Pos.X)
		}
		if mob.Pos.Y < bound.Y || mob.Pos.Y >= bound.Y+bound.H {
			t.Fatalf("target y=%d outside bound", mob.Pos.Y)
		}
		state.normalAction = nil
	}
	if !state.autoMobbing {
		t.Error("expected auto-mobbing flagged on the avatar state")
	}
}

func TestAutoMobPrefersSolidifiedRow(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	state.Config.AutoMobBound = Rect{X: 0, Y: 0, W: 100, H: 100}
	y := 42
	state.autoMobReachableY = &y
	r.BuildActions(nil, state.Config, RotatorAutoMobbing)

	for i := 0; i < 5; i++ {
		r.RotateAction(ctx, state)
		mob := state.normalAction.(PlayerActionAutoMob)
		if mob.Pos.Y != 42 {
			t.Fatalf("expected solidified row 42, got %d", mob.Pos.Y)
		}
		state.normalAction = nil
	}
}

func TestBuildActionsResetsSweep(t *testing.T) {
	r, ctx, state := setupRotatorTest(t)
	r.BuildActions(moveList(3), state.Config, RotatorStartToEnd)
	_ = sweepSequence(t, r, ctx, state, 2)

	r.BuildActions(moveList(3), state.Config, RotatorStartToEnd)
	got := sweepSequence(t, r, ctx, state, 1)
	if got[0] != 0 {
		t.Errorf("expected rebuild to restart the sweep at 0, got %d", got[0])
	}
}
