package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// RotatorMode selects how the normal action list is swept.
type RotatorMode int

const (
	// RotatorStartToEnd wraps from the last action straight back to the
	// first.
	RotatorStartToEnd RotatorMode = iota
	// RotatorStartToEndThenReverse bounces: 0..N-1 then N-1..0, endpoints
	// revisited on the turn.
	RotatorStartToEndThenReverse
	// RotatorAutoMobbing ignores the scripted normal list and generates
	// mob targets inside the configured bound.
	RotatorAutoMobbing
)

// priorityEntry is one scripted or built-in priority action with its
// re-queue bookkeeping.
type priorityEntry struct {
	action Action
	linked []Action
	// buffKind, when set, additionally gates on the buff being absent.
	buffKind   *detect.BuffKind
	lastQueued time.Time
}

// Rotator multiplexes the scripted normal sweep against condition-gated
// priority actions, feeding the avatar exactly one action per empty slot.
// A single long-lived instance exists per run and is rebuilt wholesale when
// the scripted set changes.
type Rotator struct {
	mode     RotatorMode
	normal   []Action
	priority []*priorityEntry
	queue    []PlayerAction

	idx   int
	dir   int
	first bool

	runeLastQueued time.Time

	// now is the clock; swappable in tests.
	now func() time.Time

	bus *EventBus
}

// NewRotator builds an empty rotator.
func NewRotator(bus *EventBus) *Rotator {
	return &Rotator{
		dir:   1,
		first: true,
		now:   time.Now,
		bus:   bus,
	}
}

// BuildActions partitions a flat scripted list into the normal sweep and the
// priority set, appends the built-in priority actions derived from the
// character config, and resets all sweep and queue state. Linked-condition
// actions chain onto the nearest preceding priority action.
func (r *Rotator) BuildActions(actions []Action, config CharacterConfig, mode RotatorMode) {
	r.mode = mode
	r.normal = nil
	r.priority = nil
	r.queue = nil
	r.idx = 0
	r.dir = 1
	r.first = true
	r.runeLastQueued = time.Time{}

	for _, action := range actions {
		switch action.Condition().Kind {
		case ConditionAny:
			r.normal = append(r.normal, action)
		case ConditionLinked:
			if n := len(r.priority); n > 0 {
				r.priority[n-1].linked = append(r.priority[n-1].linked, action)
			} else {
				// A leading linked action has nothing to chain onto;
				// treat it as part of the sweep.
				r.normal = append(r.normal, action)
			}
		default:
			r.priority = append(r.priority, &priorityEntry{action: action})
		}
	}

	for kind, key := range config.BuffKeys {
		if key == platform.KeyNone {
			continue
		}
		k := kind
		r.priority = append(r.priority, &priorityEntry{
			action: ActionKey{
				Key:  key,
				Cond: ActionCondition{Kind: ConditionEveryMillis, Millis: constants.PriorityActionCooldownMillis},
			},
			buffKind: &k,
		})
	}
	if config.PotionKey != platform.KeyNone {
		r.priority = append(r.priority, &priorityEntry{
			action: ActionKey{
				Key:  config.PotionKey,
				Cond: ActionCondition{Kind: ConditionEveryMillis, Millis: constants.PotionCooldownMillis},
			},
		})
	}

	log.Info().
		Int("normal", len(r.normal)).
		Int("priority", len(r.priority)).
		Int("mode", int(mode)).
		Msg("actions rebuilt")
	if r.bus != nil {
		r.bus.Publish(NewEvent(EventActionsRebuilt, nil))
	}
}

// RotateAction runs once per tick, after the avatar update:
//  1. drain the priority queue into the avatar's priority slot (never over
//     an occupied one)
//  2. queue an externally observed rune ahead of this tick's scripted
//     priority actions
//  3. evaluate every scripted priority gate, stamping and enqueueing the
//     eligible ones
//  4. refill the avatar's normal slot from the sweep
func (r *Rotator) RotateAction(ctx *Context, state *PlayerState) {
	state.autoMobbing = r.mode == RotatorAutoMobbing
	if ctx.Halting {
		return
	}

	if !state.HasPriorityAction() && len(r.queue) > 0 {
		action := r.queue[0]
		r.queue = r.queue[1:]
		state.SetPriorityAction(action)
		r.publishQueued(action, true)
	}

	runeInserted := r.rotateRune(ctx, state)

	for _, entry := range r.priority {
		if !r.priorityEligible(ctx, entry) {
			continue
		}
		entry.lastQueued = r.now()
		r.enqueue(entry, runeInserted)
	}

	if !state.HasNormalAction() {
		if action, ok := r.nextNormal(state); ok {
			state.SetNormalAction(action)
			r.publishQueued(action, false)
		}
	}
}

// rotateRune queues a solve for an externally observed rune. Reported true
// only on the tick the rune is first queued so scripted front-of-queue
// inserts stay behind it.
func (r *Rotator) rotateRune(ctx *Context, state *PlayerState) bool {
	idle, ok := ctx.minimapIdle()
	if !ok || idle.Rune == nil {
		return false
	}
	if ctx.hasBuff(detect.BuffRune) || state.HasRunePending() || state.runeCashShop {
		return false
	}
	now := r.now()
	if !r.runeLastQueued.IsZero() &&
		now.Sub(r.runeLastQueued) < constants.PriorityActionCooldownMillis*time.Millisecond {
		return false
	}
	for _, queued := range r.queue {
		if _, ok := queued.(PlayerActionSolveRune); ok {
			return false
		}
	}
	r.runeLastQueued = now
	r.queue = append([]PlayerAction{PlayerActionSolveRune{Pos: *idle.Rune}}, r.queue...)
	log.Info().Int("x", idle.Rune.X).Int("y", idle.Rune.Y).Msg("rune queued")
	return true
}

func (r *Rotator) priorityEligible(ctx *Context, entry *priorityEntry) bool {
	if entry.buffKind != nil {
		if ctx.hasBuff(*entry.buffKind) {
			return false
		}
	}
	cond := entry.action.Condition()
	switch cond.Kind {
	case ConditionEveryMillis:
		if entry.lastQueued.IsZero() {
			return true
		}
		return r.now().Sub(entry.lastQueued) >= time.Duration(cond.Millis)*time.Millisecond
	case ConditionErdaShowerOffCooldown:
		if !entry.lastQueued.IsZero() &&
			r.now().Sub(entry.lastQueued) < constants.PriorityActionCooldownMillis*time.Millisecond {
			return false
		}
		return erdaShowerOffCooldown(ctx)
	default:
		panic("engine: unexpected priority condition")
	}
}

// enqueue appends the entry and its linked chain, honoring queue-to-front
// (behind a rune queued this same tick).
func (r *Rotator) enqueue(entry *priorityEntry, runeInserted bool) {
	actions := make([]PlayerAction, 0, 1+len(entry.linked))
	actions = append(actions, toPlayerAction(entry.action))
	for _, linked := range entry.linked {
		actions = append(actions, toPlayerAction(linked))
	}

	front := false
	if key, ok := entry.action.(ActionKey); ok && key.QueueToFront {
		front = true
	}
	if !front {
		r.queue = append(r.queue, actions...)
		return
	}
	at := 0
	if runeInserted {
		at = 1
	}
	rest := append(actions, r.queue[at:]...)
	r.queue = append(r.queue[:at:at], rest...)
}

// nextNormal advances the sweep cursor and returns the action at it.
func (r *Rotator) nextNormal(state *PlayerState) (PlayerAction, bool) {
	if r.mode == RotatorAutoMobbing {
		return PlayerActionAutoMob{Pos: r.autoMobTarget(state)}, true
	}
	n := len(r.normal)
	if n == 0 {
		return nil, false
	}
	if r.first {
		r.first = false
		r.idx = 0
		return toPlayerAction(r.normal[0]), true
	}
	switch r.mode {
	case RotatorStartToEnd:
		r.idx = (r.idx + 1) % n
	case RotatorStartToEndThenReverse:
		next := r.idx + r.dir
		if next < 0 || next >= n {
			// Bounce: revisit the endpoint, then walk back.
			r.dir = -r.dir
		} else {
			r.idx = next
		}
	}
	return toPlayerAction(r.normal[r.idx]), true
}

// autoMobTarget generates a position inside the configured bound, preferring
// a solidified reachable row.
func (r *Rotator) autoMobTarget(state *PlayerState) Point {
	bound := state.Config.AutoMobBound
	x := bound.X
	if bound.W > 0 {
		x += state.rng.Intn(bound.W)
	}
	y := bound.Y
	if state.autoMobReachableY != nil {
		y = *state.autoMobReachableY
	} else if bound.H > 0 {
		y += state.rng.Intn(bound.H)
	}
	return Point{X: x, Y: y}
}

func toPlayerAction(action Action) PlayerAction {
	switch a := action.(type) {
	case ActionMove:
		return PlayerActionMove{Action: a}
	case ActionKey:
		return PlayerActionKey{Action: a}
	default:
		panic("engine: unknown scripted action")
	}
}

func (r *Rotator) publishQueued(action PlayerAction, priority bool) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(NewEvent(EventActionQueued, ActionPayload{
		Action:   action.String(),
		Priority: priority,
	}))
}
