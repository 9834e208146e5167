// Package engine implements the avatar behavior engine: a fixed-rate control
// loop that folds per-tick state machines (minimap, skills, buffs, avatar)
// over a shared context and feeds the avatar scripted actions through a
// rotator. All state machines are pure transition functions over tagged
// variants; the only concurrency is the task bridge in task.go.
package engine

import (
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// Point and Rect mirror the perception package's pixel geometry. Avatar
// positions are minimap-relative with the origin at the bottom-left.
type (
	Point = detect.Point
	Rect  = detect.Rect
)

// controlFlow tells the fold loop whether the machine wants another update
// within the same tick.
type controlFlow int

const (
	controlFlowImmediate controlFlow = iota
	controlFlowNext
)

// foldImmediateCap bounds same-tick re-dispatches. Transition chains are short
// by construction; hitting the cap is a programming defect.
const foldImmediateCap = 16

// foldContext repeatedly applies update until it yields controlFlowNext,
// letting multi-step transitions (e.g. moving into a jump) collapse into a
// single tick.
func foldContext[T any](current T, update func(T) (T, controlFlow)) T {
	for i := 0; ; i++ {
		if i >= foldImmediateCap {
			panic("engine: immediate control flow did not settle")
		}
		next, flow := update(current)
		current = next
		if flow == controlFlowNext {
			return current
		}
	}
}

// Context is the read-only snapshot every state machine sees during a tick.
// The tick driver owns it and rewrites the estimate fields between machine
// updates, so later machines in the tick order observe the earlier ones'
// fresh results.
type Context struct {
	Keys     platform.KeySender
	Detector detect.Detector

	// Minimap, Skills and Buffs are the current contextual estimates,
	// updated in that order before the avatar runs.
	Minimap Minimap
	Skills  [skillKindCount]Skill
	Buffs   [buffKindCount]Buff

	// Halting pauses the rotator without tearing down perception.
	Halting bool
}

// minimapIdle returns the settled minimap estimate, if any.
func (c *Context) minimapIdle() (MinimapIdle, bool) {
	idle, ok := c.Minimap.(MinimapIdle)
	return idle, ok
}

// hasBuff reports the current estimate for one buff kind.
func (c *Context) hasBuff(kind detect.BuffKind) bool {
	_, ok := c.Buffs[kind].(BuffPresent)
	return ok
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
