package engine

import (
	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
)

// buffKindCount sizes the per-kind state arrays in Context.
const buffKindCount = 6

// Buff is one tracked status effect's estimate.
type Buff interface {
	buffState()
}

// BuffAbsent means the status icon was not seen on the last check.
type BuffAbsent struct{}

// BuffPresent means the status icon was seen on the last check.
type BuffPresent struct{}

func (BuffAbsent) buffState()  {}
func (BuffPresent) buffState() {}

// BuffState is the machine's persistent memory: which kind it tracks and a
// modulo interval counter so detection only runs every few seconds.
type BuffState struct {
	kind     detect.BuffKind
	interval uint32
}

func NewBuffState(kind detect.BuffKind) BuffState {
	return BuffState{kind: kind}
}

func updateBuffContext(ctx *Context, state *BuffState, buff Buff) (Buff, controlFlow) {
	return updateBuff(ctx.Detector, state, buff), controlFlowNext
}

func updateBuff(detector detect.Detector, state *BuffState, buff Buff) Buff {
	next := buff
	if state.interval%constants.BuffCheckEveryTicks == 0 {
		if detector.DetectBuff(state.kind) {
			next = BuffPresent{}
		} else {
			next = BuffAbsent{}
		}
	}
	state.interval = (state.interval + 1) % constants.BuffCheckEveryTicks
	return next
}
