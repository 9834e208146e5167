package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
)

// skillKindCount sizes the per-kind state arrays in Context.
const skillKindCount = 1

const skillDetectRearmMillis = 1000

// Skill is one tracked ability's estimate. Skills do not relocate, so there
// is no revalidation once idle.
type Skill interface {
	skillState()
}

// SkillDetecting looks for the ability icon on screen.
type SkillDetecting struct {
	Kind detect.SkillKind
}

// SkillIdle caches the located icon box for cooldown checks.
type SkillIdle struct {
	Kind detect.SkillKind
	BBox Rect
}

func (SkillDetecting) skillState() {}
func (SkillIdle) skillState()      {}

// SkillState is the machine's persistent memory.
type SkillState struct {
	kind detect.SkillKind
	task *Task[Rect]
}

func NewSkillState(kind detect.SkillKind) SkillState {
	return SkillState{kind: kind}
}

func updateSkillContext(ctx *Context, state *SkillState, skill Skill) (Skill, controlFlow) {
	switch s := skill.(type) {
	case SkillDetecting:
		snapshot := ctx.Detector.Snapshot()
		poll := updateTaskRepeatable(
			skillDetectRearmMillis*time.Millisecond,
			&state.task,
			func() (Rect, error) {
				return snapshot.DetectSkill(state.kind, constants.SkillDetectConfidence)
			},
		)
		if poll.State != TaskComplete {
			return s, controlFlowNext
		}
		log.Info().Str("skill", state.kind.String()).Msg("skill located")
		return SkillIdle{Kind: s.Kind, BBox: poll.Value}, controlFlowNext
	case SkillIdle:
		return s, controlFlowNext
	default:
		panic("engine: unknown skill state")
	}
}

// erdaShowerOffCooldown reports whether the tracked Erda Shower is currently
// usable, defaulting to false until it has been located.
func erdaShowerOffCooldown(ctx *Context) bool {
	idle, ok := ctx.Skills[detect.SkillErdaShower].(SkillIdle)
	if !ok {
		return false
	}
	return ctx.Detector.DetectErdaShowerOffCooldown(idle.BBox)
}
