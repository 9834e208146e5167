package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// Engine owns the tick loop: capture a frame, update the minimap, skill and
// buff estimates, advance the avatar, then rotate actions. Everything runs on
// the Run goroutine; external mutation goes through the ops channel and is
// applied between ticks.
type Engine struct {
	ctx     *Context
	state   *PlayerState
	player  Player
	rotator *Rotator

	minimapState MinimapState
	skillStates  [skillKindCount]SkillState
	buffStates   [buffKindCount]BuffState

	bus *EventBus
	ops chan func(*Engine)

	tickInterval time.Duration
}

// New assembles an engine around the given capabilities.
func New(keys platform.KeySender, detector detect.Detector, config CharacterConfig, bus *EventBus) *Engine {
	e := &Engine{
		ctx: &Context{
			Keys:     keys,
			Detector: detector,
			Minimap:  MinimapDetecting{},
		},
		state:        NewPlayerState(config),
		player:       PlayerDetecting{},
		bus:          bus,
		ops:          make(chan func(*Engine), 16),
		tickInterval: constants.TickInterval,
	}
	e.rotator = NewRotator(bus)

	for i := range e.skillStates {
		kind := detect.SkillKind(i)
		e.skillStates[i] = NewSkillState(kind)
		e.ctx.Skills[i] = SkillDetecting{Kind: kind}
	}
	for i := range e.buffStates {
		e.buffStates[i] = NewBuffState(detect.BuffKind(i))
		e.ctx.Buffs[i] = BuffAbsent{}
	}

	e.state.onActionCompleted = func(action PlayerAction, priority bool) {
		if e.bus != nil {
			e.bus.Publish(NewEvent(EventActionCompleted, ActionPayload{
				Action:   action.String(),
				Priority: priority,
			}))
		}
	}
	return e
}

// UpdateActions rebuilds the rotator from a fresh scripted list between
// ticks.
func (e *Engine) UpdateActions(actions []Action, config CharacterConfig, mode RotatorMode) {
	e.ops <- func(e *Engine) {
		e.state.Config = config
		e.state.abortAction()
		e.rotator.BuildActions(actions, config, mode)
	}
}

// SetHalting pauses or resumes the rotator without tearing down perception.
func (e *Engine) SetHalting(halting bool) {
	e.ops <- func(e *Engine) {
		if e.ctx.Halting == halting {
			return
		}
		e.ctx.Halting = halting
		if e.bus != nil {
			e.bus.Publish(NewEvent(EventHaltingChanged, halting))
		}
	}
}

// Run pulses the tick loop at the fixed rate until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	log.Info().
		Dur("tick_interval", e.tickInterval).
		Msg("engine started")
	if e.bus != nil {
		e.bus.Publish(NewEvent(EventEngineStarted, nil))
	}

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if e.bus != nil {
				e.bus.Publish(NewEvent(EventEngineStopped, nil))
			}
			log.Info().Msg("engine stopped")
			return ctx.Err()
		case op := <-e.ops:
			op(e)
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick is one capture → perceive → decide → act iteration. Update order is a
// hard guarantee: minimap before skills before buffs before the avatar before
// rotation, all over the same captured frame.
func (e *Engine) tick() {
	if err := e.ctx.Detector.Capture(); err != nil {
		log.Debug().Err(err).Msg("frame capture failed")
		return
	}

	prevMinimap := e.ctx.Minimap.Name()
	e.ctx.Minimap = foldContext(e.ctx.Minimap, func(m Minimap) (Minimap, controlFlow) {
		return updateMinimapContext(e.ctx, &e.minimapState, m)
	})
	if name := e.ctx.Minimap.Name(); name != prevMinimap && e.bus != nil {
		payload := MinimapPayload{State: name}
		if idle, ok := e.ctx.minimapIdle(); ok {
			payload.W = idle.BBox.W
			payload.H = idle.BBox.H
		}
		e.bus.Publish(NewEvent(EventMinimapChanged, payload))
	}

	for i := range e.skillStates {
		e.ctx.Skills[i] = foldContext(e.ctx.Skills[i], func(s Skill) (Skill, controlFlow) {
			return updateSkillContext(e.ctx, &e.skillStates[i], s)
		})
	}
	for i := range e.buffStates {
		e.ctx.Buffs[i] = foldContext(e.ctx.Buffs[i], func(b Buff) (Buff, controlFlow) {
			return updateBuffContext(e.ctx, &e.buffStates[i], b)
		})
	}

	prevPlayer := e.player.Name()
	e.player = foldContext(e.player, func(p Player) (Player, controlFlow) {
		return updatePlayerContext(e.ctx, e.state, p)
	})
	if name := e.player.Name(); name != prevPlayer && e.bus != nil {
		pos, _ := e.state.Pos()
		e.bus.Publish(NewEvent(EventPlayerStateChanged, PlayerStatePayload{
			State: name,
			X:     pos.X,
			Y:     pos.Y,
		}))
	}

	e.rotator.RotateAction(e.ctx, e.state)
}
