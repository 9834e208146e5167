package main

import (
	"fmt"

	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/engine"
	"github.com/veylen/mapletide/internal/platform"
	"github.com/veylen/mapletide/internal/store"
)

// rotatorModeFromStore maps a persisted rotation mode onto the engine's.
func rotatorModeFromStore(mode string) (engine.RotatorMode, error) {
	switch mode {
	case store.RotationStartToEnd, "":
		return engine.RotatorStartToEnd, nil
	case store.RotationStartToEndThenReverse:
		return engine.RotatorStartToEndThenReverse, nil
	case store.RotationAutoMobbing:
		return engine.RotatorAutoMobbing, nil
	default:
		return engine.RotatorStartToEnd, fmt.Errorf("unknown rotation mode %q", mode)
	}
}

// actionsFromStore converts the persisted scripted list into engine actions,
// preserving order.
func actionsFromStore(data store.MapData) ([]engine.Action, error) {
	actions := make([]engine.Action, 0, len(data.Actions))
	for i, rec := range data.Actions {
		action, err := actionFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func actionFromRecord(rec store.ActionRecord) (engine.Action, error) {
	cond, err := conditionFromRecord(rec)
	if err != nil {
		return nil, err
	}

	switch rec.Kind {
	case store.ActionKindMove:
		return engine.ActionMove{
			X:               rec.X,
			Y:               rec.Y,
			AllowAdjusting:  rec.AllowAdjusting,
			Cond:            cond,
			WaitAfterMillis: rec.WaitAfterMillis,
		}, nil

	case store.ActionKindKey:
		key := platform.ParseKey(rec.Key)
		if key == platform.KeyNone {
			return nil, fmt.Errorf("unknown key %q", rec.Key)
		}

		action := engine.ActionKey{
			Key:              key,
			Count:            rec.Count,
			HasPos:           rec.HasPosition,
			X:                rec.X,
			Y:                rec.Y,
			AllowAdjusting:   rec.AllowAdjusting,
			Cond:             cond,
			WaitBeforeMillis: rec.WaitBeforeMillis,
			WaitAfterMillis:  rec.WaitAfterMillis,
			QueueToFront:     rec.QueueToFront,
		}

		switch rec.Direction {
		case "", "any":
			action.Direction = engine.DirectionAny
		case "left":
			action.Direction = engine.DirectionLeft
		case "right":
			action.Direction = engine.DirectionRight
		default:
			return nil, fmt.Errorf("unknown direction %q", rec.Direction)
		}

		switch rec.With {
		case "", "any":
			action.With = engine.ActionKeyWithAny
		case "stationary":
			action.With = engine.ActionKeyWithStationary
		case "double_jump":
			action.With = engine.ActionKeyWithDoubleJump
		default:
			return nil, fmt.Errorf("unknown stance %q", rec.With)
		}

		if rec.LinkKey != "" {
			linkKey := platform.ParseKey(rec.LinkKey)
			if linkKey == platform.KeyNone {
				return nil, fmt.Errorf("unknown link key %q", rec.LinkKey)
			}
			link := &engine.LinkKey{Key: linkKey}
			switch rec.LinkKeyKind {
			case store.LinkKeyBefore, "":
				link.Kind = engine.LinkKeyBefore
			case store.LinkKeyAtTheSame:
				link.Kind = engine.LinkKeyAtTheSame
			case store.LinkKeyAfter:
				link.Kind = engine.LinkKeyAfter
			default:
				return nil, fmt.Errorf("unknown link key kind %q", rec.LinkKeyKind)
			}
			action.Link = link
		}

		return action, nil

	default:
		return nil, fmt.Errorf("unknown action kind %q", rec.Kind)
	}
}

func conditionFromRecord(rec store.ActionRecord) (engine.ActionCondition, error) {
	switch rec.Condition {
	case store.ConditionAny, "":
		return engine.ActionCondition{Kind: engine.ConditionAny}, nil
	case store.ConditionEveryMillis:
		return engine.ActionCondition{Kind: engine.ConditionEveryMillis, Millis: rec.ConditionMillis}, nil
	case store.ConditionErdaShowerOffCooldown:
		return engine.ActionCondition{Kind: engine.ConditionErdaShowerOffCooldown}, nil
	case store.ConditionLinked:
		return engine.ActionCondition{Kind: engine.ConditionLinked}, nil
	default:
		return engine.ActionCondition{}, fmt.Errorf("unknown condition %q", rec.Condition)
	}
}

// characterFromStore merges persisted bindings with the map's auto mob bound
// into the engine's character config. Unknown key names fall back to unbound
// rather than failing the load; a routine with a bad potion binding should
// still run.
func characterFromStore(data store.CharacterData, mapData store.MapData) engine.CharacterConfig {
	config := engine.DefaultCharacterConfig()

	if key := platform.ParseKey(data.InteractKey); key != platform.KeyNone {
		config.InteractKey = key
	}
	if key := platform.ParseKey(data.JumpKey); key != platform.KeyNone {
		config.JumpKey = key
	}
	config.RopeLiftKey = platform.ParseKey(data.RopeLiftKey)
	config.UpJumpKey = platform.ParseKey(data.UpJumpKey)
	config.CashShopKey = platform.ParseKey(data.CashShopKey)
	config.PotionKey = platform.ParseKey(data.PotionKey)
	config.DisableAdjusting = data.DisableAdjusting

	for name, keyName := range data.BuffKeys {
		kind, ok := detect.ParseBuffKind(name)
		if !ok {
			continue
		}
		if key := platform.ParseKey(keyName); key != platform.KeyNone {
			config.BuffKeys[kind] = key
		}
	}

	config.AutoMobBound = engine.Rect{
		X: mapData.AutoMobBound.X,
		Y: mapData.AutoMobBound.Y,
		W: mapData.AutoMobBound.W,
		H: mapData.AutoMobBound.H,
	}

	return config
}
