package engine

import (
	"github.com/veylen/mapletide/internal/detect"
	"github.com/veylen/mapletide/internal/platform"
)

// CharacterConfig is the per-character key binding and feature set the engine
// operates with. It is loaded from persistence at startup and treated as
// read-only for the lifetime of a run.
type CharacterConfig struct {
	// InteractKey talks to runes and other world objects.
	InteractKey platform.Key
	// JumpKey is also the base of double jumps, up jumps and down jumps.
	JumpKey     platform.Key
	RopeLiftKey platform.Key
	// UpJumpKey, when bound, replaces the jump+up combination.
	UpJumpKey   platform.Key
	CashShopKey platform.Key

	// PotionKey, when bound, is pressed on a fixed interval through the
	// priority path.
	PotionKey platform.Key

	// BuffKeys maps each trackable buff to the key that refreshes it. Only
	// buffs present here are rotated.
	BuffKeys map[detect.BuffKind]platform.Key

	// AutoMobBound restricts generated mob targets, in minimap coordinates.
	AutoMobBound Rect

	DisableAdjusting bool
}

// DefaultCharacterConfig returns bindings matching a fresh installation.
func DefaultCharacterConfig() CharacterConfig {
	return CharacterConfig{
		InteractKey: platform.KeySpace,
		JumpKey:     platform.KeyAlt,
		RopeLiftKey: platform.KeyNone,
		UpJumpKey:   platform.KeyNone,
		CashShopKey: platform.KeyNone,
		PotionKey:   platform.KeyNone,
		BuffKeys:    map[detect.BuffKind]platform.Key{},
	}
}

// hasRopeLift reports whether grappling is available at all.
func (c CharacterConfig) hasRopeLift() bool {
	return c.RopeLiftKey != platform.KeyNone
}
