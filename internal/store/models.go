package store

import "time"

// Map is one saved map: its scripted action presets, platforms and rotation
// settings, serialized as a single JSON document.
type Map struct {
	ID        string
	Name      string
	Data      MapData
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MapData is the JSON payload of a map row.
type MapData struct {
	RotationMode string           `json:"rotation_mode"`
	Actions      []ActionRecord   `json:"actions"`
	Platforms    []PlatformRecord `json:"platforms,omitempty"`
	AutoMobBound BoundRecord      `json:"auto_mob_bound,omitempty"`
}

// Rotation mode values stored in MapData.
const (
	RotationStartToEnd            = "start_to_end"
	RotationStartToEndThenReverse = "start_to_end_then_reverse"
	RotationAutoMobbing           = "auto_mobbing"
)

// Action kind values stored in ActionRecord.
const (
	ActionKindMove = "move"
	ActionKindKey  = "key"
)

// Condition values stored in ActionRecord.
const (
	ConditionAny                   = "any"
	ConditionEveryMillis           = "every_millis"
	ConditionErdaShowerOffCooldown = "erda_shower_off_cooldown"
	ConditionLinked                = "linked"
)

// Link key ordering values stored in ActionRecord.
const (
	LinkKeyBefore    = "before"
	LinkKeyAtTheSame = "at_the_same"
	LinkKeyAfter     = "after"
)

// ActionRecord is one scripted step as persisted. Key names use the
// platform package's canonical spelling.
type ActionRecord struct {
	Kind string `json:"kind"`

	X              int  `json:"x,omitempty"`
	Y              int  `json:"y,omitempty"`
	HasPosition    bool `json:"has_position,omitempty"`
	AllowAdjusting bool `json:"allow_adjusting,omitempty"`

	Key       string `json:"key,omitempty"`
	Count     int    `json:"count,omitempty"`
	Direction string `json:"direction,omitempty"`
	With      string `json:"with,omitempty"`

	LinkKey     string `json:"link_key,omitempty"`
	LinkKeyKind string `json:"link_key_kind,omitempty"`

	Condition       string `json:"condition"`
	ConditionMillis int64  `json:"condition_millis,omitempty"`

	WaitBeforeMillis int64 `json:"wait_before_millis,omitempty"`
	WaitAfterMillis  int64 `json:"wait_after_millis,omitempty"`
	QueueToFront     bool  `json:"queue_to_front,omitempty"`
}

// PlatformRecord is one walkable platform in minimap coordinates, kept for
// route planning tools.
type PlatformRecord struct {
	XStart int `json:"x_start"`
	XEnd   int `json:"x_end"`
	Y      int `json:"y"`
}

// BoundRecord is a rectangle in minimap coordinates.
type BoundRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Character is one saved key binding and feature set, serialized as a single
// JSON document.
type Character struct {
	ID        string
	Name      string
	Data      CharacterData
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CharacterData is the JSON payload of a character row.
type CharacterData struct {
	InteractKey string `json:"interact_key"`
	JumpKey     string `json:"jump_key"`
	RopeLiftKey string `json:"rope_lift_key,omitempty"`
	UpJumpKey   string `json:"up_jump_key,omitempty"`
	CashShopKey string `json:"cash_shop_key,omitempty"`
	PotionKey   string `json:"potion_key,omitempty"`

	// BuffKeys maps buff kind names to key names.
	BuffKeys map[string]string `json:"buff_keys,omitempty"`

	DisableAdjusting bool `json:"disable_adjusting,omitempty"`
}
