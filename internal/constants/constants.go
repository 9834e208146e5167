package constants

import "time"

// TicksPerSecond is the nominal control loop rate. Every tick budget below is
// expressed at this rate and must be recalibrated if it changes.
const TicksPerSecond = 30

// TickInterval is the wall-clock duration of one tick at the nominal rate.
const TickInterval = time.Second / TicksPerSecond

// MoveTimeout is the tick budget a movement state may spend without progress
// along its tracked axis before falling back to plain moving.
const MoveTimeout = 5

// DoubleJumpThreshold is the minimum horizontal distance (px) to the
// destination before a double jump is worth performing.
const DoubleJumpThreshold = 25

// DoubleJumpAutoMobThreshold relaxes DoubleJumpThreshold while auto-mobbing,
// where targets are closer together.
const DoubleJumpAutoMobThreshold = 15

// AdjustingShortTimeout and AdjustingMediumTimeout budget the fine horizontal
// adjustment taps near a destination.
const (
	AdjustingShortTimeout  = 1
	AdjustingMediumTimeout = 3
)

// GrapplingThreshold is the minimum upward distance (px) for the rope lift to
// be preferred over jumping.
const GrapplingThreshold = 26

// GrapplingMaxThreshold is the upward distance (px) beyond which the rope lift
// cannot reach and moving must find an intermediate platform instead.
const GrapplingMaxThreshold = 41

// JumpThreshold is the maximum upward distance (px) closable by a plain jump.
const JumpThreshold = 7

// UpJumpThreshold is the minimum upward distance (px) for an up jump.
const UpJumpThreshold = 10

// FallingThreshold is the minimum downward distance (px) before dropping
// through a platform is attempted.
const FallingThreshold = 4

// UnstuckTrackerThreshold is the number of consecutive failed positioning
// attempts before the unstuck recovery state is entered.
const UnstuckTrackerThreshold = 7

// UnstuckGambaThreshold is the consecutive unstuck-entry count at which the
// recovery abandons position-informed choices for randomized ones.
const UnstuckGambaThreshold = 3

// MaxRuneFailedCount is the rune solve failure limit before the cash shop
// round trip is armed as a recovery path.
const MaxRuneFailedCount = 2

// RuneValidateTimeout is the tick window after sending rune keys during which
// the rune buff must appear for the solve to count as a success.
const RuneValidateTimeout = 375

// SolvingRuneTimeout is the outer tick budget of the rune solving state.
// A rune that cannot be read before it expires is assumed to be spinning.
const SolvingRuneTimeout = 185

// SolvingRuneSolveStartTick delays key detection until the rune UI has fully
// appeared after the interact key.
const SolvingRuneSolveStartTick = 30

// SolvingRunePressKeyInterval spaces the four arrow key presses apart.
const SolvingRunePressKeyInterval = 8

// RuneDetectRearmMillis is the minimum delay between rune detection attempts.
const RuneDetectRearmMillis = 500

// CashShopEnteredTimeout is how long to sit inside the cash shop before
// exiting, around 10 seconds.
const CashShopEnteredTimeout = 305

// CashShopStallingTimeout is the settle period after leaving the cash shop,
// around 3 seconds.
const CashShopStallingTimeout = 90

// BuffCheckEveryTicks is the buff re-detection interval, around 7 seconds.
const BuffCheckEveryTicks = 215

// MinimapChangingTimeout is the tick budget the minimap machine tolerates a
// mismatched anchor pixel (e.g. a transient UI drag) before re-detecting.
const MinimapChangingTimeout = 90

// MinimapAnchorWhitenessThreshold is the minimum channel value for a pixel to
// count as a minimap border anchor.
const MinimapAnchorWhitenessThreshold = 170

// SkillDetectConfidence is the match confidence cutoff for locating a skill
// icon on screen.
const SkillDetectConfidence = 0.52

// PriorityActionCooldownMillis is the minimum delay between re-queues of the
// built-in priority actions (buffs, rune solving).
const PriorityActionCooldownMillis = 20000

// PotionCooldownMillis is the minimum delay between potion presses.
const PotionCooldownMillis = 2000

// UnstuckYIgnoreThreshold is the distance (px) from the minimap bottom below
// which the unstuck jump is skipped.
const UnstuckYIgnoreThreshold = 18

// UnstuckXToRightThreshold is the distance (px) from the minimap left edge
// under which the unstuck direction is forced right.
const UnstuckXToRightThreshold = 10

// MinEventBusBufferSize is the minimum buffer per subscriber channel.
const MinEventBusBufferSize = 1000
