// Package detect declares the perception capability the engine consumes. The
// actual detection math (template matching, OCR, frame capture) is an external
// collaborator; every method here means "is this currently visible and where",
// and a returned error always means "not found right now", never a fatal
// condition.
package detect

import (
	"errors"

	"github.com/veylen/mapletide/internal/platform"
)

// ErrNotFound is the conventional failure for every detection routine.
var ErrNotFound = errors.New("detect: not found")

// Point is a pixel coordinate. The origin is the top-left of the frame for
// raw detection and the bottom-left of the minimap for avatar positions.
type Point struct {
	X int
	Y int
}

// Rect is a pixel-space bounding box.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Center returns the midpoint of the box.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Pixel is an RGB sample used for cheap anchor revalidation.
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

// SkillKind selects which ability icon a detection routine looks for.
type SkillKind int

const (
	SkillErdaShower SkillKind = iota
)

func (k SkillKind) String() string {
	switch k {
	case SkillErdaShower:
		return "erda_shower"
	default:
		return "unknown"
	}
}

// BuffKind selects which status icon a detection routine looks for.
type BuffKind int

const (
	BuffRune BuffKind = iota
	BuffSayramElixir
	BuffExpCouponX3
	BuffBonusExpCoupon
	BuffLegionWealth
	BuffLegionLuck
)

func (k BuffKind) String() string {
	switch k {
	case BuffRune:
		return "rune"
	case BuffSayramElixir:
		return "sayram_elixir"
	case BuffExpCouponX3:
		return "exp_coupon_x3"
	case BuffBonusExpCoupon:
		return "bonus_exp_coupon"
	case BuffLegionWealth:
		return "legion_wealth"
	case BuffLegionLuck:
		return "legion_luck"
	default:
		return "unknown"
	}
}

// ParseBuffKind resolves a persisted buff name. ok is false for names no
// detection routine exists for.
func ParseBuffKind(name string) (BuffKind, bool) {
	switch name {
	case "rune":
		return BuffRune, true
	case "sayram_elixir":
		return BuffSayramElixir, true
	case "exp_coupon_x3":
		return BuffExpCouponX3, true
	case "bonus_exp_coupon":
		return BuffBonusExpCoupon, true
	case "legion_wealth":
		return BuffLegionWealth, true
	case "legion_luck":
		return BuffLegionLuck, true
	default:
		return BuffRune, false
	}
}

// ArrowsCalibrating carries detector-internal progress between rune arrow
// detection attempts. The engine treats it as opaque and only asks whether
// spin arrows were seen, which forces same-thread detection to avoid frame
// skips.
type ArrowsCalibrating struct {
	spinArrows bool
	samples    int
}

// HasSpinArrows reports whether a previous attempt saw spinning arrows.
func (c ArrowsCalibrating) HasSpinArrows() bool {
	return c.spinArrows
}

// ArrowsState is the outcome of one rune arrow detection attempt: either
// still calibrating (carry Calibrating into the next attempt) or complete
// with the four keys to press in order.
type ArrowsState struct {
	Complete    bool
	Keys        [4]platform.Key
	Calibrating ArrowsCalibrating
}

// Detector is the perception capability. Capture snapshots the live frame;
// every Detect* call reads the most recent snapshot, so all detections within
// one tick observe a consistent frame. Snapshot pins the current frame into a
// detector value safe to hand to background work while the tick thread keeps
// capturing.
type Detector interface {
	Capture() error
	Snapshot() Detector

	// DetectMinimap locates the minimap's bounding box using the given
	// border whiteness threshold.
	DetectMinimap(whiteness uint8) (Rect, error)
	// DetectMinimapName locates the map name label region relative to a
	// detected minimap box.
	DetectMinimapName(minimap Rect) (Rect, error)
	// PixelAt samples one pixel from the current frame.
	PixelAt(p Point) (Pixel, error)

	// DetectPlayer locates the avatar marker inside the minimap box.
	DetectPlayer(minimap Rect) (Rect, error)
	// DetectMinimapRune locates the active rune marker inside the minimap
	// box.
	DetectMinimapRune(minimap Rect) (Rect, error)
	DetectPlayerInCashShop() bool
	DetectEscMenuOpen() bool

	// DetectRuneArrows advances rune arrow calibration by one attempt.
	DetectRuneArrows(c ArrowsCalibrating) (ArrowsState, error)

	// DetectSkill locates an ability icon with the given match confidence.
	DetectSkill(kind SkillKind, confidence float64) (Rect, error)
	// DetectErdaShowerOffCooldown reports whether the ability at the given
	// box is currently usable.
	DetectErdaShowerOffCooldown(skill Rect) bool

	DetectBuff(kind BuffKind) bool
}
