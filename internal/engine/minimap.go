package engine

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/veylen/mapletide/internal/constants"
	"github.com/veylen/mapletide/internal/detect"
)

// minimapDetectRearmMillis paces full minimap re-detection attempts.
const minimapDetectRearmMillis = 1000

// Anchor is a cached border pixel used as a cheap validity probe: while the
// minimap stays put, re-sampling it is enough to trust the cached boxes.
type Anchor struct {
	Pos   Point
	Pixel detect.Pixel
}

// Minimap is the minimap estimate's state.
type Minimap interface {
	minimapState()
	Name() string
}

// MinimapDetecting runs full re-detection of the minimap bounding box, its
// name label and the two corner anchors.
type MinimapDetecting struct{}

// MinimapIdle holds the cached boxes. Each tick the two anchors are cheaply
// re-sampled; a mismatch moves to Changing. The rune marker is re-detected
// every tick because it appears and disappears at the game's whim.
type MinimapIdle struct {
	BBox     Rect
	NameBBox Rect
	AnchorTL Anchor
	AnchorBR Anchor
	Rune     *Point
}

// MinimapChanging tolerates a transiently mismatching anchor (e.g. a UI
// drag) for a fixed budget before giving up and re-detecting.
type MinimapChanging struct {
	Timeout Timeout
	Prev    MinimapIdle
}

func (MinimapDetecting) minimapState() {}
func (MinimapIdle) minimapState()      {}
func (MinimapChanging) minimapState()  {}

func (MinimapDetecting) Name() string { return "detecting" }
func (MinimapIdle) Name() string      { return "idle" }
func (MinimapChanging) Name() string  { return "changing" }

// minimapData is the full re-detection result crossing the task bridge.
type minimapData struct {
	bbox     Rect
	nameBBox Rect
	anchorTL Anchor
	anchorBR Anchor
}

// MinimapState is the machine's persistent memory.
type MinimapState struct {
	task *Task[minimapData]
}

func updateMinimapContext(ctx *Context, state *MinimapState, minimap Minimap) (Minimap, controlFlow) {
	switch m := minimap.(type) {
	case MinimapDetecting:
		// Pin the frame on the tick thread; the worker must not touch the
		// live detector while Capture runs.
		snapshot := ctx.Detector.Snapshot()
		poll := updateTaskRepeatable(
			minimapDetectRearmMillis*time.Millisecond,
			&state.task,
			func() (minimapData, error) { return detectMinimap(snapshot) },
		)
		if poll.State != TaskComplete {
			return m, controlFlowNext
		}
		data := poll.Value
		log.Info().
			Int("w", data.bbox.W).
			Int("h", data.bbox.H).
			Msg("minimap detected")
		return MinimapIdle{
			BBox:     data.bbox,
			NameBBox: data.nameBBox,
			AnchorTL: data.anchorTL,
			AnchorBR: data.anchorBR,
		}, controlFlowNext

	case MinimapIdle:
		if !minimapAnchorsMatch(ctx.Detector, m) {
			return MinimapChanging{Prev: m}, controlFlowNext
		}
		m.Rune = detectMinimapRune(ctx.Detector, m.BBox)
		return m, controlFlowNext

	case MinimapChanging:
		if minimapAnchorsMatch(ctx.Detector, m.Prev) {
			return m.Prev, controlFlowNext
		}
		next := advanceTimeout(
			m.Timeout,
			constants.MinimapChangingTimeout,
			func(t Timeout) Minimap { return MinimapChanging{Timeout: t, Prev: m.Prev} },
			func() Minimap {
				log.Info().Msg("minimap moved, re-detecting")
				return MinimapDetecting{}
			},
			func(t Timeout) Minimap { return MinimapChanging{Timeout: t, Prev: m.Prev} },
		)
		return next, controlFlowNext

	default:
		panic("engine: unknown minimap state")
	}
}

// detectMinimap performs the full detection pass on a pinned frame.
func detectMinimap(detector detect.Detector) (minimapData, error) {
	bbox, err := detector.DetectMinimap(constants.MinimapAnchorWhitenessThreshold)
	if err != nil {
		return minimapData{}, err
	}
	nameBBox, err := detector.DetectMinimapName(bbox)
	if err != nil {
		return minimapData{}, err
	}
	tl := Point{X: bbox.X, Y: bbox.Y}
	br := Point{X: bbox.X + bbox.W - 1, Y: bbox.Y + bbox.H - 1}
	tlPixel, err := detector.PixelAt(tl)
	if err != nil {
		return minimapData{}, err
	}
	brPixel, err := detector.PixelAt(br)
	if err != nil {
		return minimapData{}, err
	}
	return minimapData{
		bbox:     bbox,
		nameBBox: nameBBox,
		anchorTL: Anchor{Pos: tl, Pixel: tlPixel},
		anchorBR: Anchor{Pos: br, Pixel: brPixel},
	}, nil
}

func minimapAnchorsMatch(detector detect.Detector, idle MinimapIdle) bool {
	for _, anchor := range [2]Anchor{idle.AnchorTL, idle.AnchorBR} {
		pixel, err := detector.PixelAt(anchor.Pos)
		if err != nil || pixel != anchor.Pixel {
			return false
		}
	}
	return true
}

// detectMinimapRune returns the rune's minimap-relative position, if one is
// up.
func detectMinimapRune(detector detect.Detector, bbox Rect) *Point {
	rect, err := detector.DetectMinimapRune(bbox)
	if err != nil {
		return nil
	}
	center := rect.Center()
	pos := Point{
		X: center.X - bbox.X,
		Y: bbox.Y + bbox.H - center.Y,
	}
	return &pos
}
