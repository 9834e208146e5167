package engine

import (
	"testing"
	"time"

	"github.com/veylen/mapletide/internal/detect"
)

// minimapHarness drives the minimap machine against a mock frame whose border
// pixels can be flipped to simulate a UI drag.
type minimapHarness struct {
	ctx     *Context
	state   *MinimapState
	mock    *detect.Mock
	minimap Minimap

	bbox  Rect
	pixel detect.Pixel
}

func setupMinimapTest(t *testing.T) *minimapHarness {
	t.Helper()
	h := &minimapHarness{
		bbox:  Rect{X: 10, Y: 10, W: 100, H: 80},
		pixel: detect.Pixel{R: 200, G: 200, B: 200},
	}
	h.mock = detect.NewMock()
	h.mock.DetectMinimapFunc = func(whiteness uint8) (Rect, error) {
		return h.bbox, nil
	}
	h.mock.DetectMinimapNameFunc = func(minimap Rect) (Rect, error) {
		return Rect{X: minimap.X, Y: minimap.Y - 12, W: 60, H: 10}, nil
	}
	h.mock.PixelAtFunc = func(p Point) (detect.Pixel, error) {
		return h.pixel, nil
	}
	h.ctx = &Context{Detector: h.mock}
	h.state = &MinimapState{}
	h.minimap = MinimapDetecting{}
	return h
}

func (h *minimapHarness) update() {
	h.minimap, _ = updateMinimapContext(h.ctx, h.state, h.minimap)
}

// settle drives detection until the background task delivers.
func (h *minimapHarness) settle(t *testing.T) MinimapIdle {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.update()
		if idle, ok := h.minimap.(MinimapIdle); ok {
			return idle
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("minimap never settled")
	return MinimapIdle{}
}

func TestMinimapDetection(t *testing.T) {
	h := setupMinimapTest(t)
	idle := h.settle(t)

	if idle.BBox != h.bbox {
		t.Errorf("expected bbox %+v, got %+v", h.bbox, idle.BBox)
	}
	if idle.NameBBox.W != 60 {
		t.Errorf("expected the name box cached, got %+v", idle.NameBBox)
	}
	wantTL := Point{X: 10, Y: 10}
	wantBR := Point{X: 109, Y: 89}
	if idle.AnchorTL.Pos != wantTL || idle.AnchorBR.Pos != wantBR {
		t.Errorf("expected corner anchors at %+v and %+v, got %+v and %+v",
			wantTL, wantBR, idle.AnchorTL.Pos, idle.AnchorBR.Pos)
	}
	if idle.AnchorTL.Pixel != h.pixel || idle.AnchorBR.Pixel != h.pixel {
		t.Error("expected anchor pixels sampled from the frame")
	}
}

func TestMinimapDetectionPinsFrame(t *testing.T) {
	h := setupMinimapTest(t)
	snapshots := 0
	h.mock.SnapshotFunc = func() detect.Detector {
		snapshots++
		return h.mock
	}

	// Arming the detection pass snapshots the frame on the calling tick,
	// before the background unit starts.
	h.update()
	if snapshots != 1 {
		t.Fatalf("expected 1 snapshot taken up front, got %d", snapshots)
	}
}

func TestMinimapAnchorMismatchAndRecovery(t *testing.T) {
	h := setupMinimapTest(t)
	idle := h.settle(t)

	// A flipped border pixel moves the estimate to changing
	h.pixel = detect.Pixel{R: 1, G: 2, B: 3}
	h.update()
	changing, ok := h.minimap.(MinimapChanging)
	if !ok {
		t.Fatalf("expected changing on anchor mismatch, got %T", h.minimap)
	}
	if changing.Prev.BBox != idle.BBox {
		t.Error("expected the previous estimate carried")
	}

	// The pixel coming back restores the cached estimate without
	// re-detection
	h.pixel = detect.Pixel{R: 200, G: 200, B: 200}
	h.update()
	restored, ok := h.minimap.(MinimapIdle)
	if !ok {
		t.Fatalf("expected the cached estimate restored, got %T", h.minimap)
	}
	if restored.BBox != idle.BBox {
		t.Error("expected the same cached bbox after recovery")
	}
}

func TestMinimapChangingExpiresToDetecting(t *testing.T) {
	h := setupMinimapTest(t)
	h.settle(t)

	h.pixel = detect.Pixel{R: 1, G: 2, B: 3}
	for i := 0; i < 100; i++ {
		h.update()
		if _, ok := h.minimap.(MinimapDetecting); ok {
			return
		}
	}
	t.Fatalf("expected re-detection after the changing budget, got %T", h.minimap)
}

func TestMinimapRuneTracking(t *testing.T) {
	h := setupMinimapTest(t)
	h.settle(t)

	// A rune marker centered at screen (40, 30) inside the 100x80 box at
	// (10, 10) maps to minimap-relative (30, 60), origin bottom-left.
	h.mock.DetectMinimapRuneFunc = func(minimap Rect) (Rect, error) {
		return Rect{X: 39, Y: 29, W: 2, H: 2}, nil
	}
	h.update()
	idle, ok := h.minimap.(MinimapIdle)
	if !ok {
		t.Fatalf("expected idle, got %T", h.minimap)
	}
	if idle.Rune == nil || *idle.Rune != (Point{X: 30, Y: 60}) {
		t.Fatalf("expected rune at (30, 60), got %+v", idle.Rune)
	}

	// The marker disappearing clears the estimate on the next tick
	h.mock.DetectMinimapRuneFunc = func(minimap Rect) (Rect, error) {
		return Rect{}, detect.ErrNotFound
	}
	h.update()
	idle = h.minimap.(MinimapIdle)
	if idle.Rune != nil {
		t.Errorf("expected the rune cleared, got %+v", idle.Rune)
	}
}
