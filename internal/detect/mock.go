package detect

import "github.com/veylen/mapletide/internal/platform"

// Mock is a Detector whose behavior is set per test via function fields. Any
// unset field reports "not found". Shipped as regular code so downstream
// harnesses can reuse it.
type Mock struct {
	CaptureFunc                  func() error
	SnapshotFunc                 func() Detector
	DetectMinimapFunc            func(whiteness uint8) (Rect, error)
	DetectMinimapNameFunc        func(minimap Rect) (Rect, error)
	PixelAtFunc                  func(p Point) (Pixel, error)
	DetectPlayerFunc             func(minimap Rect) (Rect, error)
	DetectMinimapRuneFunc        func(minimap Rect) (Rect, error)
	DetectPlayerInCashShopFunc   func() bool
	DetectEscMenuOpenFunc        func() bool
	DetectRuneArrowsFunc         func(c ArrowsCalibrating) (ArrowsState, error)
	DetectSkillFunc              func(kind SkillKind, confidence float64) (Rect, error)
	DetectErdaShowerCooldownFunc func(skill Rect) bool
	DetectBuffFunc               func(kind BuffKind) bool
}

var _ Detector = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Capture() error {
	if m.CaptureFunc != nil {
		return m.CaptureFunc()
	}
	return nil
}

func (m *Mock) Snapshot() Detector {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return m
}

func (m *Mock) DetectMinimap(whiteness uint8) (Rect, error) {
	if m.DetectMinimapFunc != nil {
		return m.DetectMinimapFunc(whiteness)
	}
	return Rect{}, ErrNotFound
}

func (m *Mock) DetectMinimapName(minimap Rect) (Rect, error) {
	if m.DetectMinimapNameFunc != nil {
		return m.DetectMinimapNameFunc(minimap)
	}
	return Rect{}, ErrNotFound
}

func (m *Mock) PixelAt(p Point) (Pixel, error) {
	if m.PixelAtFunc != nil {
		return m.PixelAtFunc(p)
	}
	return Pixel{}, ErrNotFound
}

func (m *Mock) DetectPlayer(minimap Rect) (Rect, error) {
	if m.DetectPlayerFunc != nil {
		return m.DetectPlayerFunc(minimap)
	}
	return Rect{}, ErrNotFound
}

func (m *Mock) DetectMinimapRune(minimap Rect) (Rect, error) {
	if m.DetectMinimapRuneFunc != nil {
		return m.DetectMinimapRuneFunc(minimap)
	}
	return Rect{}, ErrNotFound
}

func (m *Mock) DetectPlayerInCashShop() bool {
	if m.DetectPlayerInCashShopFunc != nil {
		return m.DetectPlayerInCashShopFunc()
	}
	return false
}

func (m *Mock) DetectEscMenuOpen() bool {
	if m.DetectEscMenuOpenFunc != nil {
		return m.DetectEscMenuOpenFunc()
	}
	return false
}

func (m *Mock) DetectRuneArrows(c ArrowsCalibrating) (ArrowsState, error) {
	if m.DetectRuneArrowsFunc != nil {
		return m.DetectRuneArrowsFunc(c)
	}
	return ArrowsState{}, ErrNotFound
}

func (m *Mock) DetectSkill(kind SkillKind, confidence float64) (Rect, error) {
	if m.DetectSkillFunc != nil {
		return m.DetectSkillFunc(kind, confidence)
	}
	return Rect{}, ErrNotFound
}

func (m *Mock) DetectErdaShowerOffCooldown(skill Rect) bool {
	if m.DetectErdaShowerCooldownFunc != nil {
		return m.DetectErdaShowerCooldownFunc(skill)
	}
	return false
}

func (m *Mock) DetectBuff(kind BuffKind) bool {
	if m.DetectBuffFunc != nil {
		return m.DetectBuffFunc(kind)
	}
	return false
}

// ArrowsComplete builds a completed detection outcome for tests.
func ArrowsComplete(keys [4]platform.Key) ArrowsState {
	return ArrowsState{Complete: true, Keys: keys}
}

// ArrowsCalibratingWith builds an in-progress outcome for tests.
func ArrowsCalibratingWith(spinArrows bool, samples int) ArrowsState {
	return ArrowsState{Calibrating: ArrowsCalibrating{spinArrows: spinArrows, samples: samples}}
}
