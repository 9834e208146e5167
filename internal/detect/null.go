package detect

// Null is the Detector used when no capture backend is configured. Every
// lookup reports not found, which keeps the engine in its detecting states
// instead of acting on stale data.
type Null struct{}

var _ Detector = Null{}

func NewNull() Null { return Null{} }

func (Null) Capture() error                                       { return nil }
func (Null) Snapshot() Detector                                   { return Null{} }
func (Null) DetectMinimap(whiteness uint8) (Rect, error)          { return Rect{}, ErrNotFound }
func (Null) DetectMinimapName(minimap Rect) (Rect, error)         { return Rect{}, ErrNotFound }
func (Null) PixelAt(p Point) (Pixel, error)                       { return Pixel{}, ErrNotFound }
func (Null) DetectPlayer(minimap Rect) (Rect, error)              { return Rect{}, ErrNotFound }
func (Null) DetectMinimapRune(minimap Rect) (Rect, error)         { return Rect{}, ErrNotFound }
func (Null) DetectPlayerInCashShop() bool                         { return false }
func (Null) DetectEscMenuOpen() bool                              { return false }
func (Null) DetectRuneArrows(c ArrowsCalibrating) (ArrowsState, error) {
	return ArrowsState{}, ErrNotFound
}
func (Null) DetectSkill(kind SkillKind, confidence float64) (Rect, error) {
	return Rect{}, ErrNotFound
}
func (Null) DetectErdaShowerOffCooldown(skill Rect) bool { return false }
func (Null) DetectBuff(kind BuffKind) bool               { return false }
