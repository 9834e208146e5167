// Package platform declares the capability contracts the engine consumes for
// input injection. Concrete implementations are OS specific and live outside
// this module; the engine only ever talks to these interfaces.
package platform

// Key identifies a physical key on the controlled application's keyboard.
type Key int

const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyCtrl
	KeyShift
	KeyAlt
	KeySpace
	KeyTilde
	KeyQuote
	KeySemicolon
	KeyComma
	KeyPeriod
	KeySlash
	KeyEsc
	KeyEnter
)

var keyNames = map[Key]string{
	KeyNone: "none", KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e",
	KeyF: "f", KeyG: "g", KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k",
	KeyL: "l", KeyM: "m", KeyN: "n", KeyO: "o", KeyP: "p", KeyQ: "q",
	KeyR: "r", KeyS: "s", KeyT: "t", KeyU: "u", KeyV: "v", KeyW: "w",
	KeyX: "x", KeyY: "y", KeyZ: "z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5",
	KeyF6: "f6", KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10",
	KeyF11: "f11", KeyF12: "f12",
	KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
	KeyHome: "home", KeyEnd: "end", KeyPageUp: "pageup", KeyPageDown: "pagedown",
	KeyInsert: "insert", KeyDelete: "delete",
	KeyCtrl: "ctrl", KeyShift: "shift", KeyAlt: "alt", KeySpace: "space",
	KeyTilde: "~", KeyQuote: "'", KeySemicolon: ";", KeyComma: ",",
	KeyPeriod: ".", KeySlash: "/", KeyEsc: "esc", KeyEnter: "enter",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	return m
}()

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey resolves a configured key name. Unknown names map to KeyNone so a
// stale config entry degrades to a no-op press rather than an error.
func ParseKey(name string) Key {
	if k, ok := keysByName[name]; ok {
		return k
	}
	return KeyNone
}

// KeySender injects synthetic input into the controlled application. All
// methods are best effort: delivery failure is indistinguishable from the
// window being momentarily unfocused, so callers ignore the returned error.
type KeySender interface {
	Send(key Key) error
	SendDown(key Key) error
	SendUp(key Key) error
	// SendClickToFocus clicks inside the window to restore keyboard focus.
	SendClickToFocus() error
}
