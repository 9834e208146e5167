package platform

import "sync"

// MockKeySender records every injected key for assertions in tests. It is
// shipped as regular code so downstream harnesses can reuse it.
type MockKeySender struct {
	mu sync.Mutex

	sent    []Key
	down    []Key
	up      []Key
	focused int

	// FailAll makes every method return ErrSendFailed without recording.
	FailAll bool
}

// ErrSendFailed is returned by MockKeySender when FailAll is set.
var ErrSendFailed = errSendFailed{}

type errSendFailed struct{}

func (errSendFailed) Error() string { return "send failed" }

func NewMockKeySender() *MockKeySender {
	return &MockKeySender{}
}

func (m *MockKeySender) Send(key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrSendFailed
	}
	m.sent = append(m.sent, key)
	return nil
}

func (m *MockKeySender) SendDown(key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrSendFailed
	}
	m.down = append(m.down, key)
	return nil
}

func (m *MockKeySender) SendUp(key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrSendFailed
	}
	m.up = append(m.up, key)
	return nil
}

func (m *MockKeySender) SendClickToFocus() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return ErrSendFailed
	}
	m.focused++
	return nil
}

// Sent returns a copy of every key delivered via Send, in order.
func (m *MockKeySender) Sent() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Key, len(m.sent))
	copy(out, m.sent)
	return out
}

// Down returns a copy of every key delivered via SendDown, in order.
func (m *MockKeySender) Down() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Key, len(m.down))
	copy(out, m.down)
	return out
}

// Up returns a copy of every key delivered via SendUp, in order.
func (m *MockKeySender) Up() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Key, len(m.up))
	copy(out, m.up)
	return out
}

// FocusClicks returns how many times SendClickToFocus was called.
func (m *MockKeySender) FocusClicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// Reset clears all recorded input.
func (m *MockKeySender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.down = nil
	m.up = nil
	m.focused = 0
}
