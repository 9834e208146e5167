package engine

// bounded is a fixed-capacity, push-only buffer. Elements are never removed
// individually; Reset drops everything at once. Used for movement waypoints
// and other small per-state collections where allocation churn inside the
// tick loop is unwanted.
type bounded[T any] struct {
	slots []T
	n     int
}

func newBounded[T any](capacity int) bounded[T] {
	if capacity <= 0 {
		panic("engine: bounded capacity must be positive")
	}
	return bounded[T]{slots: make([]T, capacity)}
}

func (b *bounded[T]) push(v T) {
	if b.n >= len(b.slots) {
		panic("engine: bounded buffer full")
	}
	b.slots[b.n] = v
	b.n++
}

func (b *bounded[T]) at(i int) T {
	if i < 0 || i >= b.n {
		panic("engine: bounded index out of range")
	}
	return b.slots[i]
}

func (b *bounded[T]) len() int { return b.n }

func (b *bounded[T]) reset() {
	var zero T
	for i := 0; i < b.n; i++ {
		b.slots[i] = zero
	}
	b.n = 0
}
