package sequence

// Window is a fixed capacity FIFO that evicts its oldest element when a new
// one arrives at capacity. It is not safe for concurrent use.
type Window[T any] struct {
	items []T
	head  int
	size  int
}

func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{items: make([]T, capacity)}
}

// Push appends value, evicting the oldest element when full.
func (w *Window[T]) Push(value T) {
	idx := (w.head + w.size) % len(w.items)
	w.items[idx] = value
	if w.size < len(w.items) {
		w.size++
		return
	}
	w.head = (w.head + 1) % len(w.items)
}

// Oldest returns the first element still held.
func (w *Window[T]) Oldest() (T, bool) {
	if w.size == 0 {
		var zero T
		return zero, false
	}
	return w.items[w.head], true
}

// Newest returns the last pushed element.
func (w *Window[T]) Newest() (T, bool) {
	if w.size == 0 {
		var zero T
		return zero, false
	}
	return w.items[(w.head+w.size-1)%len(w.items)], true
}

func (w *Window[T]) Len() int { return w.size }
