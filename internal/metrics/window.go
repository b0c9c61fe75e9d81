package metrics

// window is a fixed-capacity FIFO that drops its oldest value when full.
type window[T any] struct {
	buf   []T
	start int
	size  int
}

func newWindow[T any](capacity int) *window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &window[T]{buf: make([]T, capacity)}
}

func (w *window[T]) push(v T) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

func (w *window[T]) len() int { return w.size }

// values returns the contents oldest first.
func (w *window[T]) values() []T {
	out := make([]T, w.size)
	for i := range out {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

func (w *window[T]) reset() {
	w.start = 0
	w.size = 0
}
