package nameparser

// ringBuffer is a fixed-capacity circular buffer. It is not safe for
// concurrent use; Cache guards it.
type ringBuffer[T any] struct {
	buffer []T
	head   int
	tail   int
	count  int
	size   int
}

func newRingBuffer[T any](capacity int) *ringBuffer[T] {
	return &ringBuffer[T]{
		buffer: make([]T, capacity),
		size:   capacity,
	}
}

// push appends item. When the buffer is full the oldest item is overwritten
// and returned with evicted set.
func (r *ringBuffer[T]) push(item T) (old T, evicted bool) {
	if r.count == r.size {
		old, evicted = r.buffer[r.head], true
		r.head = (r.head + 1) % r.size
	} else {
		r.count++
	}

	r.buffer[r.tail] = item
	r.tail = (r.tail + 1) % r.size
	return old, evicted
}

// items returns all items from oldest to newest.
func (r *ringBuffer[T]) items() []T {
	result := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		result[i] = r.buffer[(r.head+i)%r.size]
	}
	return result
}

func (r *ringBuffer[T]) len() int {
	return r.count
}

func (r *ringBuffer[T]) clear() {
	var zero T
	for i := range r.buffer {
		r.buffer[i] = zero
	}
	r.head = 0
	r.tail = 0
	r.count = 0
}
