package mpsc

// minRingSize is the capacity allocated on the first push.
const minRingSize = 16

// ring is a growable circular FIFO. It is not safe for concurrent use; the
// shared queue is guarded by the channel lock and a receiver's staging ring
// is only touched by its owner.
type ring[T any] struct {
	buf   []T
	head  int
	tail  int
	count int
}

func (r *ring[T]) len() int {
	return r.count
}

// push appends v at the back, doubling the buffer when full.
func (r *ring[T]) push(v T) {
	if r.count == len(r.buf) {
		r.grow()
	}
	r.buf[r.tail] = v
	r.tail = (r.tail + 1) % len(r.buf)
	r.count++
}

// pop removes and returns the front value.
func (r *ring[T]) pop() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	v := r.buf[r.head]
	r.buf[r.head] = zero // Clear reference
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return v, true
}

// reset drops every value and releases the buffer.
func (r *ring[T]) reset() {
	*r = ring[T]{}
}

func (r *ring[T]) grow() {
	size := len(r.buf) * 2
	if size == 0 {
		size = minRingSize
	}
	buf := make([]T, size)
	if r.count > 0 {
		if r.head < r.tail {
			copy(buf, r.buf[r.head:r.tail])
		} else {
			n := copy(buf, r.buf[r.head:])
			copy(buf[n:], r.buf[:r.tail])
		}
	}
	r.buf = buf
	r.head = 0
	r.tail = r.count
}
