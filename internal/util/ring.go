package util

// Ring is a fixed-capacity FIFO. It is not safe for concurrent use; callers
// hold their own lock.
type Ring[T any] struct {
  values []T
  size   int
  head   int
  count  int
}

func NewRing[T any](size int) *Ring[T] {
  if size < 0 {
    size = 0
  }
  return &Ring[T]{values: make([]T, size), size: size}
}

// Add appends v at the tail. It reports false when the ring is full.
func (r *Ring[T]) Add(v T) bool {
  if r.count == r.size {
    return false
  }
  r.values[(r.head+r.count)%r.size] = v
  r.count++
  return true
}

// Take removes and returns the head.
func (r *Ring[T]) Take() (T, bool) {
  var zero T
  if r.count == 0 {
    return zero, false
  }
  v := r.values[r.head]
  r.values[r.head] = zero
  r.head = (r.head + 1) % r.size
  r.count--
  return v, true
}

func (r *Ring[T]) Len() int {
  return r.count
}

func (r *Ring[T]) Cap() int {
  return r.size
}

func (r *Ring[T]) Full() bool {
  return r.count == r.size
}

func (r *Ring[T]) Empty() bool {
  return r.count == 0
}
