package queue

import (
  "errors"
  "fmt"
)

var (
  // ErrClosed is returned by producer operations after Close.
  ErrClosed = errors.New("queue: producer closed")

  // ErrPoisoned matches any *PoisonedError via errors.Is.
  ErrPoisoned = errors.New("queue: poisoned")
)

// PoisonedError is returned to every caller once something panicked while
// holding the queue lock. The queue cannot recover from it.
type PoisonedError struct {
  Value any
}

func (e *PoisonedError) Error() string {
  return fmt.Sprintf("queue: poisoned by panic: %v", e.Value)
}

func (e *PoisonedError) Is(target error) bool {
  return target == ErrPoisoned
}
