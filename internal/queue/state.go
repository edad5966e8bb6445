package queue

// State is the queue-level state derived from (len, cap, completed).
// A completed queue that still holds elements reports Draining or Full.
type State int

const (
  EmptyOpen State = iota
  Draining
  Full
  EmptyClosed
)

var stateNames = [...]string{
  EmptyOpen:   "empty_open",
  Draining:    "draining",
  Full:        "full",
  EmptyClosed: "empty_closed",
}

func (s State) String() string {
  if s < 0 || int(s) >= len(stateNames) {
    return "unknown"
  }
  return stateNames[s]
}

// States lists every State in declaration order.
func States() []State {
  return []State{EmptyOpen, Draining, Full, EmptyClosed}
}

func deriveState(n, capacity int, completed bool) State {
  switch {
  case n == 0 && completed:
    return EmptyClosed
  case n == 0:
    return EmptyOpen
  case n >= capacity:
    return Full
  default:
    return Draining
  }
}

// Op names the blocking operation reported to an Observer.
type Op string

const (
  OpPush Op = "push"
  OpPop  Op = "pop"
)
