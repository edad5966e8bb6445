package lifecycle

import (
  "context"
  "fmt"
  "sync"

  "github.com/looplab/fsm"

  "bufqueue/internal/queue"
)

// Events are named for the state they lead to.
const (
  EventFill  = "fill"
  EventDrain = "drain"
  EventEmpty = "empty"
  EventClose = "close"
)

var (
  emptyOpen   = queue.EmptyOpen.String()
  draining    = queue.Draining.String()
  full        = queue.Full.String()
  emptyClosed = queue.EmptyClosed.String()
)

func eventFor(to queue.State) (string, bool) {
  switch to {
  case queue.Full:
    return EventFill, true
  case queue.Draining:
    return EventDrain, true
  case queue.EmptyOpen:
    return EventEmpty, true
  case queue.EmptyClosed:
    return EventClose, true
  }
  return "", false
}

// Tracker follows a queue's state changes through a state machine that only
// permits legal transitions. Anything else is kept as a violation.
type Tracker struct {
  queue.NopObserver

  machine *fsm.FSM

  mu         sync.Mutex
  history    []string
  violations []error
}

func New() *Tracker {
  t := &Tracker{history: []string{emptyOpen}}
  t.machine = fsm.NewFSM(
    emptyOpen,
    fsm.Events{
      {Name: EventFill, Src: []string{emptyOpen, draining}, Dst: full},
      {Name: EventDrain, Src: []string{emptyOpen, full}, Dst: draining},
      {Name: EventEmpty, Src: []string{draining, full}, Dst: emptyOpen},
      {Name: EventClose, Src: []string{emptyOpen, draining, full}, Dst: emptyClosed},
    },
    fsm.Callbacks{
      "enter_state": func(_ context.Context, e *fsm.Event) {
        t.mu.Lock()
        t.history = append(t.history, e.Dst)
        t.mu.Unlock()
      },
    },
  )
  return t
}

func (t *Tracker) StateChanged(from, to queue.State) {
  if cur := t.machine.Current(); cur != from.String() {
    t.violate(fmt.Errorf("lifecycle: queue left %s but tracker is in %s", from, cur))
  }
  event, ok := eventFor(to)
  if !ok {
    t.violate(fmt.Errorf("lifecycle: unknown target state %s", to))
    return
  }
  if err := t.machine.Event(context.Background(), event); err != nil {
    t.violate(fmt.Errorf("lifecycle: %s -> %s: %w", from, to, err))
  }
}

func (t *Tracker) violate(err error) {
  t.mu.Lock()
  defer t.mu.Unlock()
  t.violations = append(t.violations, err)
}

func (t *Tracker) Current() string {
  return t.machine.Current()
}

// Terminal reports whether the queue reached empty_closed.
func (t *Tracker) Terminal() bool {
  return t.machine.Is(emptyClosed)
}

func (t *Tracker) History() []string {
  t.mu.Lock()
  defer t.mu.Unlock()
  return append([]string(nil), t.history...)
}

func (t *Tracker) Violations() []error {
  t.mu.Lock()
  defer t.mu.Unlock()
  return append([]error(nil), t.violations...)
}
