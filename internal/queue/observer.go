package queue

import "time"

// Observer receives queue events. Every method except Opened is called with
// the queue lock held, in the order the events happened; implementations must
// be quick and must not call back into the queue. A panic inside an Observer
// poisons the queue.
type Observer interface {
  Opened(capacity int)
  Pushed(depth int)
  Popped(depth int)
  Blocked(op Op)
  Woke(op Op, waited time.Duration)
  StateChanged(from, to State)
  Completed()
}

// NopObserver ignores every event. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) Opened(int) {}
func (NopObserver) Pushed(int) {}
func (NopObserver) Popped(int) {}
func (NopObserver) Blocked(Op) {}
func (NopObserver) Woke(Op, time.Duration) {}
func (NopObserver) StateChanged(State, State) {}
func (NopObserver) Completed() {}

type multiObserver []Observer

// Observers fans events out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
  out := make(multiObserver, 0, len(obs))
  for _, o := range obs {
    if o != nil {
      out = append(out, o)
    }
  }
  switch len(out) {
  case 0:
    return NopObserver{}
  case 1:
    return out[0]
  }
  return out
}

func (m multiObserver) Opened(capacity int) {
  for _, o := range m {
    o.Opened(capacity)
  }
}

func (m multiObserver) Pushed(depth int) {
  for _, o := range m {
    o.Pushed(depth)
  }
}

func (m multiObserver) Popped(depth int) {
  for _, o := range m {
    o.Popped(depth)
  }
}

func (m multiObserver) Blocked(op Op) {
  for _, o := range m {
    o.Blocked(op)
  }
}

func (m multiObserver) Woke(op Op, waited time.Duration) {
  for _, o := range m {
    o.Woke(op, waited)
  }
}

func (m multiObserver) StateChanged(from, to State) {
  for _, o := range m {
    o.StateChanged(from, to)
  }
}

func (m multiObserver) Completed() {
  for _, o := range m {
    o.Completed()
  }
}
