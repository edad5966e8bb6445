package queue_test

import (
  "sync"
  "time"

  "bufqueue/internal/queue"
)

type transition struct {
  From, To queue.State
}

// recorder keeps every event it sees. Its own lock makes it safe to read from
// the test goroutine while the queue is in use.
type recorder struct {
  mu     sync.Mutex
  log    []string
  depth  []int
  states []transition
}

func (r *recorder) add(ev string) {
  r.mu.Lock()
  defer r.mu.Unlock()
  r.log = append(r.log, ev)
}

func (r *recorder) Opened(int) { r.add("opened") }

func (r *recorder) Pushed(depth int) {
  r.mu.Lock()
  r.depth = append(r.depth, depth)
  r.mu.Unlock()
  r.add("pushed")
}

func (r *recorder) Popped(depth int) {
  r.mu.Lock()
  r.depth = append(r.depth, depth)
  r.mu.Unlock()
  r.add("popped")
}

func (r *recorder) Blocked(op queue.Op) { r.add("blocked:" + string(op)) }

func (r *recorder) Woke(op queue.Op, _ time.Duration) { r.add("woke:" + string(op)) }

func (r *recorder) StateChanged(from, to queue.State) {
  r.mu.Lock()
  r.states = append(r.states, transition{from, to})
  r.mu.Unlock()
  r.add("state:" + to.String())
}

func (r *recorder) Completed() { r.add("completed") }

func (r *recorder) events() []string {
  r.mu.Lock()
  defer r.mu.Unlock()
  return append([]string(nil), r.log...)
}

func (r *recorder) depths() []int {
  r.mu.Lock()
  defer r.mu.Unlock()
  return append([]int(nil), r.depth...)
}

func (r *recorder) transitions() []transition {
  r.mu.Lock()
  defer r.mu.Unlock()
  return append([]transition(nil), r.states...)
}

func (r *recorder) count(ev string) int {
  n := 0
  for _, e := range r.events() {
    if e == ev {
      n++
    }
  }
  return n
}

type panicker struct {
  queue.NopObserver
  onDepth int
}

func (p *panicker) Pushed(depth int) {
  if depth == p.onDepth {
    panic("observer exploded")
  }
}

type popPanicker struct {
  queue.NopObserver
}

func (popPanicker) Popped(int) {
  panic("consumer observer exploded")
}

// syncBuffer lets a logger be written from the finalizer goroutine while the
// test reads it.
type syncBuffer struct {
  mu  sync.Mutex
  buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
  b.mu.Lock()
  defer b.mu.Unlock()
  b.buf = append(b.buf, p...)
  return len(p), nil
}

func (b *syncBuffer) String() string {
  b.mu.Lock()
  defer b.mu.Unlock()
  return string(b.buf)
}
