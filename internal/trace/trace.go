package trace

import (
  "log"
  "time"

  "bufqueue/internal/queue"
)

// Tracer logs one line per queue event.
type Tracer struct {
  name   string
  logger *log.Logger
}

func New(name string, logger *log.Logger) *Tracer {
  if logger == nil {
    logger = log.Default()
  }
  return &Tracer{name: name, logger: logger}
}

func (t *Tracer) Opened(capacity int) {
  t.logger.Printf("%s: opened capacity=%d", t.name, capacity)
}

func (t *Tracer) Pushed(depth int) {
  t.logger.Printf("%s: pushed element depth=%d", t.name, depth)
}

func (t *Tracer) Popped(depth int) {
  t.logger.Printf("%s: popped element depth=%d", t.name, depth)
}

func (t *Tracer) Blocked(op queue.Op) {
  t.logger.Printf("%s: %s blocked", t.name, op)
}

func (t *Tracer) Woke(op queue.Op, waited time.Duration) {
  t.logger.Printf("%s: %s resumed after %s", t.name, op, waited.Round(time.Microsecond))
}

func (t *Tracer) StateChanged(from, to queue.State) {
  t.logger.Printf("%s: state %s -> %s", t.name, from, to)
}

func (t *Tracer) Completed() {
  t.logger.Printf("%s: producer closed", t.name)
}
