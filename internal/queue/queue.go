// Package queue implements a bounded blocking FIFO shared by one producer
// handle and one consumer handle.
//
// The producer blocks while the queue is full and the consumer blocks while it
// is empty. Closing the producer completes the stream: the consumer drains
// whatever is still buffered and then gets io.EOF on every later Pop.
//
// Push and Pop without a context can block forever if the peer never acts.
// Use PushContext and PopContext when that matters.
package queue

import (
  "context"
  "io"
  "log"
  "runtime"
  "sync"
  "sync/atomic"
  "time"

  "bufqueue/internal/util"
)

type options struct {
  observer Observer
  logger   *log.Logger
}

type Option func(*options)

// WithObserver installs the hook that receives queue events.
func WithObserver(o Observer) Option {
  return func(opts *options) {
    if o != nil {
      opts.observer = o
    }
  }
}

// WithLogger sets the logger used for warnings. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
  return func(opts *options) {
    if l != nil {
      opts.logger = l
    }
  }
}

// core is one monitor: mu guards buf, completed, poison and state, and both
// conditions wait on mu.
type core[T any] struct {
  mu       sync.Mutex
  notFull  *sync.Cond
  notEmpty *sync.Cond

  buf       *util.Ring[T]
  completed bool
  poison    *PoisonedError
  state     State

  done   atomic.Bool
  obs    Observer
  logger *log.Logger
}

// New creates a queue holding at most capacity elements and returns its two
// handles. A capacity below 1 is clamped to 1.
func New[T any](capacity int, opts ...Option) (*Producer[T], *Consumer[T]) {
  o := options{observer: NopObserver{}, logger: log.Default()}
  for _, opt := range opts {
    opt(&o)
  }
  if capacity < 1 {
    o.logger.Printf("queue: capacity %d below 1, clamping to 1", capacity)
    capacity = 1
  }

  c := &core[T]{
    buf:    util.NewRing[T](capacity),
    state:  EmptyOpen,
    obs:    o.observer,
    logger: o.logger,
  }
  c.notFull = sync.NewCond(&c.mu)
  c.notEmpty = sync.NewCond(&c.mu)
  c.obs.Opened(capacity)

  p := &Producer[T]{c: c}
  runtime.SetFinalizer(p, (*Producer[T]).finalize)
  return p, &Consumer[T]{c: c}
}

// unlock releases mu. If the critical section panicked, the queue is poisoned
// and every waiter is woken before the panic continues.
func (c *core[T]) unlock() {
  if r := recover(); r != nil {
    if c.poison == nil {
      c.poison = &PoisonedError{Value: r}
    }
    c.notFull.Broadcast()
    c.notEmpty.Broadcast()
    c.mu.Unlock()
    panic(r)
  }
  c.mu.Unlock()
}

// wakeOnDone broadcasts both conditions when ctx is done so that waiters
// re-check ctx.Err().
func (c *core[T]) wakeOnDone(ctx context.Context) func() bool {
  if ctx.Done() == nil {
    return func() bool { return false }
  }
  return context.AfterFunc(ctx, func() {
    c.mu.Lock()
    c.notFull.Broadcast()
    c.notEmpty.Broadcast()
    c.mu.Unlock()
  })
}

func (c *core[T]) transition() {
  next := deriveState(c.buf.Len(), c.buf.Cap(), c.completed)
  if next == c.state {
    return
  }
  prev := c.state
  c.state = next
  c.obs.StateChanged(prev, next)
}

func (c *core[T]) push(ctx context.Context, v T, wait bool) (bool, error) {
  c.mu.Lock()
  defer c.unlock()

  var (
    blocked bool
    start   time.Time
  )
  for {
    if c.poison != nil {
      return false, c.poison
    }
    if c.completed {
      return false, ErrClosed
    }
    if !c.buf.Full() {
      break
    }
    if !wait {
      return false, nil
    }
    if err := ctx.Err(); err != nil {
      return false, err
    }
    if !blocked {
      blocked = true
      start = time.Now()
      stop := c.wakeOnDone(ctx)
      defer stop()
      c.obs.Blocked(OpPush)
    }
    c.notFull.Wait()
  }
  if blocked {
    c.obs.Woke(OpPush, time.Since(start))
  }

  wasEmpty := c.buf.Empty()
  c.buf.Add(v)
  c.obs.Pushed(c.buf.Len())
  c.transition()
  if wasEmpty {
    c.notEmpty.Broadcast()
  }
  return true, nil
}

func (c *core[T]) pop(ctx context.Context, wait bool) (T, bool, error) {
  var zero T

  c.mu.Lock()
  defer c.unlock()

  var (
    blocked bool
    start   time.Time
  )
  for {
    if c.poison != nil {
      return zero, false, c.poison
    }
    if !c.buf.Empty() {
      break
    }
    if c.completed {
      return zero, false, io.EOF
    }
    if !wait {
      return zero, false, nil
    }
    if err := ctx.Err(); err != nil {
      return zero, false, err
    }
    if !blocked {
      blocked = true
      start = time.Now()
      stop := c.wakeOnDone(ctx)
      defer stop()
      c.obs.Blocked(OpPop)
    }
    c.notEmpty.Wait()
  }
  if blocked {
    c.obs.Woke(OpPop, time.Since(start))
  }

  wasFull := c.buf.Full()
  v, _ := c.buf.Take()
  c.obs.Popped(c.buf.Len())
  c.transition()
  if wasFull {
    c.notFull.Broadcast()
  }
  return v, true, nil
}

func (c *core[T]) complete() error {
  c.mu.Lock()
  defer c.unlock()

  if c.completed {
    return nil
  }
  c.completed = true
  c.done.Store(true)
  c.notEmpty.Broadcast()
  c.notFull.Broadcast()
  if c.poison != nil {
    return c.poison
  }
  c.obs.Completed()
  c.transition()
  return nil
}

func (c *core[T]) size() int {
  c.mu.Lock()
  defer c.mu.Unlock()
  return c.buf.Len()
}

func (c *core[T]) current() State {
  c.mu.Lock()
  defer c.mu.Unlock()
  return c.state
}

// Producer is the write side of a queue. Only one goroutine should own it.
type Producer[T any] struct {
  c    *core[T]
  once sync.Once
  err  error
}

// Push appends v, blocking while the queue is full.
func (p *Producer[T]) Push(v T) error {
  _, err := p.c.push(context.Background(), v, true)
  return err
}

// PushContext is Push bounded by ctx. On ctx expiry v is not enqueued and
// ctx.Err() is returned.
func (p *Producer[T]) PushContext(ctx context.Context, v T) error {
  _, err := p.c.push(ctx, v, true)
  return err
}

// TryPush appends v only if there is room, without blocking.
func (p *Producer[T]) TryPush(v T) (bool, error) {
  return p.c.push(context.Background(), v, false)
}

func (p *Producer[T]) Len() int {
  return p.c.size()
}

func (p *Producer[T]) Cap() int {
  return p.c.buf.Cap()
}

// Close marks the stream complete. It is safe to call more than once; only
// the first call has an effect. Callers should defer it right after New.
func (p *Producer[T]) Close() error {
  p.once.Do(func() {
    runtime.SetFinalizer(p, nil)
    p.err = p.c.complete()
  })
  return p.err
}

func (p *Producer[T]) finalize() {
  p.c.logger.Printf("queue: producer dropped without Close, completing stream")
  p.once.Do(func() {
    p.err = p.c.complete()
  })
}

// Consumer is the read side of a queue. Only one goroutine should own it.
type Consumer[T any] struct {
  c *core[T]
}

// Pop removes the head element, blocking while the queue is empty and the
// producer is still open. Once the producer is closed and the queue drained
// it returns io.EOF, and keeps doing so.
func (c *Consumer[T]) Pop() (T, error) {
  v, _, err := c.c.pop(context.Background(), true)
  return v, err
}

// PopContext is Pop bounded by ctx.
func (c *Consumer[T]) PopContext(ctx context.Context) (T, error) {
  v, _, err := c.c.pop(ctx, true)
  return v, err
}

// TryPop returns the head element if there is one. ok is false when the
// queue is empty; err is io.EOF when it is also complete.
func (c *Consumer[T]) TryPop() (v T, ok bool, err error) {
  return c.c.pop(context.Background(), false)
}

// Len is a snapshot and goes stale as soon as it returns.
func (c *Consumer[T]) Len() int {
  return c.c.size()
}

func (c *Consumer[T]) Cap() int {
  return c.c.buf.Cap()
}

// Completed reports whether the producer has closed. It never blocks.
func (c *Consumer[T]) Completed() bool {
  return c.c.done.Load()
}

func (c *Consumer[T]) State() State {
  return c.c.current()
}
