package pipeline

import (
  "context"
  "errors"
  "fmt"
  "io"
  "time"

  "golang.org/x/sync/errgroup"

  "bufqueue/internal/config"
  "bufqueue/internal/event"
  "bufqueue/internal/queue"
  "bufqueue/internal/sink"
)

type Result struct {
  Produced int
  Consumed int
}

// Cubes returns 1³, 2³, …, n³. It is empty for n < 1.
func Cubes(n int) []int64 {
  if n < 0 {
    n = 0
  }
  out := make([]int64, 0, n)
  for i := int64(1); i <= int64(n); i++ {
    out = append(out, i*i*i)
  }
  return out
}

// Produce pushes values one at a time, spending delay on each before the
// push. It always closes p, so the consumer sees the end of the stream even
// when Produce fails part way.
func Produce(ctx context.Context, p *queue.Producer[int64], values []int64, delay, timeout time.Duration) (int, error) {
  defer p.Close()

  for i, v := range values {
    if err := sleep(ctx, delay); err != nil {
      return i, err
    }
    pctx, cancel := bounded(ctx, timeout)
    err := p.PushContext(pctx, v)
    cancel()
    if err != nil {
      return i, fmt.Errorf("push %d: %w", v, err)
    }
  }
  return len(values), nil
}

// Consume pops until the stream ends, writing each value to out and then
// spending delay on it.
func Consume(ctx context.Context, c *queue.Consumer[int64], out sink.Sink, delay, timeout time.Duration) (int, error) {
  n := 0
  for {
    pctx, cancel := bounded(ctx, timeout)
    v, err := c.PopContext(pctx)
    cancel()
    if errors.Is(err, io.EOF) {
      return n, nil
    }
    if err != nil {
      return n, fmt.Errorf("pop after %d: %w", n, err)
    }

    n++
    if err := out.Write(ctx, event.Record{Seq: n, Value: v, TS: time.Now().UTC()}); err != nil {
      return n, err
    }
    if err := sleep(ctx, delay); err != nil {
      return n, err
    }
  }
}

// Run wires one producer and one consumer over a queue sized by cfg and
// waits for both.
func Run(ctx context.Context, cfg *config.Config, out sink.Sink, opts ...queue.Option) (Result, error) {
  p, c := queue.New[int64](cfg.Capacity, opts...)

  var res Result
  g, gctx := errgroup.WithContext(ctx)
  g.Go(func() error {
    n, err := Produce(gctx, p, Cubes(cfg.Count), cfg.ProduceDelay, cfg.PushTimeout)
    res.Produced = n
    return err
  })
  g.Go(func() error {
    n, err := Consume(gctx, c, out, cfg.ConsumeDelay, cfg.PopTimeout)
    res.Consumed = n
    return err
  })
  err := g.Wait()
  return res, err
}

func bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
  if timeout <= 0 {
    return ctx, func() {}
  }
  return context.WithTimeout(ctx, timeout)
}

func sleep(ctx context.Context, d time.Duration) error {
  if d <= 0 {
    return ctx.Err()
  }
  t := time.NewTimer(d)
  defer t.Stop()
  select {
  case <-ctx.Done():
    return ctx.Err()
  case <-t.C:
    return nil
  }
}
