package sink

import (
  "context"
  "sync"
  "time"

  "github.com/sugawarayuuta/sonnet"

  "bufqueue/internal/event"
  "bufqueue/internal/spool"
)

// SpoolStats is told the spool's size, batch count and eviction total after
// every batch written.
type SpoolStats interface {
  SpoolFlushed(bytes int64, batches, evicted int)
}

// Spool groups records into batches and writes each batch as one JSON file.
type Spool struct {
  *spool.Spool

  run       string
  batchSize int
  stats     SpoolStats

  mu      sync.Mutex
  pending []event.Record
}

func NewSpool(dir string, maxBytes int64, batchSize int, run string) *Spool {
  if batchSize < 1 {
    batchSize = 1
  }
  return &Spool{
    Spool:     spool.New(dir, maxBytes),
    run:       run,
    batchSize: batchSize,
    pending:   make([]event.Record, 0, batchSize),
  }
}

func (s *Spool) Write(_ context.Context, r event.Record) error {
  s.mu.Lock()
  defer s.mu.Unlock()
  s.pending = append(s.pending, r)
  if len(s.pending) < s.batchSize {
    return nil
  }
  return s.flush()
}

// Flush writes out a partial batch.
func (s *Spool) Flush() error {
  s.mu.Lock()
  defer s.mu.Unlock()
  return s.flush()
}

func (s *Spool) flush() error {
  if len(s.pending) == 0 {
    return nil
  }
  payload, err := sonnet.Marshal(event.Batch{Run: s.run, SentAt: time.Now().UTC(), Records: s.pending})
  if err != nil {
    return err
  }
  if err := s.Enqueue(payload); err != nil {
    return err
  }
  s.pending = s.pending[:0]
  if s.stats != nil {
    s.stats.SpoolFlushed(s.SizeBytes(), s.Count(), s.Evicted())
  }
  return nil
}

func (s *Spool) Close() error {
  return s.Flush()
}

// ReadAll decodes every spooled batch, oldest first, without removing them.
func ReadAll(dir string) ([]event.Batch, error) {
  batches, err := spool.New(dir, 0).Peek()
  if err != nil {
    return nil, err
  }
  out := make([]event.Batch, 0, len(batches))
  for _, data := range batches {
    var b event.Batch
    if err := sonnet.Unmarshal(data, &b); err != nil {
      return nil, err
    }
    out = append(out, b)
  }
  return out, nil
}
