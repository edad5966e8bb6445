// Package sink holds the destinations a consumer writes popped values to.
package sink

import (
  "context"
  "fmt"
  "sync"

  "bufqueue/internal/event"
)

type Sink interface {
  Write(ctx context.Context, r event.Record) error
  Close() error
}

// Open builds the sink named by kind.
func Open(kind string, opts Options) (Sink, error) {
  switch kind {
  case "", "memory":
    return NewMemory(), nil
  case "sqlite":
    return OpenSQLite(opts.SQLitePath)
  case "spool":
    sp := NewSpool(opts.SpoolDir, opts.SpoolMaxBytes, opts.SpoolBatch, opts.Run)
    sp.stats = opts.Stats
    if err := sp.Ensure(); err != nil {
      return nil, err
    }
    return sp, nil
  }
  return nil, fmt.Errorf("sink: unknown kind %q", kind)
}

type Options struct {
  Run           string
  SQLitePath    string
  SpoolDir      string
  SpoolMaxBytes int64
  SpoolBatch    int
  Stats         SpoolStats
}

type Memory struct {
  mu      sync.Mutex
  records []event.Record
}

func NewMemory() *Memory {
  return &Memory{}
}

func (m *Memory) Write(_ context.Context, r event.Record) error {
  m.mu.Lock()
  defer m.mu.Unlock()
  m.records = append(m.records, r)
  return nil
}

func (m *Memory) Close() error {
  return nil
}

func (m *Memory) Records() []event.Record {
  m.mu.Lock()
  defer m.mu.Unlock()
  return append([]event.Record(nil), m.records...)
}

func (m *Memory) Values() []int64 {
  m.mu.Lock()
  defer m.mu.Unlock()
  out := make([]int64, 0, len(m.records))
  for _, r := range m.records {
    out = append(out, r.Value)
  }
  return out
}
