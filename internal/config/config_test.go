package config

import (
  "os"
  "path/filepath"
  "strings"
  "testing"
  "time"

  "github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
  want := &Config{
    Capacity:      3,
    Count:         10,
    ProduceDelay:  250 * time.Millisecond,
    ConsumeDelay:  150 * time.Millisecond,
    MetricsBind:   "127.0.0.1:9110",
    Sink:          "memory",
    SQLitePath:    "bufqueue.db",
    SpoolDir:      "spool",
    SpoolMaxBytes: 10 * 1024 * 1024,
    SpoolBatch:    4,
  }
  if diff := cmp.Diff(want, Default()); diff != "" {
    t.Errorf("Default() mismatch (-want +got):\n%s", diff)
  }
}

func TestLoad(t *testing.T) {
  path := filepath.Join(t.TempDir(), "config.yaml")
  data := `
capacity: 3
count: 12
produce_delay: 5ms
consume_delay: 1ms
pop_timeout: 2s
trace: true
sink: sqlite
sqlite_path: /tmp/q.db
`
  if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
    t.Fatal(err)
  }

  cfg, err := Load(path)
  if err != nil {
    t.Fatalf("Load() error = %v", err)
  }
  if cfg.Capacity != 3 || cfg.Count != 12 {
    t.Errorf("capacity, count = %d, %d; want 3, 12", cfg.Capacity, cfg.Count)
  }
  if cfg.ProduceDelay != 5*time.Millisecond || cfg.PopTimeout != 2*time.Second {
    t.Errorf("produce_delay, pop_timeout = %v, %v", cfg.ProduceDelay, cfg.PopTimeout)
  }
  if !cfg.Trace || cfg.Sink != "sqlite" || cfg.SQLitePath != "/tmp/q.db" {
    t.Errorf("trace, sink, sqlite_path = %v, %q, %q", cfg.Trace, cfg.Sink, cfg.SQLitePath)
  }
  if cfg.MetricsBind != "127.0.0.1:9110" {
    t.Errorf("metrics_bind default not applied: %q", cfg.MetricsBind)
  }
}

func TestCapacityNotValidated(t *testing.T) {
  cfg, err := Parse([]byte("capacity: -4\n"))
  if err != nil {
    t.Fatalf("Parse() error = %v", err)
  }
  if cfg.Capacity != -4 {
    t.Errorf("Capacity = %d; want -4 passed through", cfg.Capacity)
  }
}

func TestCount(t *testing.T) {
  tests := []struct {
    yaml string
    want int
  }{
    {"", 10},
    {"trace: true", 10},
    {"count: 0", 0},
    {"count: 3", 3},
  }
  for _, tt := range tests {
    cfg, err := Parse([]byte(tt.yaml))
    if err != nil {
      t.Fatalf("Parse(%q) error = %v", tt.yaml, err)
    }
    if cfg.Count != tt.want {
      t.Errorf("Parse(%q).Count = %d; want %d", tt.yaml, cfg.Count, tt.want)
    }
  }
}

func TestCapacityDefaultsOnlyWhenAbsent(t *testing.T) {
  cfg, err := Parse([]byte("count: 2\n"))
  if err != nil {
    t.Fatal(err)
  }
  if cfg.Capacity != 3 {
    t.Errorf("Capacity = %d; want default 3", cfg.Capacity)
  }
  if cfg, _ = Parse([]byte("capacity: 0\n")); cfg.Capacity != 0 {
    t.Errorf("Capacity = %d; want explicit 0 passed through", cfg.Capacity)
  }
}

func TestValidate(t *testing.T) {
  tests := []struct {
    yaml string
    want string
  }{
    {"count: -1", "count"},
    {"produce_delay: -1s", "delays"},
    {"push_timeout: -1s", "timeouts"},
    {"sink: kafka", "unknown sink"},
    {"spool_batch: -2", "spool_batch"},
  }
  for _, tt := range tests {
    _, err := Parse([]byte(tt.yaml))
    if err == nil || !strings.Contains(err.Error(), tt.want) {
      t.Errorf("Parse(%q) error = %v; want mention of %q", tt.yaml, err, tt.want)
    }
  }
}

func TestLoadMissingFile(t *testing.T) {
  if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
    t.Error("Load of missing file succeeded")
  }
}
