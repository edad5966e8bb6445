package config

import (
  "errors"
  "fmt"
  "os"
  "time"

  "gopkg.in/yaml.v3"
)

type Config struct {
  Capacity     int           `yaml:"capacity"`
  Count        int           `yaml:"count"`
  ProduceDelay time.Duration `yaml:"produce_delay"`
  ConsumeDelay time.Duration `yaml:"consume_delay"`
  PushTimeout  time.Duration `yaml:"push_timeout"`
  PopTimeout   time.Duration `yaml:"pop_timeout"`
  Trace        bool          `yaml:"trace"`
  MetricsBind  string        `yaml:"metrics_bind"`

  Sink          string `yaml:"sink"`
  SQLitePath    string `yaml:"sqlite_path"`
  SpoolDir      string `yaml:"spool_dir"`
  SpoolMaxBytes int64  `yaml:"spool_max_bytes"`
  SpoolBatch    int    `yaml:"spool_batch"`
}

// These apply only when the file leaves the key out. An explicit count of 0
// produces nothing; an explicit capacity below 1 is clamped by the queue.
const (
  defaultCapacity = 3
  defaultCount    = 10
)

// Default is the configuration used when no file is given.
func Default() *Config {
  cfg := &Config{Capacity: defaultCapacity, Count: defaultCount}
  cfg.applyDefaults()
  return cfg
}

func Load(path string) (*Config, error) {
  data, err := os.ReadFile(path)
  if err != nil {
    return nil, err
  }
  return Parse(data)
}

func Parse(data []byte) (*Config, error) {
  cfg := &Config{Capacity: defaultCapacity, Count: defaultCount}
  if err := yaml.Unmarshal(data, cfg); err != nil {
    return nil, err
  }
  cfg.applyDefaults()
  if err := cfg.validate(); err != nil {
    return nil, err
  }
  return cfg, nil
}

// Capacity is left alone: the queue clamps values below 1 itself.
func (c *Config) applyDefaults() {
  if c.ProduceDelay == 0 {
    c.ProduceDelay = 250 * time.Millisecond
  }
  if c.ConsumeDelay == 0 {
    c.ConsumeDelay = 150 * time.Millisecond
  }
  if c.MetricsBind == "" {
    c.MetricsBind = "127.0.0.1:9110"
  }
  if c.Sink == "" {
    c.Sink = "memory"
  }
  if c.SQLitePath == "" {
    c.SQLitePath = "bufqueue.db"
  }
  if c.SpoolDir == "" {
    c.SpoolDir = "spool"
  }
  if c.SpoolMaxBytes == 0 {
    c.SpoolMaxBytes = 10 * 1024 * 1024
  }
  if c.SpoolBatch == 0 {
    c.SpoolBatch = 4
  }
}

func (c *Config) validate() error {
  if c.Count < 0 {
    return errors.New("count must not be negative")
  }
  if c.ProduceDelay < 0 || c.ConsumeDelay < 0 {
    return errors.New("delays must not be negative")
  }
  if c.PushTimeout < 0 || c.PopTimeout < 0 {
    return errors.New("timeouts must not be negative")
  }
  switch c.Sink {
  case "memory", "sqlite", "spool":
  default:
    return fmt.Errorf("unknown sink %q", c.Sink)
  }
  if c.SpoolBatch < 0 {
    return errors.New("spool_batch must not be negative")
  }
  return nil
}
