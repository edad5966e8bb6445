package main

import (
  "context"
  "flag"
  "log"
  "net/http"
  "os"
  "os/signal"
  "syscall"
  "time"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promhttp"

  "bufqueue/internal/config"
  "bufqueue/internal/lifecycle"
  "bufqueue/internal/metrics"
  "bufqueue/internal/pipeline"
  "bufqueue/internal/queue"
  "bufqueue/internal/sink"
  "bufqueue/internal/trace"
)

func main() {
  var cfgPath string
  flag.StringVar(&cfgPath, "config", "", "config path (defaults are used when empty)")
  flag.Parse()

  cfg := config.Default()
  if cfgPath != "" {
    var err error
    if cfg, err = config.Load(cfgPath); err != nil {
      log.Fatalf("config load failed: %v", err)
    }
  }

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()

  sigCh := make(chan os.Signal, 2)
  signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
  go func() {
    <-sigCh
    cancel()
  }()

  m := metrics.New(prometheus.DefaultRegisterer, "demo")
  tracker := lifecycle.New()
  observers := []queue.Observer{m, tracker}
  if cfg.Trace {
    observers = append(observers, trace.New("demo", log.Default()))
  }

  // Metrics endpoint
  if cfg.MetricsBind != "" {
    mux := http.NewServeMux()
    mux.Handle("/metrics", promhttp.Handler())
    srv := &http.Server{Addr: cfg.MetricsBind, Handler: mux}
    go func() {
      if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
        log.Printf("metrics server error: %v", err)
      }
    }()
    defer func() {
      shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
      defer done()
      _ = srv.Shutdown(shutdownCtx)
    }()
  }

  out, err := sink.Open(cfg.Sink, sink.Options{
    Run:           time.Now().UTC().Format(time.RFC3339),
    SQLitePath:    cfg.SQLitePath,
    SpoolDir:      cfg.SpoolDir,
    SpoolMaxBytes: cfg.SpoolMaxBytes,
    SpoolBatch:    cfg.SpoolBatch,
    Stats:         m,
  })
  if err != nil {
    log.Fatalf("sink init failed: %v", err)
  }

  start := time.Now()
  res, runErr := pipeline.Run(ctx, cfg, out, queue.WithObserver(queue.Observers(observers...)))
  if err := out.Close(); err != nil {
    log.Printf("sink close failed: %v", err)
  }

  for _, v := range tracker.Violations() {
    log.Printf("queue lifecycle violation: %v", v)
  }
  log.Printf("produced=%d consumed=%d final_state=%s elapsed=%s", res.Produced, res.Consumed, tracker.Current(), time.Since(start).Round(time.Millisecond))

  if mem, ok := out.(*sink.Memory); ok {
    log.Printf("output: %v", mem.Values())
  }
  if runErr != nil {
    log.Printf("run failed: %v", runErr)
    cancel()
    os.Exit(1)
  }
}
