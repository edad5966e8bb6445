package metrics

import (
  "time"

  "github.com/prometheus/client_golang/prometheus"

  "bufqueue/internal/queue"
)

// Metrics exports queue events to Prometheus. It implements queue.Observer.
type Metrics struct {
  QueueDepth     prometheus.Gauge
  QueueCapacity  prometheus.Gauge
  PushesTotal    prometheus.Counter
  PopsTotal      prometheus.Counter
  BlockedTotal   *prometheus.CounterVec
  WaitSeconds    *prometheus.HistogramVec
  QueueState     *prometheus.GaugeVec
  QueueCompleted prometheus.Gauge

  SpoolBytes   prometheus.Gauge
  SpoolBatches prometheus.Gauge
  SpoolEvicted prometheus.Gauge
}

// New registers the collectors on reg. name is attached as the "queue" label.
func New(reg prometheus.Registerer, name string) *Metrics {
  labels := prometheus.Labels{"queue": name}
  m := &Metrics{
    QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_depth",
      Help:        "Elements currently buffered",
      ConstLabels: labels,
    }),
    QueueCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_capacity",
      Help:        "Effective queue capacity",
      ConstLabels: labels,
    }),
    PushesTotal: prometheus.NewCounter(prometheus.CounterOpts{
      Name:        "bufqueue_pushes_total",
      Help:        "Elements pushed",
      ConstLabels: labels,
    }),
    PopsTotal: prometheus.NewCounter(prometheus.CounterOpts{
      Name:        "bufqueue_pops_total",
      Help:        "Elements popped",
      ConstLabels: labels,
    }),
    BlockedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
      Name:        "bufqueue_blocked_total",
      Help:        "Calls that had to wait, by operation",
      ConstLabels: labels,
    }, []string{"op"}),
    WaitSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
      Name:        "bufqueue_wait_seconds",
      Help:        "Time spent blocked, by operation",
      ConstLabels: labels,
      Buckets:     prometheus.ExponentialBuckets(0.0005, 4, 10),
    }, []string{"op"}),
    QueueState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
      Name:        "bufqueue_state",
      Help:        "1 for the current queue state, 0 otherwise",
      ConstLabels: labels,
    }, []string{"state"}),
    QueueCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_completed",
      Help:        "1 once the producer has closed",
      ConstLabels: labels,
    }),
    SpoolBytes: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_spool_bytes",
      Help:        "Bytes held in the spool directory",
      ConstLabels: labels,
    }),
    SpoolBatches: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_spool_batches",
      Help:        "Batch files in the spool directory",
      ConstLabels: labels,
    }),
    SpoolEvicted: prometheus.NewGauge(prometheus.GaugeOpts{
      Name:        "bufqueue_spool_evicted_batches",
      Help:        "Batches dropped to keep the spool under its size cap",
      ConstLabels: labels,
    }),
  }

  reg.MustRegister(
    m.QueueDepth,
    m.QueueCapacity,
    m.PushesTotal,
    m.PopsTotal,
    m.BlockedTotal,
    m.WaitSeconds,
    m.QueueState,
    m.QueueCompleted,
    m.SpoolBytes,
    m.SpoolBatches,
    m.SpoolEvicted,
  )

  for _, s := range queue.States() {
    m.QueueState.WithLabelValues(s.String()).Set(0)
  }
  m.QueueState.WithLabelValues(queue.EmptyOpen.String()).Set(1)

  return m
}

func (m *Metrics) Opened(capacity int) {
  m.QueueCapacity.Set(float64(capacity))
}

func (m *Metrics) Pushed(depth int) {
  m.PushesTotal.Inc()
  m.QueueDepth.Set(float64(depth))
}

func (m *Metrics) Popped(depth int) {
  m.PopsTotal.Inc()
  m.QueueDepth.Set(float64(depth))
}

func (m *Metrics) Blocked(op queue.Op) {
  m.BlockedTotal.WithLabelValues(string(op)).Inc()
}

func (m *Metrics) Woke(op queue.Op, waited time.Duration) {
  m.WaitSeconds.WithLabelValues(string(op)).Observe(waited.Seconds())
}

func (m *Metrics) StateChanged(from, to queue.State) {
  m.QueueState.WithLabelValues(from.String()).Set(0)
  m.QueueState.WithLabelValues(to.String()).Set(1)
}

func (m *Metrics) Completed() {
  m.QueueCompleted.Set(1)
}

// SpoolFlushed records spool totals; it satisfies sink.SpoolStats.
func (m *Metrics) SpoolFlushed(bytes int64, batches, evicted int) {
  m.SpoolBytes.Set(float64(bytes))
  m.SpoolBatches.Set(float64(batches))
  m.SpoolEvicted.Set(float64(evicted))
}
