package event

import "time"

type Batch struct {
  Run     string    `json:"run"`
  SentAt  time.Time `json:"sent_at"`
  Records []Record  `json:"records"`
}

// Record is one value taken off the queue by the consumer. Seq counts from 1
// in pop order.
type Record struct {
  Seq   int       `json:"seq"`
  Value int64     `json:"value"`
  TS    time.Time `json:"ts"`
}
