package model

import (
	"errors"
	"time"
)

// ErrEmptyMetricName is returned by Validate when a Record carries no
// metrics, or one of its metric names is empty.
var ErrEmptyMetricName = errors.New("model: record has empty metric name")

// Record is a batch of measurements sharing one dimension set and
// timestamp, handed to the aggregator's front door in one call. Its Key
// is derived from Dimensions and is what routes it to a PeriodWorker.
// Metrics may name more than one Metric, and each Metric may carry more
// than one Quantity, so a single source event (e.g. a request that
// produces both a latency timer and a byte-count gauge) reaches Observe
// as one Record.
type Record struct {
	ID          string
	Dimensions  map[string]string
	Metrics     map[string]Metric
	Timestamp   time.Time
	RequestTime time.Time
}

// Key computes the routing identity of this Record from its dimensions.
func (r Record) Key() Key { return NewKey(r.Dimensions) }

// Validate reports whether the Record is well-formed enough to accept.
func (r Record) Validate() error {
	if len(r.Metrics) == 0 {
		return ErrEmptyMetricName
	}
	for name := range r.Metrics {
		if name == "" {
			return ErrEmptyMetricName
		}
	}
	return nil
}
