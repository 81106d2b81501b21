// Package sink provides reference Sink implementations: the emission
// contract PeriodWorkers call into when a bucket closes. Follows
// arpnetworking's tsdcore.sinks.Sink (recordAggregateData/close),
// adapted to receiver/flusher.go's error-handling idiom of logging and
// swallowing rather than propagating.
package sink

import "github.com/tsaggregate/mad/model"

// Sink receives finalized PeriodicData. Record must be safe for
// concurrent invocation from multiple PeriodWorkers and must not block
// indefinitely; failures are the sink's own responsibility to log and
// swallow, no error return propagates into the worker loop beyond a log
// line.
type Sink interface {
	Record(data model.PeriodicData) error
	Close() error
}
