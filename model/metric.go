package model

import "github.com/tsaggregate/mad/quantity"

// Metric is one named measurement within a Record: a type (which
// selects the default statistic set) plus an ordered sequence of
// samples observed for it at the Record's timestamp. An empty Values
// slice is legal and contributes nothing to any accumulator.
type Metric struct {
	Type   Type
	Values []quantity.Quantity
}

// Type identifies how a Metric's samples within a period should be
// combined by default (which statistics apply to it out of the box).
type Type int

const (
	// Counter is a monotonically-reported delta; samples within a period sum.
	Counter Type = iota
	// Gauge is an instantaneous reading; how a period's samples combine is
	// set by the configured gauge statistics.
	Gauge
	// Timer is a duration sample intended for percentile/histogram statistics.
	Timer
)

func (t Type) String() string {
	switch t {
	case Counter:
		return "counter"
	case Gauge:
		return "gauge"
	case Timer:
		return "timer"
	default:
		return "unknown"
	}
}
