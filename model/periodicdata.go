package model

import (
	"time"

	"github.com/tsaggregate/mad/quantity"
)

// AggregatedData is one (metricName, statistic) result inside a PeriodicData
// emission. SupportingData is opaque to the model package; statistics that
// need to carry extra shape (e.g. a histogram snapshot) attach it here.
type AggregatedData struct {
	MetricName     string
	Statistic      string
	Value          quantity.Quantity
	SupportingData interface{}
}

// PeriodicData is what a Bucket hands to a Sink when it closes: everything
// computed for one dimension-key over one period. Entries contains one
// AggregatedData per (metricName, specifiedStatistic) pair touched during
// the bucket's lifetime; purely dependent statistics are not emitted.
type PeriodicData struct {
	Period      time.Duration
	PeriodStart time.Time
	Key         Key
	Entries     []AggregatedData
}
