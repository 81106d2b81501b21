package model

import (
	"testing"

	"github.com/tsaggregate/mad/quantity"
)

func Test_Record_Validate_NoMetrics(t *testing.T) {
	r := Record{}
	if err := r.Validate(); err != ErrEmptyMetricName {
		t.Errorf("expected ErrEmptyMetricName, got %v", err)
	}
}

func Test_Record_Validate_EmptyMetricName(t *testing.T) {
	r := Record{Metrics: map[string]Metric{"": {Type: Gauge, Values: []quantity.Quantity{quantity.New(1)}}}}
	if err := r.Validate(); err != ErrEmptyMetricName {
		t.Errorf("expected ErrEmptyMetricName, got %v", err)
	}
}

func Test_Record_Validate_MultipleMetricsOneRecord(t *testing.T) {
	r := Record{Metrics: map[string]Metric{
		"latency": {Type: Timer, Values: []quantity.Quantity{quantity.New(1), quantity.New(2)}},
		"bytes":   {Type: Gauge, Values: []quantity.Quantity{quantity.New(3)}},
	}}
	if err := r.Validate(); err != nil {
		t.Errorf("expected valid multi-metric record, got %v", err)
	}
}

func Test_Record_Key_MatchesDimensions(t *testing.T) {
	r := Record{
		Dimensions: map[string]string{"host": "a"},
		Metrics:    map[string]Metric{"latency": {Type: Gauge, Values: []quantity.Quantity{quantity.New(1)}}},
	}
	want := NewKey(map[string]string{"host": "a"})
	if r.Key().ID() != want.ID() {
		t.Errorf("Record.Key() = %v, want %v", r.Key(), want)
	}
}
