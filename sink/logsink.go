package sink

import (
	"log"

	"github.com/tsaggregate/mad/model"
)

// LogSink writes each PeriodicData's entries to the standard logger,
// following the bare log.Printf error/status reporting style used
// throughout this codebase (see DESIGN.md for the logging survey).
type LogSink struct {
	Prefix string
}

// NewLogSink returns a LogSink whose log lines are prefixed with prefix.
func NewLogSink(prefix string) *LogSink {
	return &LogSink{Prefix: prefix}
}

func (s *LogSink) Record(data model.PeriodicData) error {
	for _, e := range data.Entries {
		log.Printf("%s key=%s period=%s periodStart=%s metric=%s statistic=%s value=%s",
			s.Prefix, data.Key, data.Period, data.PeriodStart.Format("2006-01-02T15:04:05Z07:00"),
			e.MetricName, e.Statistic, e.Value)
	}
	return nil
}

func (s *LogSink) Close() error { return nil }
