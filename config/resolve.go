package config

import (
	"fmt"

	"github.com/tsaggregate/mad/aggregator"
	"github.com/tsaggregate/mad/statistic"
)

// Resolve turns a decoded Config into an aggregator.Config, looking up
// every named statistic in registry so names resolve to shared
// Statistic instances.
func (c *Config) Resolve(registry *statistic.Registry) (aggregator.Config, error) {
	counters, err := resolveNames(registry, c.CounterStatistics)
	if err != nil {
		return aggregator.Config{}, err
	}
	gauges, err := resolveNames(registry, c.GaugeStatistics)
	if err != nil {
		return aggregator.Config{}, err
	}
	timers, err := resolveNames(registry, c.TimerStatistics)
	if err != nil {
		return aggregator.Config{}, err
	}

	overrides := make([]aggregator.PatternOverride, 0, len(c.PatternStatistics))
	for _, po := range c.PatternStatistics {
		if po.Pattern.Regexp == nil {
			return aggregator.Config{}, fmt.Errorf("config: pattern-statistics entry missing pattern")
		}
		stats, err := resolveNames(registry, po.Statistics)
		if err != nil {
			return aggregator.Config{}, err
		}
		overrides = append(overrides, aggregator.PatternOverride{Pattern: po.Pattern.Regexp, Stats: stats})
	}

	return aggregator.Config{
		Periods: c.PeriodDurations(),
		TypeDefaults: aggregator.TypeDefaults{
			Counter: counters,
			Gauge:   gauges,
			Timer:   timers,
		},
		PatternStatistics: overrides,
		LatenessHorizon:   c.LatenessHorizon.Duration,
		// CloseDelay left at zero when unset in TOML: each PeriodWorker
		// falls back to its own Period (rotate() in worker/worker.go),
		// so a 5m worker isn't closed on a 1m worker's schedule.
		CloseDelay:            c.CloseDelay.Duration,
		WorkerMailboxCapacity: c.WorkerMailboxCapacity,
	}, nil
}

func resolveNames(registry *statistic.Registry, names []string) ([]statistic.Statistic, error) {
	out := make([]statistic.Statistic, 0, len(names))
	for _, name := range names {
		s, err := registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
