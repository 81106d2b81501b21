// Package bucket implements the per-(key, period-start) aggregation
// state: one Bucket accumulates a period's worth of records for a single
// dimension-key and produces a model.PeriodicData at close. Follows
// flusher.go's close-triggered emission of accumulated state and
// aggregator.State's per-metric accumulator storage keyed by name,
// generalized from a fixed statsd statistic set to the configurable
// specified/dependent statistic sets required here.
package bucket

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsaggregate/mad/model"
	"github.com/tsaggregate/mad/quantity"
	"github.com/tsaggregate/mad/statistic"
)

// ErrAlreadyClosed is returned by Record and Close once a Bucket has
// already been closed.
var ErrAlreadyClosed = errors.New("bucket: already closed")

// StatisticSet resolves, for a given metric name, the specified and
// dependent Statistic sets that apply to it. The Aggregator implements
// this by combining type defaults, pattern overrides, and dependency
// closure; Bucket only consumes the resolved sets.
type StatisticSet interface {
	SpecifiedFor(metricName string, metricType model.Type) []statistic.Statistic
	DependentFor(metricName string, metricType model.Type) []statistic.Statistic
}

// metricState holds the accumulators (specified and dependent) tracked
// for one metric name within a bucket.
type metricState struct {
	metricType model.Type
	specified  map[string]statistic.Accumulator
	dependent  map[string]statistic.Accumulator
	specOrder  []string
}

// Bucket accumulates one period's worth of data for one dimension-key.
// It is mutated only by its owning PeriodWorker's goroutine; no internal
// locking is provided.
type Bucket struct {
	Key         model.Key
	PeriodStart time.Time
	Period      time.Duration

	stats  StatisticSet
	states map[string]*metricState
	closed bool
}

// New creates an empty Bucket for (key, periodStart, period).
func New(key model.Key, periodStart time.Time, period time.Duration, stats StatisticSet) *Bucket {
	return &Bucket{
		Key:         key,
		PeriodStart: periodStart,
		Period:      period,
		stats:       stats,
		states:      make(map[string]*metricState),
	}
}

// Record ingests one quantity observed for metricName during this
// bucket's period. Each call is one accumulate into every accumulator of
// the metric, so recording the same quantity twice counts it twice.
func (b *Bucket) Record(metricName string, metricType model.Type, q quantity.Quantity) error {
	if b.closed {
		return ErrAlreadyClosed
	}
	state, err := b.stateFor(metricName, metricType)
	if err != nil {
		return err
	}
	for _, name := range state.specOrder {
		if err := state.specified[name].Accumulate(q); err != nil {
			return fmt.Errorf("bucket: metric %q statistic %q: %w", metricName, name, err)
		}
	}
	for name, acc := range state.dependent {
		if err := acc.Accumulate(q); err != nil {
			return fmt.Errorf("bucket: metric %q dependent statistic %q: %w", metricName, name, err)
		}
	}
	return nil
}

// stateFor lazily materializes the accumulator set for metricName on
// first touch, resolving specified/dependent statistics via StatisticSet.
func (b *Bucket) stateFor(metricName string, metricType model.Type) (*metricState, error) {
	if st, ok := b.states[metricName]; ok {
		return st, nil
	}
	specified := b.stats.SpecifiedFor(metricName, metricType)
	dependent := b.stats.DependentFor(metricName, metricType)

	st := &metricState{
		metricType: metricType,
		specified:  make(map[string]statistic.Accumulator, len(specified)),
		dependent:  make(map[string]statistic.Accumulator, len(dependent)),
		specOrder:  make([]string, 0, len(specified)),
	}
	for _, s := range specified {
		st.specified[s.Name()] = s.NewAccumulator()
		st.specOrder = append(st.specOrder, s.Name())
	}
	for _, s := range dependent {
		if _, dup := st.specified[s.Name()]; dup {
			continue
		}
		st.dependent[s.Name()] = s.NewAccumulator()
	}
	b.states[metricName] = st
	return st, nil
}

// Close finalizes the bucket: every metric's accumulators are evaluated
// in topological dependency order, and only specified statistics are
// emitted into the resulting PeriodicData.
func (b *Bucket) Close() (model.PeriodicData, error) {
	if b.closed {
		return model.PeriodicData{}, ErrAlreadyClosed
	}
	b.closed = true

	var entries []model.AggregatedData
	for metricName, state := range b.states {
		all := make(map[string]statistic.Accumulator, len(state.specified)+len(state.dependent))
		for name, acc := range state.specified {
			all[name] = acc
		}
		for name, acc := range state.dependent {
			all[name] = acc
		}

		results, err := calculateAll(b.stats, metricName, state.metricType, all)
		if err != nil {
			return model.PeriodicData{}, err
		}
		for _, name := range state.specOrder {
			cv, ok := results[name]
			if !ok {
				continue
			}
			entries = append(entries, model.AggregatedData{
				MetricName:     metricName,
				Statistic:      name,
				Value:          cv.Value,
				SupportingData: cv.Data,
			})
		}
	}

	return model.PeriodicData{
		Period:      b.Period,
		PeriodStart: b.PeriodStart,
		Key:         b.Key,
		Entries:     entries,
	}, nil
}

// calculateAll evaluates every accumulator in all in dependency order,
// building the Dependencies map each Calculate call requires:
// dependencies calculate before their dependents.
func calculateAll(stats StatisticSet, metricName string, metricType model.Type, all map[string]statistic.Accumulator) (map[string]statistic.CalculatedValue, error) {
	byName := make(map[string]statistic.Statistic)
	for _, s := range stats.SpecifiedFor(metricName, metricType) {
		byName[s.Name()] = s
	}
	for _, s := range stats.DependentFor(metricName, metricType) {
		byName[s.Name()] = s
	}

	results := make(map[string]statistic.CalculatedValue, len(all))
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("bucket: cyclic statistic dependency at %q", name)
		}
		visiting[name] = true

		deps := statistic.Dependencies{}
		if s, ok := byName[name]; ok {
			for _, d := range s.Dependencies() {
				if err := visit(d.Name()); err != nil {
					return err
				}
				if acc, ok := all[d.Name()]; ok {
					deps[d.Name()] = acc
				}
			}
		}

		acc, ok := all[name]
		if !ok {
			visiting[name] = false
			return nil
		}
		cv, err := acc.Calculate(deps)
		if err != nil {
			return fmt.Errorf("statistic %q: %w", name, err)
		}
		results[name] = cv
		visiting[name] = false
		visited[name] = true
		return nil
	}

	for name := range all {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return results, nil
}
