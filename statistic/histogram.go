package statistic

import (
	"math"

	"github.com/tsaggregate/mad/orderedmap"
	"github.com/tsaggregate/mad/quantity"
)

// truncMask keeps sign, exponent, and the high 7 mantissa bits of an
// IEEE-754 double, discarding the low 45 bits. This is the observable
// bucketing contract: downstream consumers merging snapshots across
// nodes must agree on it (following arpnetworking's HistogramStatistic).
const truncMask uint64 = 0xFFFFE00000000000

// truncate maps v to its histogram bucket key.
func truncate(v float64) float64 {
	return math.Float64frombits(math.Float64bits(v) & truncMask)
}

// HistogramSnapshot is an immutable, deep-copied view of a histogram's
// bucket counts, keyed by truncated value in ascending order.
type HistogramSnapshot struct {
	Buckets      *orderedmap.Map[float64, int32]
	EntriesCount int32
}

// ValueAtPercentile implements the target/scan algorithm: target =
// min(ceil(entriesCount*p/100), entriesCount), then the first bucket
// whose running count reaches target. Empty histograms return 0.
func (s HistogramSnapshot) ValueAtPercentile(p float64) float64 {
	if s.EntriesCount == 0 {
		return 0.0
	}
	target := int32(math.Ceil(float64(s.EntriesCount) * p / 100.0))
	if target > s.EntriesCount {
		target = s.EntriesCount
	}
	var running int32
	result := 0.0
	found := false
	s.Buckets.Each(func(key float64, count int32) {
		if found {
			return
		}
		running += count
		if running >= target {
			result = key
			found = true
		}
	})
	return result
}

// merge returns a new snapshot with other's counts added key-wise.
func (s HistogramSnapshot) merge(other HistogramSnapshot) HistogramSnapshot {
	out := s.Buckets.Clone()
	other.Buckets.Each(func(key float64, count int32) {
		existing, _ := out.Get(key)
		out.Set(key, existing+count)
	})
	return HistogramSnapshot{Buckets: out, EntriesCount: s.EntriesCount + other.EntriesCount}
}

// HistogramSupportingData is the CalculatedValue.Data payload for the
// histogram statistic and anything that reads it (percentile family).
type HistogramSupportingData struct {
	Snapshot HistogramSnapshot
	Unit     quantity.Unit
}

// Histogram is the built-in statistic backing the tpN percentile family.
// It has no dependencies of its own.
var Histogram Statistic = &baseStatistic{name: "histogram", newAcc: func() Accumulator { return newHistogramAccumulator() }}

type histogramAccumulator struct {
	tracker unitTracker
	data    *orderedmap.Map[float64, int32]
	count   int32
}

func newHistogramAccumulator() *histogramAccumulator {
	return &histogramAccumulator{data: orderedmap.New[float64, int32]()}
}

func (a *histogramAccumulator) recordValue(v float64, count int32) {
	key := truncate(v)
	existing, _ := a.data.Get(key)
	a.data.Set(key, existing+count)
	a.count += count
}

func (a *histogramAccumulator) Accumulate(q quantity.Quantity) error {
	q, err := a.tracker.reconcile(q)
	if err != nil {
		return err
	}
	a.recordValue(q.Value, 1)
	return nil
}

// AccumulateValue merges a precomputed histogram snapshot into this
// accumulator's state (the histogram's add(other) operation). The
// merged snapshot is assumed to already agree on bucketing and unit; no
// cross-unit rescaling of an incoming snapshot is performed.
func (a *histogramAccumulator) AccumulateValue(v CalculatedValue) error {
	supporting, ok := v.Data.(HistogramSupportingData)
	if !ok {
		return a.Accumulate(v.Value)
	}
	if !a.tracker.set {
		a.tracker.unit = supporting.Unit
		a.tracker.set = true
	}
	supporting.Snapshot.Buckets.Each(func(key float64, count int32) {
		existing, _ := a.data.Get(key)
		a.data.Set(key, existing+count)
	})
	a.count += supporting.Snapshot.EntriesCount
	return nil
}

func (a *histogramAccumulator) Calculate(Dependencies) (CalculatedValue, error) {
	snap := HistogramSnapshot{Buckets: a.data.Clone(), EntriesCount: a.count}
	return CalculatedValue{
		Value: a.tracker.quantityOf(snap.ValueAtPercentile(100)),
		Data:  HistogramSupportingData{Snapshot: snap, Unit: a.tracker.unit},
	}, nil
}
