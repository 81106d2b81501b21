package statistic

import (
	"math"
	"testing"

	"github.com/tsaggregate/mad/quantity"
)

func Test_Truncate_PreservesSignAndMagnitude(t *testing.T) {
	for _, v := range []float64{1.0, -1.0, 100.0, -100.0, 0.001} {
		tr := truncate(v)
		if math.Signbit(tr) != math.Signbit(v) {
			t.Errorf("truncate(%v) = %v: sign mismatch", v, tr)
		}
		if v != 0 && math.Abs(tr/v-1) >= math.Pow(2, -7) {
			t.Errorf("truncate(%v) = %v: relative error too large", v, tr)
		}
	}
}

func Test_Histogram_PercentileMonotonicity(t *testing.T) {
	acc := newHistogramAccumulator()
	for i := 1; i <= 100; i++ {
		if err := acc.Accumulate(quantity.New(float64(i))); err != nil {
			t.Fatalf("Accumulate: %v", err)
		}
	}
	cv, err := acc.Calculate(nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	snap := cv.Data.(HistogramSupportingData).Snapshot

	prev := 0.0
	for _, p := range []float64{10, 25, 50, 75, 90, 99, 100} {
		v := snap.ValueAtPercentile(p)
		if v < prev {
			t.Errorf("percentile monotonicity violated at p=%v: %v < %v", p, v, prev)
		}
		prev = v
	}
}

func Test_Histogram_TP50_ApproxMedian(t *testing.T) {
	acc := newHistogramAccumulator()
	for i := 1; i <= 100; i++ {
		acc.Accumulate(quantity.New(float64(i)))
	}
	cv, _ := acc.Calculate(nil)
	snap := cv.Data.(HistogramSupportingData).Snapshot
	result := snap.ValueAtPercentile(50)
	if math.Abs(result-50)/50 >= 0.01 {
		t.Errorf("tp50 = %v, want within 1%% of 50", result)
	}
}

func Test_Histogram_EmptyReturnsZero(t *testing.T) {
	acc := newHistogramAccumulator()
	cv, _ := acc.Calculate(nil)
	snap := cv.Data.(HistogramSupportingData).Snapshot
	if v := snap.ValueAtPercentile(50); v != 0.0 {
		t.Errorf("empty histogram tp50 = %v, want 0", v)
	}
}

func Test_Histogram_MergeIdempotence(t *testing.T) {
	acc := newHistogramAccumulator()
	for i := 1; i <= 10; i++ {
		acc.Accumulate(quantity.New(float64(i)))
	}
	cv, _ := acc.Calculate(nil)
	snap := cv.Data.(HistogramSupportingData).Snapshot

	empty := HistogramSnapshot{Buckets: newHistogramAccumulator().data, EntriesCount: 0}
	merged := snap.merge(empty)

	if merged.EntriesCount != snap.EntriesCount {
		t.Errorf("merge with empty changed EntriesCount: %d vs %d", merged.EntriesCount, snap.EntriesCount)
	}
	if merged.Buckets.Len() != snap.Buckets.Len() {
		t.Errorf("merge with empty changed bucket count")
	}
}

func Test_Histogram_Commutativity(t *testing.T) {
	order1 := newHistogramAccumulator()
	for _, v := range []float64{5, 1, 9, 3, 7} {
		order1.Accumulate(quantity.New(v))
	}
	order2 := newHistogramAccumulator()
	for _, v := range []float64{9, 7, 5, 3, 1} {
		order2.Accumulate(quantity.New(v))
	}
	cv1, _ := order1.Calculate(nil)
	cv2, _ := order2.Calculate(nil)
	snap1 := cv1.Data.(HistogramSupportingData).Snapshot
	snap2 := cv2.Data.(HistogramSupportingData).Snapshot

	if snap1.EntriesCount != snap2.EntriesCount {
		t.Fatalf("EntriesCount differs by order: %d vs %d", snap1.EntriesCount, snap2.EntriesCount)
	}
	for _, k := range snap1.Buckets.Keys() {
		v1, _ := snap1.Buckets.Get(k)
		v2, _ := snap2.Buckets.Get(k)
		if v1 != v2 {
			t.Errorf("bucket %v differs by order: %d vs %d", k, v1, v2)
		}
	}
}
