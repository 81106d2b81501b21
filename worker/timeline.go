package worker

import (
	"sort"
	"time"

	"github.com/tsaggregate/mad/bucket"
)

// bucketTimeline is the ordered map of periodStart -> Bucket a
// PeriodWorker owns.
type bucketTimeline struct {
	buckets map[time.Time]*bucket.Bucket
}

func newBucketTimeline() *bucketTimeline {
	return &bucketTimeline{buckets: make(map[time.Time]*bucket.Bucket)}
}

func (t *bucketTimeline) get(periodStart time.Time) *bucket.Bucket {
	return t.buckets[periodStart]
}

func (t *bucketTimeline) put(periodStart time.Time, b *bucket.Bucket) {
	t.buckets[periodStart] = b
}

func (t *bucketTimeline) take(periodStart time.Time) *bucket.Bucket {
	b := t.buckets[periodStart]
	delete(t.buckets, periodStart)
	return b
}

// sortedStarts returns the live period starts in ascending order, so
// callers close buckets in a consistent, deterministic order.
func (t *bucketTimeline) sortedStarts() []time.Time {
	starts := make([]time.Time, 0, len(t.buckets))
	for start := range t.buckets {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}
