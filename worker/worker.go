// Package worker implements PeriodWorker: the per-(key, period) task
// that owns a timeline of Buckets, rotates them on period boundaries,
// and hands closed buckets to a Sink. Follows receiver/worker.go's
// single-consumer mailbox + tick-driven periodic work, and
// receiver/startstop.go's wController lifecycle pattern, generalized
// from a fixed-cardinality worker pool to one goroutine per
// dimension-key.
package worker

import (
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tsaggregate/mad/bucket"
	"github.com/tsaggregate/mad/model"
	"github.com/tsaggregate/mad/quantity"
)

// Sink receives finalized PeriodicData. Implementations must be safe for
// concurrent invocation from multiple PeriodWorkers.
type Sink interface {
	Record(data model.PeriodicData) error
}

// wrkCtl signals lifecycle events on a shared WaitGroup, mirroring
// wController: onEnter marks the goroutine started, onExit marks it
// finished, onStarted releases a caller waiting for the worker loop to
// be ready to receive.
type wrkCtl struct {
	wg      *sync.WaitGroup
	startWg *sync.WaitGroup
	id      string
}

func (w *wrkCtl) onEnter()   { w.wg.Add(1) }
func (w *wrkCtl) onExit()    { w.wg.Done() }
func (w *wrkCtl) onStarted() { w.startWg.Done() }
func (w *wrkCtl) ident() string { return w.id }

// Config bundles the tunables a PeriodWorker needs: the period length,
// lateness horizon, close delay, and mailbox capacity.
type Config struct {
	Period          time.Duration
	LatenessHorizon time.Duration
	CloseDelay      time.Duration
	MailboxCapacity int
}

// record is one Record projected onto a single metric+quantity pair, the
// unit PeriodWorker's mailbox transports.
type record struct {
	metricName string
	metricType model.Type
	quantity   quantity.Quantity
	timestamp  time.Time
}

// BucketBuilder constructs a fresh Bucket for (key, periodStart).
// Supplied by the Aggregator, which knows the StatisticSet to inject.
type BucketBuilder func(key model.Key, periodStart time.Time, period time.Duration) *bucket.Bucket

// PeriodWorker owns the timeline of Buckets for one (key, period). It
// runs its own goroutine and must only be driven through its channel API
// (Send) and lifecycle methods (Start/Shutdown); Buckets themselves are
// touched only from that goroutine, enforcing a single-owner rule.
type PeriodWorker struct {
	key    model.Key
	cfg    Config
	sink   Sink
	build  BucketBuilder
	nowFn  func() time.Time

	mailbox chan record
	wg      sync.WaitGroup

	dropLimiter *rate.Limiter
	drops       int64
	lateDrops   int64
	closed      bool
	mu          sync.Mutex // guards drops/lateDrops/closed
}

// New creates a PeriodWorker for key. The worker's goroutine is not
// started until Start is called.
func New(key model.Key, cfg Config, sink Sink, build BucketBuilder) *PeriodWorker {
	if cfg.MailboxCapacity <= 0 {
		cfg.MailboxCapacity = 1024
	}
	return &PeriodWorker{
		key:         key,
		cfg:         cfg,
		sink:        sink,
		build:       build,
		nowFn:       time.Now,
		mailbox:     make(chan record, cfg.MailboxCapacity),
		dropLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Start launches the worker's goroutine and blocks the caller until it
// is ready to receive, mirroring wController.onStarted/startWg.Wait().
func (w *PeriodWorker) Start() {
	var startWg sync.WaitGroup
	startWg.Add(1)
	ctl := &wrkCtl{wg: &w.wg, startWg: &startWg, id: w.key.ID()}
	go w.run(ctl)
	startWg.Wait()
}

// Send enqueues a Record for processing. If the mailbox is full, the
// record is dropped and a drop counter increments; Send never blocks
// the caller. Send is safe to call concurrently with itself and with
// Shutdown: once Shutdown has closed the mailbox, Send silently no-ops
// instead of racing the close.
func (w *PeriodWorker) Send(r model.Record, metricName string, metricType model.Type, q quantity.Quantity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.mailbox <- record{metricName: metricName, metricType: metricType, quantity: q, timestamp: r.Timestamp}:
	default:
		w.drops++
		if w.dropLimiter.Allow() {
			log.Printf("worker %s: mailbox full, dropping record for metric %q", w.key.ID(), metricName)
		}
	}
}

// Shutdown closes the mailbox and waits (up to timeout) for the worker
// goroutine to close and emit all remaining buckets. Closing the
// mailbox is serialized against Send under mu so no caller can send on
// an already-closed channel.
func (w *PeriodWorker) Shutdown(timeout time.Duration) {
	w.mu.Lock()
	w.closed = true
	close(w.mailbox)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Printf("worker %s: shutdown grace period exceeded, abandoning stragglers", w.key.ID())
	}
}

// Stats returns the worker's current drop counters, for self-metrics
// reporting.
func (w *PeriodWorker) Stats() (drops, lateDrops int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.drops, w.lateDrops
}

func (w *PeriodWorker) run(ctl *wrkCtl) {
	ctl.onEnter()
	defer ctl.onExit()

	buckets := newBucketTimeline()
	ticker := time.NewTicker(tickInterval(w.cfg.Period))
	defer ticker.Stop()

	ctl.onStarted()

	for {
		select {
		case r, ok := <-w.mailbox:
			if !ok {
				w.drainAll(buckets)
				return
			}
			w.absorb(buckets, r)

		case <-ticker.C:
			w.rotate(buckets, w.nowFn())
		}
	}
}

// tickInterval is the PeriodWorker's internal clock granularity. A
// tenth of the period keeps close-delay accounting reasonably tight
// without excessive wakeups.
func tickInterval(period time.Duration) time.Duration {
	d := period / 10
	if d < time.Second {
		d = time.Second
	}
	return d
}

func (w *PeriodWorker) absorb(buckets *bucketTimeline, r record) {
	periodStart := r.timestamp.Truncate(w.cfg.Period)
	horizon := w.cfg.LatenessHorizon
	if horizon <= 0 {
		horizon = 2 * w.cfg.Period
	}
	if w.nowFn().Sub(periodStart) > horizon {
		w.mu.Lock()
		w.lateDrops++
		w.mu.Unlock()
		if w.dropLimiter.Allow() {
			log.Printf("worker %s: record for metric %q beyond lateness horizon, dropped", w.key.ID(), r.metricName)
		}
		return
	}

	b := buckets.get(periodStart)
	if b == nil {
		b = w.build(w.key, periodStart, w.cfg.Period)
		buckets.put(periodStart, b)
	}
	if err := b.Record(r.metricName, r.metricType, r.quantity); err != nil {
		log.Printf("worker %s: record(%q) error: %v", w.key.ID(), r.metricName, err)
	}
}

// rotate closes every bucket whose close-delay window has elapsed, in
// ascending periodStart order.
func (w *PeriodWorker) rotate(buckets *bucketTimeline, now time.Time) {
	closeDelay := w.cfg.CloseDelay
	if closeDelay <= 0 {
		closeDelay = w.cfg.Period
	}
	for _, periodStart := range buckets.sortedStarts() {
		if periodStart.Add(w.cfg.Period).Add(closeDelay).After(now) {
			continue
		}
		b := buckets.take(periodStart)
		w.emit(b)
	}
}

func (w *PeriodWorker) drainAll(buckets *bucketTimeline) {
	for _, periodStart := range buckets.sortedStarts() {
		w.emit(buckets.take(periodStart))
	}
}

func (w *PeriodWorker) emit(b *bucket.Bucket) {
	data, err := b.Close()
	if err != nil {
		log.Printf("worker %s: bucket close error: %v", w.key.ID(), err)
		return
	}
	if err := w.sink.Record(data); err != nil {
		log.Printf("worker %s: sink.Record error: %v", w.key.ID(), err)
	}
}
