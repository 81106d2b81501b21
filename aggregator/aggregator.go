// Package aggregator implements the front-end that routes incoming
// records to per-key PeriodWorkers and resolves which statistics apply
// to which metric. Follows receiver/dscache.go's RWMutex-guarded
// name-keyed map for the key->workers routing table, and
// receiver/director.go and receiver/dispatcher.go for the
// compute-if-absent worker-spawn idiom.
package aggregator

import (
	"fmt"
	"log"
	"math"
	"regexp"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"

	"github.com/tsaggregate/mad/bucket"
	"github.com/tsaggregate/mad/model"
	"github.com/tsaggregate/mad/statistic"
	"github.com/tsaggregate/mad/worker"
)

// statNameCacheSize bounds the two memoization caches. Metric-name
// cardinality is expected to be bounded, but an LRU cap keeps a runaway
// cardinality metric source from growing the caches without limit.
const statNameCacheSize = 4096

// PatternOverride is one entry of the ordered per-metric-name statistic
// override list: the first pattern whose full match accepts a metric
// name wins.
type PatternOverride struct {
	Pattern *regexp.Regexp
	Stats   []statistic.Statistic
}

// TypeDefaults gives the specified statistic set for each metric type
// when no pattern override matches.
type TypeDefaults struct {
	Counter []statistic.Statistic
	Gauge   []statistic.Statistic
	Timer   []statistic.Statistic
}

func (d TypeDefaults) forType(t model.Type) []statistic.Statistic {
	switch t {
	case model.Counter:
		return d.Counter
	case model.Timer:
		return d.Timer
	default:
		return d.Gauge
	}
}

// Config configures an Aggregator.
type Config struct {
	Periods               []time.Duration
	TypeDefaults          TypeDefaults
	PatternStatistics     []PatternOverride
	LatenessHorizon       time.Duration
	CloseDelay            time.Duration
	WorkerMailboxCapacity int
	ShutdownGrace         time.Duration
}

// Aggregator is the front door: Observe(record) routes to per-key
// PeriodWorkers, one per configured period.
type Aggregator struct {
	cfg  Config
	sink worker.Sink

	mu           sync.Mutex
	keyedWorkers map[string][]*worker.PeriodWorker

	specifiedCache *lru.Cache
	dependentCache *lru.Cache

	dropLimiter *rate.Limiter
	invalidMu   sync.Mutex
	invalid     int64
}

// New builds an Aggregator. No worker goroutines are started until the
// first record for a key arrives.
func New(cfg Config, sink worker.Sink) (*Aggregator, error) {
	specCache, err := lru.New(statNameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("aggregator: specifiedForMetric cache: %w", err)
	}
	depCache, err := lru.New(statNameCacheSize)
	if err != nil {
		return nil, fmt.Errorf("aggregator: dependentForMetric cache: %w", err)
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}
	return &Aggregator{
		cfg:            cfg,
		sink:           sink,
		keyedWorkers:   make(map[string][]*worker.PeriodWorker),
		specifiedCache: specCache,
		dependentCache: depCache,
		dropLimiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

// Launch prepares the aggregator for use. No workers are started here;
// this exists to mirror the explicit launch/shutdown lifecycle pair
// used elsewhere in this codebase, and is a hook for future warm-up work.
func (a *Aggregator) Launch() {}

// Observe routes every quantity of every metric in r to the
// PeriodWorkers for its key, creating them on first reference
// (compute-if-absent, safe for concurrent callers). r may batch several
// metrics, and each metric several quantities, sharing one dimension
// set and timestamp. A non-finite quantity is a per-sample validation
// failure: only that quantity is dropped (incrementing the counter
// Stats reports), the rest of the batch is still routed, and Observe
// itself only fails when the Record as a whole is malformed (e.g. no
// metrics at all).
func (a *Aggregator) Observe(r model.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	key := r.Key()
	var workers []*worker.PeriodWorker
	for name, metric := range r.Metrics {
		for _, q := range metric.Values {
			if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) {
				a.dropInvalid(name, q.Value)
				continue
			}
			if workers == nil {
				workers = a.getOrCreateWorkers(key)
			}
			for _, w := range workers {
				w.Send(r, name, metric.Type, q)
			}
		}
	}
	return nil
}

func (a *Aggregator) dropInvalid(metricName string, value float64) {
	a.invalidMu.Lock()
	a.invalid++
	a.invalidMu.Unlock()
	if a.dropLimiter.Allow() {
		log.Printf("aggregator: non-finite value %v for metric %q, dropping sample", value, metricName)
	}
}

// Stats reports the number of samples dropped so far for carrying a
// non-finite value, mirroring PeriodWorker.Stats()'s drop counters.
func (a *Aggregator) Stats() (invalid int64) {
	a.invalidMu.Lock()
	defer a.invalidMu.Unlock()
	return a.invalid
}

func (a *Aggregator) getOrCreateWorkers(key model.Key) []*worker.PeriodWorker {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ws, ok := a.keyedWorkers[key.ID()]; ok {
		return ws
	}

	ws := make([]*worker.PeriodWorker, 0, len(a.cfg.Periods))
	for _, period := range a.cfg.Periods {
		w := worker.New(key, worker.Config{
			Period:          period,
			LatenessHorizon: a.cfg.LatenessHorizon,
			CloseDelay:      a.cfg.CloseDelay,
			MailboxCapacity: a.cfg.WorkerMailboxCapacity,
		}, a.sink, a.buildBucket(key))
		w.Start()
		ws = append(ws, w)
	}
	a.keyedWorkers[key.ID()] = ws
	log.Printf("aggregator: spawned %d period workers for key %s", len(ws), key.ID())
	return ws
}

func (a *Aggregator) buildBucket(key model.Key) worker.BucketBuilder {
	return func(k model.Key, periodStart time.Time, period time.Duration) *bucket.Bucket {
		return bucket.New(k, periodStart, period, a)
	}
}

// SpecifiedFor implements bucket.StatisticSet, resolving the specified
// statistic set for a metric name via pattern override (first match
// wins, insertion order) falling back to type defaults.
func (a *Aggregator) SpecifiedFor(metricName string, metricType model.Type) []statistic.Statistic {
	if cached, ok := a.specifiedCache.Get(metricName); ok {
		return cached.([]statistic.Statistic)
	}
	stats := a.resolveSpecified(metricName, metricType)
	a.specifiedCache.Add(metricName, stats)
	return stats
}

func (a *Aggregator) resolveSpecified(metricName string, metricType model.Type) []statistic.Statistic {
	for _, override := range a.cfg.PatternStatistics {
		if fullMatch(override.Pattern, metricName) {
			return override.Stats
		}
	}
	return a.cfg.TypeDefaults.forType(metricType)
}

// fullMatch reports whether re matches the entirety of s, the same
// contract as Java's Pattern.matcher(s).matches() that
// Aggregator.java's pattern-statistics resolution relies on.
// regexp.MatchString only requires a substring match, which would let
// an override like "cpu" also apply to "cpu.load" or "vcpu". The pattern
// is re-anchored rather than checking FindStringIndex's span, because a
// leftmost-first scan can stop short of a full match ("a|ab" on "ab").
func fullMatch(re *regexp.Regexp, s string) bool {
	anchored, err := regexp.Compile(`^(?:` + re.String() + `)$`)
	if err != nil {
		return false
	}
	return anchored.MatchString(s)
}

// DependentFor implements bucket.StatisticSet: the transitive dependency
// closure of the specified set, excluding the specified set itself.
func (a *Aggregator) DependentFor(metricName string, metricType model.Type) []statistic.Statistic {
	if cached, ok := a.dependentCache.Get(metricName); ok {
		return cached.([]statistic.Statistic)
	}
	deps := statistic.Closure(a.SpecifiedFor(metricName, metricType))
	a.dependentCache.Add(metricName, deps)
	return deps
}

// Shutdown signals every worker to close, waiting up to the configured
// grace period before abandoning stragglers.
func (a *Aggregator) Shutdown() {
	a.mu.Lock()
	all := make([]*worker.PeriodWorker, 0)
	for _, ws := range a.keyedWorkers {
		all = append(all, ws...)
	}
	a.mu.Unlock()

	var wg sync.WaitGroup
	for _, w := range all {
		wg.Add(1)
		go func(w *worker.PeriodWorker) {
			defer wg.Done()
			w.Shutdown(a.cfg.ShutdownGrace)
		}(w)
	}
	wg.Wait()
}
