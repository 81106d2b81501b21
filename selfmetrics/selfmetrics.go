// Package selfmetrics periodically samples the daemon's own process
// statistics and feeds them back into the Aggregator as GAUGE records,
// so operators can monitor the aggregator with the aggregator. Follows
// receiver/pacedmetric.go's reportPacedMetricChannelFillPercent/
// pacedMetricWorker shape: a ticker loop that samples a resource and
// calls back into a statReporter-shaped interface.
package selfmetrics

import (
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/tsaggregate/mad/model"
	"github.com/tsaggregate/mad/quantity"
)

// Observer is the subset of Aggregator that self-metrics reporting
// needs: the ability to push a Record back into the pipeline.
type Observer interface {
	Observe(r model.Record) error
}

// Reporter periodically samples process CPU, RSS, and goroutine count
// and observes them as GAUGE records under the "mad.self." namespace.
type Reporter struct {
	observer Observer
	interval time.Duration
	proc     *process.Process
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewReporter builds a Reporter for the current process. interval
// defaults to 10s when zero.
func NewReporter(observer Observer, interval time.Duration) (*Reporter, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Reporter{
		observer: observer,
		interval: interval,
		proc:     proc,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start launches the sampling loop in its own goroutine.
func (r *Reporter) Start() {
	r.wg.Add(1)
	go r.run()
}

// Stop signals the sampling loop to exit and waits for it to finish.
func (r *Reporter) Stop() {
	close(r.stopCh)
	r.wg.Wait()
}

func (r *Reporter) run() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sample()
		case <-r.stopCh:
			return
		}
	}
}

// sample gathers CPU, RSS, and goroutine count into one batched Record
// and observes it in a single call, rather than three independent ones.
func (r *Reporter) sample() {
	now := time.Now()
	metrics := make(map[string]model.Metric, 3)

	if cpuPct, err := r.proc.CPUPercent(); err == nil {
		metrics["mad.self.cpu_percent"] = gauge(cpuPct, quantity.Unit{})
	} else {
		log.Printf("selfmetrics: cpu sample failed: %v", err)
	}

	if memInfo, err := r.proc.MemoryInfo(); err == nil {
		metrics["mad.self.rss"] = gauge(float64(memInfo.RSS), quantity.Byte)
	} else {
		log.Printf("selfmetrics: memory sample failed: %v", err)
	}

	metrics["mad.self.goroutines"] = gauge(float64(runtime.NumGoroutine()), quantity.Unit{})

	if len(metrics) == 0 {
		return
	}
	rec := model.Record{Metrics: metrics, Timestamp: now}
	if err := r.observer.Observe(rec); err != nil {
		log.Printf("selfmetrics: observe failed: %v", err)
	}
}

func gauge(value float64, unit quantity.Unit) model.Metric {
	q := quantity.New(value)
	if unit != (quantity.Unit{}) {
		q = quantity.NewWithUnit(value, unit)
	}
	return model.Metric{Type: model.Gauge, Values: []quantity.Quantity{q}}
}
