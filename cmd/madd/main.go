// Command madd runs the metrics aggregation daemon: it loads a TOML
// config, wires the statistic registry, sink, and aggregator, and blocks
// waiting for a termination signal. The flag parsing, log prefixing, and
// SIGINT/SIGTERM signal loop follow daemon.go's Init(), minus the
// graceful-restart/re-exec and socket-passing machinery (network
// ingestion is an explicit non-goal of the core this daemon wraps).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tsaggregate/mad/aggregator"
	"github.com/tsaggregate/mad/config"
	"github.com/tsaggregate/mad/selfmetrics"
	"github.com/tsaggregate/mad/sink"
	"github.com/tsaggregate/mad/statistic"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	log.SetPrefix(fmt.Sprintf("[%d] ", os.Getpid()))
	log.Printf("madd starting.")

	cfgPath := flag.String("c", "./etc/mad.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Error in config file %s: %v", *cfgPath, err)
	}

	registry := statistic.NewRegistry()
	agCfg, err := cfg.Resolve(registry)
	if err != nil {
		log.Fatalf("Error resolving statistics from config: %v", err)
	}

	logSink := sink.NewLogSink("madd")

	agg, err := aggregator.New(agCfg, logSink)
	if err != nil {
		log.Fatalf("Error constructing aggregator: %v", err)
	}
	agg.Launch()
	log.Printf("madd: aggregator ready with %d periods.", len(agCfg.Periods))

	selfReporter, err := selfmetrics.NewReporter(agg, cfg.SelfMetricsInterval.Duration)
	if err != nil {
		log.Printf("madd: self-metrics disabled: %v", err)
	} else {
		selfReporter.Start()
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Printf("Got signal: %v", s)

	if selfReporter != nil {
		selfReporter.Stop()
	}

	log.Printf("madd: shutting down...")
	agg.Shutdown()
	log.Printf("madd: all workers finished, exiting.")
}
