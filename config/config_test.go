package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tsaggregate/mad/statistic"
)

const sampleTOML = `
periods = ["1m", "5m"]
counter-statistics = ["sum", "count"]
gauge-statistics = ["max", "min"]
timer-statistics = ["tp99", "tp50"]
worker-mailbox-capacity = 2048

[[pattern-statistics]]
pattern = "^latency\\..*"
statistics = ["tp99.9"]
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mad.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func Test_Load_Defaults(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(c.Periods))
	}
	if c.LatenessHorizon.Duration != 10*time.Minute {
		t.Errorf("LatenessHorizon default = %v, want 10m (2x max period)", c.LatenessHorizon.Duration)
	}
	if c.WorkerMailboxCapacity != 2048 {
		t.Errorf("WorkerMailboxCapacity = %d, want 2048", c.WorkerMailboxCapacity)
	}
}

func Test_Load_MissingPeriods(t *testing.T) {
	path := writeTemp(t, `counter-statistics = ["sum"]`)
	if _, err := Load(path); err == nil {
		t.Errorf("expected error when periods is missing")
	}
}

func Test_Resolve_CloseDelayLeftZeroForPerWorkerDefault(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	registry := statistic.NewRegistry()
	agCfg, err := c.Resolve(registry)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// sampleTOML sets no close-delay; periods are 1m and 5m. The resolved
	// CloseDelay must stay zero so each PeriodWorker falls back to its
	// own Period, rather than baking a delay off the first period.
	if agCfg.CloseDelay != 0 {
		t.Errorf("CloseDelay = %v, want 0 (per-worker default)", agCfg.CloseDelay)
	}
}

func Test_Resolve_PatternOverrideCompiled(t *testing.T) {
	path := writeTemp(t, sampleTOML)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	registry := statistic.NewRegistry()
	agCfg, err := c.Resolve(registry)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(agCfg.PatternStatistics) != 1 {
		t.Fatalf("expected 1 pattern override, got %d", len(agCfg.PatternStatistics))
	}
	if !agCfg.PatternStatistics[0].Pattern.MatchString("latency.p99") {
		t.Errorf("expected compiled pattern to match latency.p99")
	}
	if len(agCfg.TypeDefaults.Gauge) != 2 {
		t.Errorf("expected 2 gauge defaults, got %d", len(agCfg.TypeDefaults.Gauge))
	}
}
