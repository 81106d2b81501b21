// Package config loads the daemon's TOML configuration file, following
// the trConfig-style flat struct with custom UnmarshalText types for
// durations and regexes, and an ordered array-of-tables for
// per-metric-name pattern overrides (the `ds` array of trDSSpec becomes
// `pattern-statistics` here).
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// duration decodes a TOML string like "1m" or "30s" via
// time.ParseDuration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// regex decodes a TOML string into a compiled *regexp.Regexp.
type regex struct {
	*regexp.Regexp
	Text string
}

func (r *regex) UnmarshalText(text []byte) error {
	var err error
	r.Text = string(text)
	r.Regexp, err = regexp.Compile(string(text))
	return err
}

// patternOverride is one entry of the ordered `[[pattern-statistics]]`
// array-of-tables: a regex and the specified statistic names it selects.
// Insertion order is preserved by BurntSushi/toml and used for
// first-match resolution.
type patternOverride struct {
	Pattern    regex    `toml:"pattern"`
	Statistics []string `toml:"statistics"`
}

// Config is the daemon's top-level configuration.
type Config struct {
	Periods               []duration        `toml:"periods"`
	CounterStatistics     []string          `toml:"counter-statistics"`
	GaugeStatistics       []string          `toml:"gauge-statistics"`
	TimerStatistics       []string          `toml:"timer-statistics"`
	PatternStatistics     []patternOverride `toml:"pattern-statistics"`
	LatenessHorizon       duration          `toml:"lateness-horizon"`
	CloseDelay            duration          `toml:"close-delay"`
	WorkerMailboxCapacity int               `toml:"worker-mailbox-capacity"`
	LogPath               string            `toml:"log-file"`
	SelfMetricsInterval   duration          `toml:"self-metrics-interval"`
}

// Load reads and decodes a TOML config file at path.
func Load(path string) (*Config, error) {
	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyDefaults fills in the documented defaults for anything left
// unset, following the processX validators that reject empty required
// fields and log the effective value.
func (c *Config) applyDefaults() error {
	if len(c.Periods) == 0 {
		return fmt.Errorf("config: periods missing, must specify at least one")
	}
	maxPeriod := c.Periods[0].Duration
	for _, p := range c.Periods {
		if p.Duration > maxPeriod {
			maxPeriod = p.Duration
		}
	}
	if c.LatenessHorizon.Duration == 0 {
		c.LatenessHorizon.Duration = 2 * maxPeriod
	}
	if c.WorkerMailboxCapacity == 0 {
		c.WorkerMailboxCapacity = 1024
	}
	return nil
}

// PeriodDurations returns the configured periods as time.Duration.
func (c *Config) PeriodDurations() []time.Duration {
	out := make([]time.Duration, len(c.Periods))
	for i, d := range c.Periods {
		out[i] = d.Duration
	}
	return out
}
