package statistic

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Registry resolves statistic names to Statistic instances, memoizing
// parametric percentile statistics so repeated lookups return the same
// instance (identity is by name). Mirrors dsCache's shape: a name-keyed
// map guarded by a single RWMutex, read-mostly.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Statistic
}

// NewRegistry returns a Registry pre-populated with the built-in
// statistics (min, max, sum, count, mean, histogram, and the standard
// tpN percentile family).
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Statistic)}
	for _, s := range []Statistic{Min, Max, Sum, Count, Mean, Histogram} {
		r.byName[s.Name()] = s
	}
	for _, p := range []float64{50, 75, 90, 95, 99, 99.9} {
		name := percentileName(p)
		r.byName[name] = newPercentileStatistic(name, p)
	}
	return r
}

// percentileName renders a percentile the way tpN configuration keys are
// spelled: "tp50", "tp99.9".
func percentileName(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	return "tp" + s
}

// Lookup resolves name to a Statistic, creating and memoizing a
// parametric percentile statistic on first reference to an unrecognized
// "tp<float>" name.
func (r *Registry) Lookup(name string) (Statistic, error) {
	r.mu.RLock()
	s, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	p, ok := parsePercentileName(name)
	if !ok {
		return nil, fmt.Errorf("statistic: unknown statistic %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	s = newPercentileStatistic(name, p)
	r.byName[name] = s
	return s, nil
}

func parsePercentileName(name string) (float64, bool) {
	if !strings.HasPrefix(name, "tp") {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.TrimPrefix(name, "tp"), 64)
	if err != nil || p <= 0 || p > 100 {
		return 0, false
	}
	return p, true
}

// Closure returns the transitive dependency closure of stats, excluding
// any statistic already present in stats itself (Aggregator's
// dependentForMetric derivation).
func Closure(stats []Statistic) []Statistic {
	specified := make(map[string]bool, len(stats))
	for _, s := range stats {
		specified[s.Name()] = true
	}

	seen := map[string]bool{}
	var out []Statistic
	var visit func(s Statistic)
	visit = func(s Statistic) {
		for _, d := range s.Dependencies() {
			if seen[d.Name()] {
				continue
			}
			seen[d.Name()] = true
			if !specified[d.Name()] {
				out = append(out, d)
			}
			visit(d)
		}
	}
	for _, s := range stats {
		visit(s)
	}
	return out
}
