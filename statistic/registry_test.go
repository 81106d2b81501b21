package statistic

import "testing"

func Test_Registry_BuiltinLookup(t *testing.T) {
	r := NewRegistry()
	s, err := r.Lookup("max")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Name() != "max" {
		t.Errorf("Name() = %q, want max", s.Name())
	}
}

func Test_Registry_PercentileIdentity(t *testing.T) {
	r := NewRegistry()
	a, err := r.Lookup("tp99")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	b, err := r.Lookup("tp99")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a != b {
		t.Errorf("expected same Statistic instance across lookups")
	}
}

func Test_Registry_ParametricPercentile(t *testing.T) {
	r := NewRegistry()
	s, err := r.Lookup("tp99.9")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	deps := s.Dependencies()
	if len(deps) != 1 || deps[0].Name() != "histogram" {
		t.Errorf("expected tp99.9 to depend on histogram, got %v", deps)
	}
}

func Test_Registry_UnknownName(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup("bogus"); err == nil {
		t.Errorf("expected error for unknown statistic name")
	}
}

func Test_Closure_ExcludesSpecified(t *testing.T) {
	tp99, err := NewRegistry().Lookup("tp99")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	closure := Closure([]Statistic{tp99})
	if len(closure) != 1 || closure[0].Name() != "histogram" {
		t.Errorf("Closure(tp99) = %v, want [histogram]", closure)
	}

	closureWithHist := Closure([]Statistic{tp99, Histogram})
	if len(closureWithHist) != 0 {
		t.Errorf("Closure should exclude already-specified histogram, got %v", closureWithHist)
	}
}
