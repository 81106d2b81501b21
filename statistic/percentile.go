package statistic

import (
	"fmt"

	"github.com/tsaggregate/mad/quantity"
)

// percentileStatistic is a parametric statistic created on demand by the
// Registry for names of the form "tp<percentile>".
type percentileStatistic struct {
	name       string
	percentile float64
}

func newPercentileStatistic(name string, percentile float64) Statistic {
	return &percentileStatistic{name: name, percentile: percentile}
}

func (s *percentileStatistic) Name() string { return s.name }

func (s *percentileStatistic) NewAccumulator() Accumulator {
	return &percentileAccumulator{percentile: s.percentile}
}

func (s *percentileStatistic) Dependencies() []Statistic { return []Statistic{Histogram} }

// percentileAccumulator never ingests samples directly; it reads the
// histogram dependency's snapshot at Calculate time (the tpN contract).
type percentileAccumulator struct {
	percentile float64
}

func (a *percentileAccumulator) Accumulate(quantity.Quantity) error    { return nil }
func (a *percentileAccumulator) AccumulateValue(CalculatedValue) error { return nil }

func (a *percentileAccumulator) Calculate(deps Dependencies) (CalculatedValue, error) {
	histCalc, ok := deps[Histogram.Name()]
	if !ok {
		return CalculatedValue{}, fmt.Errorf("statistic: percentile requires %q dependency", Histogram.Name())
	}
	histVal, err := histCalc.Calculate(nil)
	if err != nil {
		return CalculatedValue{}, err
	}
	supporting, ok := histVal.Data.(HistogramSupportingData)
	if !ok {
		return CalculatedValue{}, fmt.Errorf("statistic: histogram dependency produced no supporting data")
	}
	result := supporting.Snapshot.ValueAtPercentile(a.percentile)
	value := quantity.New(result)
	if supporting.Unit != (quantity.Unit{}) {
		value = quantity.NewWithUnit(result, supporting.Unit)
	}
	return CalculatedValue{Value: value}, nil
}
