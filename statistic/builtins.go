package statistic

import (
	"fmt"

	"github.com/tsaggregate/mad/quantity"
)

// baseStatistic is the common Statistic implementation for the built-ins;
// depends lists a statistic's own dependencies (only mean has any).
type baseStatistic struct {
	name    string
	newAcc  func() Accumulator
	depends []Statistic
}

func (s *baseStatistic) Name() string               { return s.name }
func (s *baseStatistic) NewAccumulator() Accumulator { return s.newAcc() }
func (s *baseStatistic) Dependencies() []Statistic   { return s.depends }

// Min follows aggregator/aggregator.go's running-min tracking,
// generalized from int64 statsd counters to unit-aware Quantities.
var Min Statistic = &baseStatistic{name: "min", newAcc: func() Accumulator { return &minMaxAccumulator{isMax: false} }}

// Max mirrors Min.
var Max Statistic = &baseStatistic{name: "max", newAcc: func() Accumulator { return &minMaxAccumulator{isMax: true} }}

// Sum accumulates a running total.
var Sum Statistic = &baseStatistic{name: "sum", newAcc: func() Accumulator { return &sumAccumulator{} }}

// Count tracks the number of samples observed, unitless.
var Count Statistic = &baseStatistic{name: "count", newAcc: func() Accumulator { return &countAccumulator{} }}

// Mean is dependency-only: it never accumulates its own samples,
// deriving its value at Calculate time from sum and count.
var Mean Statistic = &baseStatistic{
	name:    "mean",
	newAcc:  func() Accumulator { return &meanAccumulator{} },
	depends: []Statistic{Sum, Count},
}

type minMaxAccumulator struct {
	isMax   bool
	tracker unitTracker
	value   float64
	seen    bool
}

func (a *minMaxAccumulator) Accumulate(q quantity.Quantity) error {
	q, err := a.tracker.reconcile(q)
	if err != nil {
		return err
	}
	if !a.seen || (a.isMax && q.Value > a.value) || (!a.isMax && q.Value < a.value) {
		a.value = q.Value
		a.seen = true
	}
	return nil
}

func (a *minMaxAccumulator) AccumulateValue(v CalculatedValue) error { return a.Accumulate(v.Value) }

func (a *minMaxAccumulator) Calculate(Dependencies) (CalculatedValue, error) {
	return CalculatedValue{Value: a.tracker.quantityOf(a.value)}, nil
}

type sumAccumulator struct {
	tracker unitTracker
	total   float64
}

func (a *sumAccumulator) Accumulate(q quantity.Quantity) error {
	q, err := a.tracker.reconcile(q)
	if err != nil {
		return err
	}
	a.total += q.Value
	return nil
}

func (a *sumAccumulator) AccumulateValue(v CalculatedValue) error { return a.Accumulate(v.Value) }

func (a *sumAccumulator) Calculate(Dependencies) (CalculatedValue, error) {
	return CalculatedValue{Value: a.tracker.quantityOf(a.total)}, nil
}

type countAccumulator struct {
	n int64
}

func (a *countAccumulator) Accumulate(quantity.Quantity) error {
	a.n++
	return nil
}

func (a *countAccumulator) AccumulateValue(v CalculatedValue) error {
	a.n += int64(v.Value.Value)
	return nil
}

func (a *countAccumulator) Calculate(Dependencies) (CalculatedValue, error) {
	return CalculatedValue{Value: quantity.New(float64(a.n))}, nil
}

// meanAccumulator is a thin pass-through: Accumulate/AccumulateValue are
// no-ops, and Calculate delegates entirely to its sum/count dependencies.
type meanAccumulator struct{}

func (a *meanAccumulator) Accumulate(quantity.Quantity) error    { return nil }
func (a *meanAccumulator) AccumulateValue(CalculatedValue) error { return nil }

func (a *meanAccumulator) Calculate(deps Dependencies) (CalculatedValue, error) {
	sumCalc, ok := deps[Sum.Name()]
	if !ok {
		return CalculatedValue{}, fmt.Errorf("statistic: mean requires %q dependency", Sum.Name())
	}
	countCalc, ok := deps[Count.Name()]
	if !ok {
		return CalculatedValue{}, fmt.Errorf("statistic: mean requires %q dependency", Count.Name())
	}
	sumVal, err := sumCalc.Calculate(nil)
	if err != nil {
		return CalculatedValue{}, err
	}
	countVal, err := countCalc.Calculate(nil)
	if err != nil {
		return CalculatedValue{}, err
	}
	var mean float64
	if countVal.Value.Value != 0 {
		mean = sumVal.Value.Value / countVal.Value.Value
	}
	if sumVal.Value.HasUnit() {
		return CalculatedValue{Value: quantity.NewWithUnit(mean, sumVal.Value.Unit)}, nil
	}
	return CalculatedValue{Value: quantity.New(mean)}, nil
}
