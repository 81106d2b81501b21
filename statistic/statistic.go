// Package statistic implements the algebra of statistics: named,
// dependency-aware operations that turn a stream of quantities into a
// CalculatedValue. It mirrors aggregator/aggregator.go's accumulate/flush
// shape, and follows tsdcore.statistics's dependency-injection protocol:
// a statistic receives its dependencies' Calculator instances, not their
// bare values.
package statistic

import "github.com/tsaggregate/mad/quantity"

// CalculatedValue is the result of a Calculator's Calculate call: a
// Quantity plus optional statistic-specific supporting data (e.g. a
// histogram snapshot for percentile consumers).
type CalculatedValue struct {
	Value quantity.Quantity
	Data  interface{}
}

// Dependencies maps a dependency Statistic's name to its Calculator
// instance from the same bucket, as required by the dependency-injection
// contract: dependents receive calculators, not flattened values.
type Dependencies map[string]Calculator

// Calculator produces a CalculatedValue from its own state plus the
// CalculatorInstances of its declared dependencies.
type Calculator interface {
	Calculate(deps Dependencies) (CalculatedValue, error)
}

// Accumulator extends Calculator with the two sample-ingestion paths: a
// freshly observed Quantity, or a precomputed CalculatedValue merged in
// from an upstream aggregator.
type Accumulator interface {
	Calculator
	Accumulate(q quantity.Quantity) error
	AccumulateValue(v CalculatedValue) error
}

// Statistic is a named, registry-addressable operation. Two Registry
// lookups of the same name return the same Statistic instance; identity
// is by name.
type Statistic interface {
	Name() string
	NewAccumulator() Accumulator
	Dependencies() []Statistic
}
