package quantity

import "fmt"

// Quantity is a scalar value with an optional Unit. The zero value is a
// unitless zero, which is a legal Quantity.
type Quantity struct {
	Value   float64
	Unit    Unit
	hasUnit bool
}

// New returns a unitless Quantity.
func New(value float64) Quantity {
	return Quantity{Value: value}
}

// NewWithUnit returns a Quantity carrying the given Unit.
func NewWithUnit(value float64, unit Unit) Quantity {
	return Quantity{Value: value, Unit: unit, hasUnit: true}
}

// HasUnit reports whether this Quantity was recorded with a Unit.
func (q Quantity) HasUnit() bool { return q.hasUnit }

// Equal compares value and unit. Two unitless quantities with the same
// value are equal; a unitless and a unit-bearing quantity are never equal
// even if the values match.
func (q Quantity) Equal(other Quantity) bool {
	if q.hasUnit != other.hasUnit {
		return false
	}
	if q.hasUnit && q.Unit != other.Unit {
		return false
	}
	return q.Value == other.Value
}

// ConvertTo rescales q into the target unit. If q has no unit, ConvertTo
// is a no-op that just attaches the target unit to the value verbatim,
// matching the "first observed unit wins" contract used by accumulators.
func (q Quantity) ConvertTo(target Unit) (Quantity, error) {
	if !q.hasUnit {
		return NewWithUnit(q.Value, target), nil
	}
	v, err := target.Convert(q.Value, q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return NewWithUnit(v, target), nil
}

func (q Quantity) String() string {
	if !q.hasUnit {
		return fmt.Sprintf("%v", q.Value)
	}
	return fmt.Sprintf("%v %s", q.Value, q.Unit)
}
