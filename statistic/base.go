package statistic

import (
	"errors"

	"github.com/tsaggregate/mad/quantity"
)

// ErrInconsistentUnit is returned when a sample's unit cannot be
// reconciled with the unit an accumulator has already committed to.
var ErrInconsistentUnit = errors.New("statistic: inconsistent unit")

// unitTracker centralizes the "first observed unit wins, later samples
// must agree or be convertible" rule shared by min/max/sum/histogram.
type unitTracker struct {
	unit quantity.Unit
	set  bool
}

// reconcile converts q into the tracker's committed unit, latching the
// unit on the first call. Returns ErrInconsistentUnit if q's unit is
// incompatible with the committed one.
func (t *unitTracker) reconcile(q quantity.Quantity) (quantity.Quantity, error) {
	if !t.set {
		if q.HasUnit() {
			t.unit = q.Unit
		}
		t.set = true
		return q, nil
	}
	out, err := q.ConvertTo(t.unit)
	if err != nil {
		return quantity.Quantity{}, ErrInconsistentUnit
	}
	return out, nil
}

// quantityOf attaches the tracker's committed unit (if any) to a bare
// float64, for statistics like min/max/sum that keep their own running
// value outside of a Quantity.
func (t *unitTracker) quantityOf(value float64) quantity.Quantity {
	if !t.set || (t.unit == quantity.Unit{}) {
		return quantity.New(value)
	}
	return quantity.NewWithUnit(value, t.unit)
}
