package statistic

import (
	"testing"

	"github.com/tsaggregate/mad/quantity"
)

func Test_MaxAccumulator(t *testing.T) {
	acc := Max.NewAccumulator()
	for _, v := range []float64{12, 18, 5} {
		if err := acc.Accumulate(quantity.New(v)); err != nil {
			t.Fatalf("Accumulate: %v", err)
		}
	}
	cv, err := acc.Calculate(nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if cv.Value.Value != 18.0 {
		t.Errorf("max = %v, want 18", cv.Value.Value)
	}
}

func Test_MinAccumulator(t *testing.T) {
	acc := Min.NewAccumulator()
	for _, v := range []float64{12, 18, 5} {
		acc.Accumulate(quantity.New(v))
	}
	cv, _ := acc.Calculate(nil)
	if cv.Value.Value != 5.0 {
		t.Errorf("min = %v, want 5", cv.Value.Value)
	}
}

func Test_SumCountMeanConsistency(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	sumAcc := Sum.NewAccumulator()
	countAcc := Count.NewAccumulator()
	for _, v := range values {
		sumAcc.Accumulate(quantity.New(v))
		countAcc.Accumulate(quantity.New(v))
	}

	deps := Dependencies{Sum.Name(): sumAcc, Count.Name(): countAcc}
	meanAcc := Mean.NewAccumulator()
	cv, err := meanAcc.Calculate(deps)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	sumVal, _ := sumAcc.Calculate(nil)
	countVal, _ := countAcc.Calculate(nil)
	want := sumVal.Value.Value / countVal.Value.Value
	if cv.Value.Value != want {
		t.Errorf("mean = %v, want %v", cv.Value.Value, want)
	}
}

func Test_UnitMismatch_Rejected(t *testing.T) {
	acc := Sum.NewAccumulator()
	if err := acc.Accumulate(quantity.NewWithUnit(1, quantity.Byte)); err != nil {
		t.Fatalf("first Accumulate: %v", err)
	}
	if err := acc.Accumulate(quantity.NewWithUnit(1, quantity.Second)); err != ErrInconsistentUnit {
		t.Errorf("expected ErrInconsistentUnit, got %v", err)
	}
}

func Test_UnitReconciliation_SameFamilyConverts(t *testing.T) {
	acc := Sum.NewAccumulator()
	acc.Accumulate(quantity.NewWithUnit(1, quantity.Kilobyte))
	acc.Accumulate(quantity.NewWithUnit(1024, quantity.Byte))
	cv, _ := acc.Calculate(nil)
	if cv.Value.Value != 2 || cv.Value.Unit != quantity.Kilobyte {
		t.Errorf("sum = %v %v, want 2 kilobytes", cv.Value.Value, cv.Value.Unit)
	}
}
