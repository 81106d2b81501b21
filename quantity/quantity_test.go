package quantity

import "testing"

func Test_Quantity_Equal(t *testing.T) {
	a := New(1.0)
	b := New(1.0)
	if !a.Equal(b) {
		t.Errorf("expected %v == %v", a, b)
	}

	c := NewWithUnit(1.0, Byte)
	if a.Equal(c) {
		t.Errorf("unitless and unit-bearing quantities must not be equal: %v == %v", a, c)
	}

	d := NewWithUnit(1.0, Kilobyte)
	if c.Equal(d) {
		t.Errorf("different units must not be equal: %v == %v", c, d)
	}
}

func Test_Unit_Convert(t *testing.T) {
	v, err := Byte.Convert(1, Kilobyte)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1024 {
		t.Errorf("1 kilobyte should be 1024 bytes, got %v", v)
	}

	if _, err := Byte.Convert(1, Second); err == nil {
		t.Errorf("expected error converting incompatible units")
	}
}

func Test_Quantity_ConvertTo(t *testing.T) {
	q := NewWithUnit(2, Minute)
	out, err := q.ConvertTo(Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Value != 120 {
		t.Errorf("expected 120 seconds, got %v", out.Value)
	}

	unitless := New(5)
	out, err = unitless.ConvertTo(Byte)
	if err != nil {
		t.Fatalf("unexpected error converting unitless quantity: %v", err)
	}
	if out.Value != 5 || out.Unit != Byte {
		t.Errorf("expected unitless quantity to adopt target unit verbatim, got %v", out)
	}
}
