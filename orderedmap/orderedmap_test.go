package orderedmap

import (
	"reflect"
	"testing"
)

func Test_Map_KeysAscending(t *testing.T) {
	m := New[float64, int32]()
	m.Set(3.0, 1)
	m.Set(1.0, 2)
	m.Set(2.0, 3)
	m.Set(-1.0, 4)

	got := m.Keys()
	want := []float64{-1.0, 1.0, 2.0, 3.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func Test_Map_DeleteInvalidatesOrder(t *testing.T) {
	m := New[int, string]()
	m.Set(1, "a")
	m.Set(2, "b")
	m.Keys() // populate cache
	m.Delete(1)
	got := m.Keys()
	want := []int{2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() after delete = %v, want %v", got, want)
	}
}

func Test_Map_Clone(t *testing.T) {
	a := New[int, int]()
	a.Set(1, 100)
	b := a.Clone()
	b.Set(2, 200)

	if a.Len() != 1 {
		t.Errorf("original map mutated by clone, len = %d", a.Len())
	}
	if b.Len() != 2 {
		t.Errorf("clone missing entries, len = %d", b.Len())
	}
}
