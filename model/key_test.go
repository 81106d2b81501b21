package model

import "testing"

func Test_NewKey_OrderIndependent(t *testing.T) {
	a := NewKey(map[string]string{"host": "a", "service": "web"})
	b := NewKey(map[string]string{"service": "web", "host": "a"})
	if a.ID() != b.ID() {
		t.Errorf("expected equal canonical IDs, got %q vs %q", a.ID(), b.ID())
	}
}

func Test_NewKey_DifferentContent(t *testing.T) {
	a := NewKey(map[string]string{"host": "a"})
	b := NewKey(map[string]string{"host": "b"})
	if a.ID() == b.ID() {
		t.Errorf("expected different canonical IDs for different content")
	}
}

func Test_NewKey_CopiesInput(t *testing.T) {
	dims := map[string]string{"host": "a"}
	k := NewKey(dims)
	dims["host"] = "b"
	if k.Dimensions()["host"] != "a" {
		t.Errorf("Key must not be affected by later mutation of the input map")
	}
}
