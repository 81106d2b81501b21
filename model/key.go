package model

import (
	"sort"
	"strings"
)

// Key is the routing/sharding identity of a Record: the content of its
// dimension map. Two Keys built from the same dimension content compare
// and hash equal regardless of map iteration order, following
// serde.Ident.String()'s approach of turning a dimension identity into
// a canonical string once and using that string as the map key
// everywhere.
type Key struct {
	dims  map[string]string
	canon string
}

// NewKey builds a Key from a dimension map. The map is copied; later
// mutation of dims by the caller does not affect the Key.
func NewKey(dims map[string]string) Key {
	cp := make(map[string]string, len(dims))
	names := make([]string, 0, len(dims))
	for k, v := range dims {
		cp[k] = v
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(cp[name])
	}
	return Key{dims: cp, canon: b.String()}
}

// ID returns the canonical string identity of the Key, suitable for use as
// a map key in the aggregator's routing table.
func (k Key) ID() string { return k.canon }

// Dimensions returns a copy of the underlying dimension map.
func (k Key) Dimensions() map[string]string {
	cp := make(map[string]string, len(k.dims))
	for name, v := range k.dims {
		cp[name] = v
	}
	return cp
}

func (k Key) String() string { return k.canon }
