// Package quantity holds the scalar value/unit pair that flows through
// every accumulator and calculator, plus the small unit-conversion table
// that lets two quantities in the same family (e.g. both durations) be
// combined even when recorded in different units.
package quantity

import "fmt"

// Unit is a named member of a conversion family. Converting between two
// Units of different families fails; within a family, Convert scales
// through each Unit's factor relative to the family's base unit (the
// member whose factor is 1).
type Unit struct {
	name   string
	family string
	factor float64
}

func (u Unit) String() string { return u.name }

// Family reports which conversion family a Unit belongs to, e.g. "data"
// or "time". Units with an empty family only convert to themselves.
func (u Unit) Family() string { return u.family }

// Convert returns value, expressed in the given fromUnit, rescaled to u.
// It fails if the two units are not members of the same family.
func (u Unit) Convert(value float64, from Unit) (float64, error) {
	if u == from {
		return value, nil
	}
	if u.family != from.family || u.family == "" {
		return 0, fmt.Errorf("quantity: cannot convert %q to %q: incompatible units", from, u)
	}
	return value * from.factor / u.factor, nil
}

// Data units, base BYTE.
var (
	Byte     = Unit{"byte", "data", 1}
	Kilobyte = Unit{"kilobyte", "data", 1 << 10}
	Megabyte = Unit{"megabyte", "data", 1 << 20}
	Gigabyte = Unit{"gigabyte", "data", 1 << 30}
	Terabyte = Unit{"terabyte", "data", 1 << 40}
)

// Time units, base SECOND.
var (
	Nanosecond  = Unit{"nanosecond", "time", 1e-9}
	Microsecond = Unit{"microsecond", "time", 1e-6}
	Millisecond = Unit{"millisecond", "time", 1e-3}
	Second      = Unit{"second", "time", 1}
	Minute      = Unit{"minute", "time", 60}
	Hour        = Unit{"hour", "time", 3600}
	Day         = Unit{"day", "time", 86400}
)

// byName resolves a Unit by its wire/config name, for ParseUnit.
var byName = map[string]Unit{
	Byte.name: Byte, Kilobyte.name: Kilobyte, Megabyte.name: Megabyte,
	Gigabyte.name: Gigabyte, Terabyte.name: Terabyte,
	Nanosecond.name: Nanosecond, Microsecond.name: Microsecond,
	Millisecond.name: Millisecond, Second.name: Second, Minute.name: Minute,
	Hour.name: Hour, Day.name: Day,
}

// ParseUnit looks up a Unit by name. An empty name is not an error; it
// returns (Unit{}, false) to signal "no unit".
func ParseUnit(name string) (Unit, bool) {
	if name == "" {
		return Unit{}, false
	}
	u, ok := byName[name]
	return u, ok
}
