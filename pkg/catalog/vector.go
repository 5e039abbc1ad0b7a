package catalog

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord flags a record whose frame cannot be decoded: an
// undecodable pin-count field, an over-long name, or stray characters where
// a separator was expected.
var ErrMalformedRecord = errors.New("catalog: malformed record")

// ErrMalformedVector flags a vector row containing a character outside the
// directive alphabet, or one whose length does not match the record's pin
// count. The error is attached to the vector and surfaces when the vector is
// about to execute, so one bad row aborts only its own record.
var ErrMalformedVector = errors.New("catalog: malformed vector")

// TestVector is one row of per-pin directives, pin 1 first.
type TestVector struct {
	Ops []Directive

	err error
}

// ParseVector decodes a row of vector characters for a part with the given
// pin count. A malformed row is still returned, carrying its error for
// Check to report.
func ParseVector(row string, pins int) TestVector {
	runes := []rune(row)
	v := TestVector{Ops: make([]Directive, 0, pins)}

	for i, r := range runes {
		d, ok := ParseDirective(r)
		if !ok {
			if v.err == nil {
				v.err = fmt.Errorf("%w: unknown directive %q at pin %d", ErrMalformedVector, r, i+1)
			}
			d = Ignore
		}
		v.Ops = append(v.Ops, d)
	}

	if v.err == nil && len(runes) != pins {
		v.err = fmt.Errorf("%w: row is %d directives, want %d", ErrMalformedVector, len(runes), pins)
	}
	return v
}

// Check returns the decode error carried by the vector, if any.
func (v TestVector) Check() error {
	return v.err
}

// HasPulse reports whether the vector contains any clock-pulse directive.
// Vectors without pulses skip the pulse phase entirely.
func (v TestVector) HasPulse() bool {
	for _, d := range v.Ops {
		if d == PulseRising || d == PulseFalling {
			return true
		}
	}
	return false
}

// String renders the vector back into its catalog characters.
func (v TestVector) String() string {
	runes := make([]rune, len(v.Ops))
	for i, d := range v.Ops {
		runes[i] = d.Rune()
	}
	return string(runes)
}

// ChipRecord is one catalog entry: a part name, its package pin count, and
// the ordered test vectors for it. Records are immutable once compiled.
type ChipRecord struct {
	Name    string
	Pins    int
	Vectors []TestVector
}
