package catalog

import "fmt"

// Directive is one per-pin instruction/expectation within a test vector,
// decoded once at catalog load so the interpreter never re-parses characters.
type Directive uint8

const (
	// DriveLow holds the pin low for the whole vector ('0').
	DriveLow Directive = iota
	// DriveHigh holds the pin high for the whole vector ('1').
	DriveHigh
	// ExpectHigh samples the pin and requires a high level ('H').
	ExpectHigh
	// ExpectLow samples the pin and requires a low level ('L').
	ExpectLow
	// Rail ties the pin to the supply reference ('V').
	Rail
	// Ground ties the pin to ground, with the low-impedance override on the
	// distinguished positions ('G').
	Ground
	// PulseRising rests low and pulses high ('C').
	PulseRising
	// PulseFalling rests high and pulses low ('c').
	PulseFalling
	// Ignore leaves the pin untouched in every phase ('X').
	Ignore
)

var directiveNames = map[Directive]string{
	DriveLow:     "DriveLow",
	DriveHigh:    "DriveHigh",
	ExpectHigh:   "ExpectHigh",
	ExpectLow:    "ExpectLow",
	Rail:         "Rail",
	Ground:       "Ground",
	PulseRising:  "PulseRising",
	PulseFalling: "PulseFalling",
	Ignore:       "Ignore",
}

func (d Directive) String() string {
	if name, ok := directiveNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Directive(%d)", uint8(d))
}

var directiveRunes = map[rune]Directive{
	'0': DriveLow,
	'1': DriveHigh,
	'H': ExpectHigh,
	'L': ExpectLow,
	'V': Rail,
	'G': Ground,
	'C': PulseRising,
	'c': PulseFalling,
	'X': Ignore,
}

// ParseDirective maps a vector character onto its directive. Case is
// significant: 'C' pulses rising, 'c' pulses falling.
func ParseDirective(r rune) (Directive, bool) {
	d, ok := directiveRunes[r]
	return d, ok
}

// Rune returns the catalog character for a directive.
func (d Directive) Rune() rune {
	for r, dd := range directiveRunes {
		if dd == d {
			return r
		}
	}
	return '?'
}
