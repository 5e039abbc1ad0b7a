package catalog

import "testing"

func TestParseDirectiveAlphabet(t *testing.T) {
	cases := []struct {
		r    rune
		want Directive
	}{
		{'0', DriveLow},
		{'1', DriveHigh},
		{'H', ExpectHigh},
		{'L', ExpectLow},
		{'V', Rail},
		{'G', Ground},
		{'C', PulseRising},
		{'c', PulseFalling},
		{'X', Ignore},
	}
	for _, tc := range cases {
		d, ok := ParseDirective(tc.r)
		if !ok || d != tc.want {
			t.Fatalf("ParseDirective(%q) = %s,%v, want %s", tc.r, d, ok, tc.want)
		}
		if d.Rune() != tc.r {
			t.Fatalf("%s.Rune() = %q, want %q", d, d.Rune(), tc.r)
		}
	}

	for _, r := range []rune{'Z', 'h', 'l', 'v', 'g', 'x', '2', ' '} {
		if _, ok := ParseDirective(r); ok {
			t.Fatalf("ParseDirective(%q) accepted a character outside the alphabet", r)
		}
	}
}

func TestHasPulse(t *testing.T) {
	if !ParseVector("0C", 2).HasPulse() {
		t.Fatal("rising pulse not detected")
	}
	if !ParseVector("c1", 2).HasPulse() {
		t.Fatal("falling pulse not detected")
	}
	if ParseVector("0H1LVGX", 7).HasPulse() {
		t.Fatal("pulse reported for a static vector")
	}
}
