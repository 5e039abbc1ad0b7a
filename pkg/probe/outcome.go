package probe

// PinMismatch records one failed expectation: the pin, the level the vector
// required, and the level that was read back.
type PinMismatch struct {
	Pin  int
	Want bool
	Got  bool
}

// Outcome is the result of executing one test vector. An empty mismatch set
// means the vector passed.
type Outcome struct {
	Mismatches []PinMismatch
}

// Passed reports whether every expectation in the vector held.
func (o Outcome) Passed() bool {
	return len(o.Mismatches) == 0
}

// FailCount returns the number of mismatched pins.
func (o Outcome) FailCount() int {
	return len(o.Mismatches)
}
