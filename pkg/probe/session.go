package probe

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/socket"
)

// ErrChipNotLocated is returned by Test when no catalog record has been
// located first.
var ErrChipNotLocated = errors.New("probe: no chip located")

// Result aggregates the outcomes of testing one chip record.
type Result struct {
	Chip     string
	Pass     int
	Fail     int
	Outcomes []Outcome
}

// ScanResult reports one auto-detection candidate.
type ScanResult struct {
	Name     string
	Pins     int
	Detected bool
}

// Session binds a catalog to a socket driver and owns the located-chip
// cursor. It is the context object for all console-facing operations; one
// session corresponds to one physical DUT socket.
type Session struct {
	cat     *catalog.Catalog
	runner  *Runner
	cursor  catalog.Cursor
	located bool
}

// NewSession creates a session over a catalog and driver.
func NewSession(cat *catalog.Catalog, drv socket.Driver, timing Timing) *Session {
	return &Session{cat: cat, runner: NewRunner(drv, timing)}
}

// Runner exposes the underlying vector runner.
func (s *Session) Runner() *Runner {
	return s.runner
}

// Catalog returns the catalog the session operates on.
func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

// Locate searches the catalog for a chip by name and sets the cursor on a
// hit. A miss clears any previously located chip.
func (s *Session) Locate(name string) bool {
	cur, ok := s.cat.Find(name)
	if !ok {
		s.located = false
		return false
	}
	s.cursor = cur
	s.located = true
	return true
}

// Located reports the currently located chip, if any.
func (s *Session) Located() (string, bool) {
	if !s.located {
		return "", false
	}
	rec, ok := s.cat.Record(s.cursor)
	if !ok {
		return "", false
	}
	return rec.Name, true
}

// Test runs every vector of the located record. When trace is non-nil, a
// per-vector line is written to it. The located cursor is required; all
// channels are restored to floating input on every exit path.
func (s *Session) Test(trace io.Writer) (Result, error) {
	if !s.located {
		return Result{}, ErrChipNotLocated
	}
	rec, ok := s.cat.Record(s.cursor)
	if !ok {
		s.located = false
		return Result{}, ErrChipNotLocated
	}
	return s.testRecord(rec, trace)
}

func (s *Session) testRecord(rec catalog.ChipRecord, trace io.Writer) (res Result, err error) {
	layout, err := socket.LayoutFor(rec.Pins)
	if err != nil {
		return Result{}, err
	}

	if err := s.release(layout); err != nil {
		return Result{}, err
	}
	defer func() {
		if rerr := s.release(layout); rerr != nil && err == nil {
			err = rerr
		}
	}()

	res.Chip = rec.Name
	for i, vec := range rec.Vectors {
		if cerr := vec.Check(); cerr != nil {
			// Abort the remaining vectors of this record; the deferred
			// release still floats every channel.
			return res, fmt.Errorf("vector %d: %w", i+1, cerr)
		}

		out, rerr := s.runner.RunVector(vec, layout)
		if rerr != nil {
			return res, rerr
		}
		res.Outcomes = append(res.Outcomes, out)
		if out.Passed() {
			res.Pass++
		} else {
			res.Fail++
		}

		if trace != nil {
			if out.Passed() {
				fmt.Fprintf(trace, "vector %2d  %s  PASS\n", i+1, vec)
			} else {
				fmt.Fprintf(trace, "vector %2d  %s  FAIL (%d mismatched)\n", i+1, vec, out.FailCount())
				for _, mm := range out.Mismatches {
					fmt.Fprintf(trace, "    pin %d: want %s, got %s\n", mm.Pin, level(mm.Want), level(mm.Got))
				}
			}
		}
	}
	return res, nil
}

// Scan tries every catalog record with the requested pin count against the
// inserted DUT. Records of other pin counts are skipped without any channel
// activity. A chip is detected only when every one of its vectors passes
// with zero mismatches; a malformed record is reported as not detected and
// the scan continues. The cursor is left on the first detected record.
func (s *Session) Scan(pins int) ([]ScanResult, error) {
	if !socket.Supported(pins) {
		return nil, fmt.Errorf("%w: %d pins", socket.ErrUnsupportedPinCount, pins)
	}

	var results []ScanResult
	first := catalog.Cursor(-1)
	cur := catalog.Cursor(0)
	for {
		rec, next, ok := s.cat.Next(cur)
		if !ok {
			break
		}
		at := cur
		cur = next

		if rec.Pins != pins {
			continue
		}

		res, err := s.testRecord(rec, nil)
		detected := err == nil && res.Fail == 0
		results = append(results, ScanResult{Name: rec.Name, Pins: rec.Pins, Detected: detected})
		if detected && first < 0 {
			first = at
		}
	}

	if first >= 0 {
		s.cursor = first
		s.located = true
	}
	return results, nil
}

// Release floats every driver channel, overrides included. It is safe to
// call at any time.
func (s *Session) Release() error {
	for ch := 0; ch < socket.TotalChannels; ch++ {
		if err := s.runner.Driver.SetMode(ch, socket.ModeInput); err != nil {
			return fmt.Errorf("probe: release channel %d: %w", ch, err)
		}
	}
	return nil
}

// release floats the layout's channels plus the two ground overrides.
func (s *Session) release(layout socket.Layout) error {
	for _, ch := range layout.Channels() {
		if err := s.runner.Driver.SetMode(ch, socket.ModeInput); err != nil {
			return fmt.Errorf("probe: release channel %d: %w", ch, err)
		}
	}
	for _, ch := range []int{socket.OverrideChannelA, socket.OverrideChannelB} {
		if err := s.runner.Driver.SetMode(ch, socket.ModeInput); err != nil {
			return fmt.Errorf("probe: release override %d: %w", ch, err)
		}
	}
	return nil
}

func level(v bool) string {
	if v {
		return "high"
	}
	return "low"
}
