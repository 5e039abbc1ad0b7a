package probe

import (
	"fmt"
	"time"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/socket"
)

// Timing holds the two blocking waits of a vector execution.
type Timing struct {
	PulseWidth time.Duration
	SettleTime time.Duration
}

// DefaultTiming suits standard TTL/CMOS logic families.
var DefaultTiming = Timing{
	PulseWidth: 10 * time.Millisecond,
	SettleTime: 5 * time.Millisecond,
}

// Runner executes single test vectors against a socket driver.
type Runner struct {
	Driver socket.Driver
	Timing Timing

	// Sleep performs the pulse and settle waits; tests may replace it to
	// observe which waits occur.
	Sleep func(time.Duration)
}

// NewRunner constructs a Runner with real waits.
func NewRunner(d socket.Driver, t Timing) *Runner {
	return &Runner{Driver: d, Timing: t, Sleep: time.Sleep}
}

func (r *Runner) setPin(layout socket.Layout, pin int, m socket.Mode) error {
	ch, err := layout.Channel(pin)
	if err != nil {
		return err
	}
	if err := r.Driver.SetMode(ch, m); err != nil {
		return fmt.Errorf("probe: pin %d: %w", pin, err)
	}
	return nil
}

// RunVector applies one vector to the socket and samples the expected
// outputs once. Channel states are left as set; the caller owns returning
// them to floating input between vectors and tests. Ignore pins are never
// touched in any phase, and a mismatch is reported once, not re-sampled.
func (r *Runner) RunVector(vec catalog.TestVector, layout socket.Layout) (Outcome, error) {
	if err := vec.Check(); err != nil {
		return Outcome{}, err
	}
	if len(vec.Ops) != layout.Pins {
		return Outcome{}, fmt.Errorf("%w: vector is %d directives, layout has %d pins",
			catalog.ErrMalformedVector, len(vec.Ops), layout.Pins)
	}

	// Ground references first, with the low-impedance override wherever the
	// layout provides one.
	for i, d := range vec.Ops {
		if d != catalog.Ground {
			continue
		}
		pin := i + 1
		if err := r.setPin(layout, pin, socket.ModeLow); err != nil {
			return Outcome{}, err
		}
		if ov, ok := layout.OverrideFor(pin); ok {
			if err := r.Driver.SetMode(ov, socket.ModeLow); err != nil {
				return Outcome{}, fmt.Errorf("probe: ground override for pin %d: %w", pin, err)
			}
		}
	}

	// Supply rails next.
	for i, d := range vec.Ops {
		if d != catalog.Rail {
			continue
		}
		if err := r.setPin(layout, i+1, socket.ModeHigh); err != nil {
			return Outcome{}, err
		}
	}

	// Driven inputs; pulse pins start at their rest level.
	for i, d := range vec.Ops {
		switch d {
		case catalog.DriveLow, catalog.PulseRising:
			if err := r.setPin(layout, i+1, socket.ModeLow); err != nil {
				return Outcome{}, err
			}
		case catalog.DriveHigh, catalog.PulseFalling:
			if err := r.setPin(layout, i+1, socket.ModeHigh); err != nil {
				return Outcome{}, err
			}
		}
	}

	// Arm expected outputs last. There is no pulled-down input mode, so an
	// ExpectHigh pin is driven low for an instant to discharge residual
	// charge before floating; an ExpectLow pin floats with the pull-up so a
	// dead output reads as a mismatch rather than a false low.
	for i, d := range vec.Ops {
		switch d {
		case catalog.ExpectHigh:
			if err := r.setPin(layout, i+1, socket.ModeLow); err != nil {
				return Outcome{}, err
			}
			if err := r.setPin(layout, i+1, socket.ModeInput); err != nil {
				return Outcome{}, err
			}
		case catalog.ExpectLow:
			if err := r.setPin(layout, i+1, socket.ModeInputPullUp); err != nil {
				return Outcome{}, err
			}
		}
	}

	// Pulse phase, skipped entirely when the vector has no clock pins.
	if vec.HasPulse() {
		for i, d := range vec.Ops {
			switch d {
			case catalog.PulseRising:
				if err := r.setPin(layout, i+1, socket.ModeHigh); err != nil {
					return Outcome{}, err
				}
			case catalog.PulseFalling:
				if err := r.setPin(layout, i+1, socket.ModeLow); err != nil {
					return Outcome{}, err
				}
			}
		}
		r.Sleep(r.Timing.PulseWidth)
		for i, d := range vec.Ops {
			switch d {
			case catalog.PulseRising:
				if err := r.setPin(layout, i+1, socket.ModeLow); err != nil {
					return Outcome{}, err
				}
			case catalog.PulseFalling:
				if err := r.setPin(layout, i+1, socket.ModeHigh); err != nil {
					return Outcome{}, err
				}
			}
		}
	}

	// Settle unconditionally before sampling.
	r.Sleep(r.Timing.SettleTime)

	var out Outcome
	for i, d := range vec.Ops {
		var want bool
		switch d {
		case catalog.ExpectHigh:
			want = true
		case catalog.ExpectLow:
			want = false
		default:
			continue
		}

		pin := i + 1
		ch, err := layout.Channel(pin)
		if err != nil {
			return out, err
		}
		got, err := r.Driver.Read(ch)
		if err != nil {
			return out, fmt.Errorf("probe: read pin %d: %w", pin, err)
		}
		if got != want {
			out.Mismatches = append(out.Mismatches, PinMismatch{Pin: pin, Want: want, Got: got})
		}
	}
	return out, nil
}
