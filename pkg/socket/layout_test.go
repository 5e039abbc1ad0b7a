package socket

import (
	"errors"
	"testing"
)

func TestLayoutInvariants(t *testing.T) {
	for _, pins := range SupportedPinCounts() {
		l, err := LayoutFor(pins)
		if err != nil {
			t.Fatalf("LayoutFor(%d) returned error: %v", pins, err)
		}
		if l.Pins != pins {
			t.Fatalf("LayoutFor(%d).Pins = %d", pins, l.Pins)
		}

		seen := make(map[int]bool)
		for pin := 1; pin <= pins; pin++ {
			ch, err := l.Channel(pin)
			if err != nil {
				t.Fatalf("Channel(%d) for %d-pin layout: %v", pin, pins, err)
			}
			if ch < 0 || ch >= NumChannels {
				t.Fatalf("pin %d maps to channel %d, outside [0,%d)", pin, ch, NumChannels)
			}
			if seen[ch] {
				t.Fatalf("channel %d assigned twice in %d-pin layout", ch, pins)
			}
			seen[ch] = true
		}
		if len(seen) != pins {
			t.Fatalf("%d-pin layout has %d channels", pins, len(seen))
		}

		// Pins beyond the package must not resolve.
		if _, err := l.Channel(pins + 1); err == nil {
			t.Fatalf("Channel(%d) on %d-pin layout did not error", pins+1, pins)
		}
		if _, err := l.Channel(0); err == nil {
			t.Fatalf("Channel(0) on %d-pin layout did not error", pins)
		}
	}
}

func TestLayoutForUnsupported(t *testing.T) {
	for _, pins := range []int{0, 2, 3, 5, 7, 18, 20, -4} {
		_, err := LayoutFor(pins)
		if !errors.Is(err, ErrUnsupportedPinCount) {
			t.Fatalf("LayoutFor(%d) = %v, want ErrUnsupportedPinCount", pins, err)
		}
	}
}

func TestLayoutCorners(t *testing.T) {
	// A 16-pin part fills the socket one-to-one; smaller parts sit at the
	// bottom, so pin 1 is always channel 0 and the last pin is channel 15.
	cases := []struct {
		pins, pin, channel int
	}{
		{16, 1, 0},
		{16, 8, 7},
		{16, 9, 8},
		{16, 16, 15},
		{14, 1, 0},
		{14, 7, 6},
		{14, 8, 9},
		{14, 14, 15},
		{4, 1, 0},
		{4, 2, 1},
		{4, 3, 14},
		{4, 4, 15},
	}
	for _, tc := range cases {
		l, err := LayoutFor(tc.pins)
		if err != nil {
			t.Fatalf("LayoutFor(%d): %v", tc.pins, err)
		}
		ch, err := l.Channel(tc.pin)
		if err != nil {
			t.Fatalf("Channel(%d): %v", tc.pin, err)
		}
		if ch != tc.channel {
			t.Fatalf("%d-pin layout: pin %d = channel %d, want %d", tc.pins, tc.pin, ch, tc.channel)
		}
	}
}

func TestOverrideChannels(t *testing.T) {
	l, err := LayoutFor(14)
	if err != nil {
		t.Fatalf("LayoutFor(14): %v", err)
	}

	if ch, ok := l.OverrideFor(7); !ok || ch != OverrideChannelA {
		t.Fatalf("OverrideFor(7) = %d,%v, want %d,true", ch, ok, OverrideChannelA)
	}
	if ch, ok := l.OverrideFor(8); !ok || ch != OverrideChannelB {
		t.Fatalf("OverrideFor(8) = %d,%v, want %d,true", ch, ok, OverrideChannelB)
	}
	if _, ok := l.OverrideFor(1); ok {
		t.Fatal("OverrideFor(1) reported an override")
	}
	if _, ok := l.OverrideFor(14); ok {
		t.Fatal("OverrideFor(14) reported an override")
	}

	// Packages too small to reach pin 7 have no overrides at all.
	small, err := LayoutFor(6)
	if err != nil {
		t.Fatalf("LayoutFor(6): %v", err)
	}
	for pin := 1; pin <= 6; pin++ {
		if _, ok := small.OverrideFor(pin); ok {
			t.Fatalf("6-pin layout: OverrideFor(%d) reported an override", pin)
		}
	}
}
