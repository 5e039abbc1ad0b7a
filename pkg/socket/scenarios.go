package socket

import "strings"

// Scenario hooks model the combinational response of a few real parts so the
// interpreter can be exercised end-to-end against the simulator. Each hook
// resolves the channel being read back to a DUT pin, and if that pin is one
// of the part's outputs, computes its level from the currently driven inputs.

// pinLevel reads the level a DUT input pin sees from the host side: a driven
// channel presents its level, a pulled-up channel floats high, a bare input
// floats low.
func pinLevel(s *SimSocket, l Layout, pin int) bool {
	ch, err := l.Channel(pin)
	if err != nil {
		return false
	}
	switch s.ModeOf(ch) {
	case ModeHigh, ModeInputPullUp:
		return true
	default:
		return false
	}
}

func pinOf(l Layout, channel int) (int, bool) {
	for pin := 1; pin <= l.Pins; pin++ {
		ch, _ := l.Channel(pin)
		if ch == channel {
			return pin, true
		}
	}
	return 0, false
}

// Inverter7404 models a 7404 hex inverter in a 14-pin layout: inverter pairs
// (1,2) (3,4) (5,6) (9,8) (11,10) (13,12), ground on 7, supply on 14.
func Inverter7404(l Layout) ReadHook {
	outputs := map[int]int{2: 1, 4: 3, 6: 5, 8: 9, 10: 11, 12: 13}
	return func(s *SimSocket, channel int) (bool, error) {
		pin, ok := pinOf(l, channel)
		if !ok {
			return s.passiveLevel(channel), nil
		}
		in, ok := outputs[pin]
		if !ok {
			return s.passiveLevel(channel), nil
		}
		return !pinLevel(s, l, in), nil
	}
}

// Nand7400 models a 7400 quad NAND in a 14-pin layout: gates (1,2)->3,
// (4,5)->6, (9,10)->8, (12,13)->11, ground on 7, supply on 14.
func Nand7400(l Layout) ReadHook {
	gates := map[int][2]int{3: {1, 2}, 6: {4, 5}, 8: {9, 10}, 11: {12, 13}}
	return func(s *SimSocket, channel int) (bool, error) {
		pin, ok := pinOf(l, channel)
		if !ok {
			return s.passiveLevel(channel), nil
		}
		in, ok := gates[pin]
		if !ok {
			return s.passiveLevel(channel), nil
		}
		return !(pinLevel(s, l, in[0]) && pinLevel(s, l, in[1])), nil
	}
}

// ScenarioFor returns the behavior hook for a part number the simulator
// knows how to model.
func ScenarioFor(name string, l Layout) (ReadHook, bool) {
	switch strings.ToUpper(name) {
	case "7404", "74LS04", "74HC04":
		return Inverter7404(l), true
	case "7400", "74LS00", "74HC00":
		return Nand7400(l), true
	}
	return nil, false
}

// StuckLow models a faulted DUT whose outputs never leave ground.
func StuckLow() ReadHook {
	return func(s *SimSocket, channel int) (bool, error) {
		return false, nil
	}
}
