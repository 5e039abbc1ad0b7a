package socket

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPinCount is returned when a chip record declares a package
// size the socket hardware has no layout for.
var ErrUnsupportedPinCount = errors.New("socket: unsupported pin count")

// Layout maps logical DUT pin indices (1..Pins) onto physical driver
// channels. A DIP package sits at the bottom of the ZIF socket, so the left
// row of an N-pin part occupies channels 0..N/2-1 and the right row occupies
// the top channels counting down from 15.
type Layout struct {
	Pins     int
	channels []int // index 0 holds the channel for pin 1
}

var supportedPinCounts = []int{4, 6, 8, 10, 12, 14, 16}

// overridePins is a fixed catalog convention: the low-impedance ground
// overrides shadow DUT pins 7 and 8 regardless of chip family, because the
// catalog's 14/16-pin entries overwhelmingly place ground there.
var overridePins = map[int]int{
	7: OverrideChannelA,
	8: OverrideChannelB,
}

// SupportedPinCounts returns the package sizes the socket can host, in
// ascending order.
func SupportedPinCounts() []int {
	return append([]int(nil), supportedPinCounts...)
}

// Supported reports whether a layout exists for the given pin count.
func Supported(pins int) bool {
	for _, n := range supportedPinCounts {
		if n == pins {
			return true
		}
	}
	return false
}

// LayoutFor resolves the fixed layout for a package size.
func LayoutFor(pins int) (Layout, error) {
	if !Supported(pins) {
		return Layout{}, fmt.Errorf("%w: %d pins", ErrUnsupportedPinCount, pins)
	}

	half := pins / 2
	channels := make([]int, pins)
	for i := 0; i < half; i++ {
		channels[i] = i
	}
	for i := half; i < pins; i++ {
		channels[i] = NumChannels - pins + i
	}
	return Layout{Pins: pins, channels: channels}, nil
}

// Channel returns the physical driver channel for a logical pin (1-based).
func (l Layout) Channel(pin int) (int, error) {
	if pin < 1 || pin > l.Pins {
		return 0, fmt.Errorf("socket: pin %d out of range [1,%d]", pin, l.Pins)
	}
	return l.channels[pin-1], nil
}

// OverrideFor reports the dedicated ground-override channel for a logical
// pin, if one exists. Only pins 7 and 8 have overrides, and only on packages
// large enough to reach them.
func (l Layout) OverrideFor(pin int) (int, bool) {
	if pin < 1 || pin > l.Pins {
		return 0, false
	}
	ch, ok := overridePins[pin]
	return ch, ok
}

// Channels returns the physical channels in pin order (pin 1 first).
func (l Layout) Channels() []int {
	return append([]int(nil), l.channels...)
}
