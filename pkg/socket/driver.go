package socket

import (
	"errors"
	"fmt"
)

// Mode represents the electrical state of one driver channel.
type Mode uint8

const (
	// ModeInput leaves the channel floating (high impedance).
	ModeInput Mode = iota
	// ModeInputPullUp floats the channel with a weak pull-up bias.
	ModeInputPullUp
	// ModeLow drives the channel low.
	ModeLow
	// ModeHigh drives the channel high.
	ModeHigh
)

var modeNames = map[Mode]string{
	ModeInput:       "Input",
	ModeInputPullUp: "InputPullUp",
	ModeLow:         "Low",
	ModeHigh:        "High",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// DriverInfo describes capabilities reported by a channel driver implementation.
type DriverInfo struct {
	Name         string
	Vendor       string
	Model        string
	SerialNumber string
	Firmware     string
	Channels     int
	Notes        string
}

// Driver abstracts a physical or virtual set of bidirectional test channels.
// Channel numbers run 0..NumChannels-1 for the socket positions plus the two
// dedicated ground-override channels.
type Driver interface {
	Info() (DriverInfo, error)
	SetMode(channel int, m Mode) error
	Read(channel int) (bool, error)
}

// NumChannels is the number of socket driver channels (one per ZIF position).
const NumChannels = 16

// OverrideChannelA and OverrideChannelB are the two low-impedance channels
// that bypass the series protection resistors on DUT pins 7 and 8. They may
// only be driven low or floated.
const (
	OverrideChannelA = 16
	OverrideChannelB = 17
)

// TotalChannels counts socket channels plus the two overrides.
const TotalChannels = NumChannels + 2

// ErrNotImplemented lets backends signal that a requested capability is not
// yet available without relying on fmt.Errorf each time.
var ErrNotImplemented = errors.New("socket: not implemented")

// ValidateChannel checks that a channel number addresses a real driver line.
func ValidateChannel(channel int) error {
	if channel < 0 || channel >= TotalChannels {
		return fmt.Errorf("socket: channel %d out of range [0,%d)", channel, TotalChannels)
	}
	return nil
}
