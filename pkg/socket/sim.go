package socket

// OpKind tags a recorded simulator operation.
type OpKind uint8

const (
	OpSetMode OpKind = iota
	OpRead
)

// Op captures one driver call for inspection within tests.
type Op struct {
	Kind    OpKind
	Channel int
	Mode    Mode // valid for OpSetMode
	Value   bool // valid for OpRead
}

// ReadHook allows the simulator to emulate device-specific pin behavior. It
// receives the simulator so it can inspect the currently driven modes.
type ReadHook func(s *SimSocket, channel int) (bool, error)

// SimSocket is an in-memory Driver useful for unit tests and for exercising
// the CLI without hardware. It records every operation and can optionally
// model a real chip's response via OnRead.
type SimSocket struct {
	InfoData DriverInfo

	OnRead ReadHook

	modes [TotalChannels]Mode
	ops   []Op
}

// NewSimSocket constructs a simulator with every channel floating.
func NewSimSocket() *SimSocket {
	return &SimSocket{
		InfoData: DriverInfo{
			Name:     "Simulator",
			Model:    "virtual socket",
			Channels: TotalChannels,
			Notes:    "in-process, no hardware attached",
		},
	}
}

func (s *SimSocket) Info() (DriverInfo, error) {
	return s.InfoData, nil
}

func (s *SimSocket) SetMode(channel int, m Mode) error {
	if err := ValidateChannel(channel); err != nil {
		return err
	}
	s.modes[channel] = m
	s.ops = append(s.ops, Op{Kind: OpSetMode, Channel: channel, Mode: m})
	return nil
}

func (s *SimSocket) Read(channel int) (bool, error) {
	if err := ValidateChannel(channel); err != nil {
		return false, err
	}

	var v bool
	var err error
	if s.OnRead != nil {
		v, err = s.OnRead(s, channel)
	} else {
		v = s.passiveLevel(channel)
	}
	if err != nil {
		return false, err
	}

	s.ops = append(s.ops, Op{Kind: OpRead, Channel: channel, Value: v})
	return v, nil
}

// passiveLevel models an empty socket: a driven channel reads back its own
// level, a pulled-up input reads high, a bare input reads low.
func (s *SimSocket) passiveLevel(channel int) bool {
	switch s.modes[channel] {
	case ModeHigh, ModeInputPullUp:
		return true
	default:
		return false
	}
}

// ModeOf returns the current mode of a channel.
func (s *SimSocket) ModeOf(channel int) Mode {
	if err := ValidateChannel(channel); err != nil {
		return ModeInput
	}
	return s.modes[channel]
}

// AllFloating reports whether every channel, overrides included, is back in
// plain input mode.
func (s *SimSocket) AllFloating() bool {
	for _, m := range s.modes {
		if m != ModeInput {
			return false
		}
	}
	return true
}

// Ops returns a copy of the recorded operation log.
func (s *SimSocket) Ops() []Op {
	return append([]Op(nil), s.ops...)
}

// ResetOps clears the operation log without touching channel state.
func (s *SimSocket) ResetOps() {
	s.ops = nil
}
