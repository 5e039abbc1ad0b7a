package socket

import "testing"

func TestSimSocketInfo(t *testing.T) {
	s := NewSimSocket()
	info, err := s.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Channels != TotalChannels {
		t.Fatalf("Channels = %d, want %d", info.Channels, TotalChannels)
	}
	if info.Name == "" || info.Notes == "" {
		t.Fatalf("info = %+v, want name and notes set", info)
	}
}

func TestSimSocketRecordsOps(t *testing.T) {
	s := NewSimSocket()

	if err := s.SetMode(3, ModeHigh); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	v, err := s.Read(3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !v {
		t.Fatal("driven-high channel read back low")
	}

	ops := s.Ops()
	if len(ops) != 2 {
		t.Fatalf("recorded %d ops, want 2", len(ops))
	}
	if ops[0].Kind != OpSetMode || ops[0].Channel != 3 || ops[0].Mode != ModeHigh {
		t.Fatalf("op[0] = %+v", ops[0])
	}
	if ops[1].Kind != OpRead || !ops[1].Value {
		t.Fatalf("op[1] = %+v", ops[1])
	}
}

func TestSimSocketPassiveLevels(t *testing.T) {
	s := NewSimSocket()

	cases := []struct {
		mode Mode
		want bool
	}{
		{ModeInput, false},
		{ModeInputPullUp, true},
		{ModeLow, false},
		{ModeHigh, true},
	}
	for _, tc := range cases {
		if err := s.SetMode(0, tc.mode); err != nil {
			t.Fatalf("SetMode(%s): %v", tc.mode, err)
		}
		v, err := s.Read(0)
		if err != nil {
			t.Fatalf("Read after %s: %v", tc.mode, err)
		}
		if v != tc.want {
			t.Fatalf("mode %s reads %v, want %v", tc.mode, v, tc.want)
		}
	}
}

func TestSimSocketChannelRange(t *testing.T) {
	s := NewSimSocket()

	if err := s.SetMode(TotalChannels, ModeLow); err == nil {
		t.Fatal("SetMode past last channel did not error")
	}
	if _, err := s.Read(-1); err == nil {
		t.Fatal("Read(-1) did not error")
	}

	// Override channels are addressable.
	if err := s.SetMode(OverrideChannelB, ModeLow); err != nil {
		t.Fatalf("SetMode(override): %v", err)
	}
	if s.AllFloating() {
		t.Fatal("AllFloating true with override driven")
	}
	if err := s.SetMode(OverrideChannelB, ModeInput); err != nil {
		t.Fatalf("SetMode(override, Input): %v", err)
	}
	if !s.AllFloating() {
		t.Fatal("AllFloating false with all channels released")
	}
}

func TestInverterScenario(t *testing.T) {
	l, err := LayoutFor(14)
	if err != nil {
		t.Fatalf("LayoutFor(14): %v", err)
	}
	s := NewSimSocket()
	s.OnRead = Inverter7404(l)

	in, _ := l.Channel(1)
	out, _ := l.Channel(2)

	if err := s.SetMode(in, ModeLow); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	v, err := s.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !v {
		t.Fatal("inverter output low with input low")
	}

	if err := s.SetMode(in, ModeHigh); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	v, err = s.Read(out)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v {
		t.Fatal("inverter output high with input high")
	}
}

func TestNandScenario(t *testing.T) {
	l, err := LayoutFor(14)
	if err != nil {
		t.Fatalf("LayoutFor(14): %v", err)
	}
	s := NewSimSocket()
	s.OnRead = Nand7400(l)

	a, _ := l.Channel(1)
	b, _ := l.Channel(2)
	y, _ := l.Channel(3)

	cases := []struct {
		a, b, want bool
	}{
		{false, false, true},
		{false, true, true},
		{true, false, true},
		{true, true, false},
	}
	for _, tc := range cases {
		modeFor := func(level bool) Mode {
			if level {
				return ModeHigh
			}
			return ModeLow
		}
		if err := s.SetMode(a, modeFor(tc.a)); err != nil {
			t.Fatalf("SetMode A: %v", err)
		}
		if err := s.SetMode(b, modeFor(tc.b)); err != nil {
			t.Fatalf("SetMode B: %v", err)
		}
		v, err := s.Read(y)
		if err != nil {
			t.Fatalf("Read Y: %v", err)
		}
		if v != tc.want {
			t.Fatalf("NAND(%v,%v) = %v, want %v", tc.a, tc.b, v, tc.want)
		}
	}
}
