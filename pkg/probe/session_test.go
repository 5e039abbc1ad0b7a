package probe

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/OpenTraceLab/OpenTraceICT/pkg/catalog"
	"github.com/OpenTraceLab/OpenTraceICT/pkg/socket"
)

func mustCatalog(t *testing.T, input string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.DecodeString(input)
	if err != nil {
		t.Fatalf("DecodeString: %v", err)
	}
	return cat
}

func newTestSession(t *testing.T, input string, hook socket.ReadHook) (*Session, *socket.SimSocket) {
	t.Helper()
	sim := socket.NewSimSocket()
	sim.OnRead = hook
	s := NewSession(mustCatalog(t, input), sim, DefaultTiming)
	s.Runner().Sleep = func(time.Duration) {}
	return s, sim
}

const toyDB = "db\n$7404\n04\n0H1L\n1L0H\n&\n"

func TestLocateAndTestToyChip(t *testing.T) {
	l := mustLayout(t, 4)
	s, sim := newTestSession(t, toyDB, nil)
	sim.OnRead = func(ss *socket.SimSocket, channel int) (bool, error) {
		// pin2 = NOT pin1, pin4 = NOT pin3
		pairs := map[int]int{2: 1, 4: 3}
		for out, in := range pairs {
			outCh, _ := l.Channel(out)
			if outCh == channel {
				inCh, _ := l.Channel(in)
				return ss.ModeOf(inCh) != socket.ModeHigh, nil
			}
		}
		return false, nil
	}

	if !s.Locate("7404") {
		t.Fatal("Locate(7404) = false")
	}
	res, err := s.Test(nil)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if res.Pass != 2 || res.Fail != 0 {
		t.Fatalf("Test = pass %d fail %d, want 2/0", res.Pass, res.Fail)
	}
	if !sim.AllFloating() {
		t.Fatal("channels left driven after a passing test")
	}
}

func TestStuckLowChannelFails(t *testing.T) {
	s, sim := newTestSession(t, toyDB, socket.StuckLow())

	if !s.Locate("7404") {
		t.Fatal("Locate(7404) = false")
	}
	res, err := s.Test(nil)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if res.Fail < 1 {
		t.Fatalf("Test against stuck-low DUT reported fail = %d", res.Fail)
	}

	// The first vector expects high on pin 2; stuck low must record it.
	out := res.Outcomes[0]
	found := false
	for _, mm := range out.Mismatches {
		if mm.Pin == 2 && mm.Want && !mm.Got {
			found = true
		}
	}
	if !found {
		t.Fatalf("pin-2 mismatch not recorded: %+v", out.Mismatches)
	}
	if !sim.AllFloating() {
		t.Fatal("channels left driven after a failing test")
	}
}

func TestTestRequiresLocatedChip(t *testing.T) {
	s, _ := newTestSession(t, toyDB, nil)

	if _, err := s.Test(nil); !errors.Is(err, ErrChipNotLocated) {
		t.Fatalf("Test without locate = %v, want ErrChipNotLocated", err)
	}

	if !s.Locate("7404") {
		t.Fatal("Locate(7404) = false")
	}
	if s.Locate("nonesuch") {
		t.Fatal("Locate(nonesuch) = true")
	}
	// A failed locate clears the cursor.
	if _, err := s.Test(nil); !errors.Is(err, ErrChipNotLocated) {
		t.Fatalf("Test after failed locate = %v, want ErrChipNotLocated", err)
	}
}

func TestMalformedVectorAbortsRecord(t *testing.T) {
	db := "db\n$BROKEN\n04\n0H1L\n0HZL\n1L0H\n&\n"
	s, sim := newTestSession(t, db, nil)

	if !s.Locate("BROKEN") {
		t.Fatal("Locate(BROKEN) = false")
	}
	res, err := s.Test(nil)
	if !errors.Is(err, catalog.ErrMalformedVector) {
		t.Fatalf("Test = %v, want ErrMalformedVector", err)
	}
	// Only the vector before the bad one ran.
	if len(res.Outcomes) != 1 {
		t.Fatalf("ran %d vectors before aborting, want 1", len(res.Outcomes))
	}
	if !sim.AllFloating() {
		t.Fatal("channels left driven after a malformed-vector abort")
	}
}

func TestUnsupportedPinCountViaHandBuiltRecord(t *testing.T) {
	s, _ := newTestSession(t, toyDB, nil)

	_, err := s.testRecord(catalog.ChipRecord{Name: "WIDE", Pins: 18}, nil)
	if !errors.Is(err, socket.ErrUnsupportedPinCount) {
		t.Fatalf("testRecord = %v, want ErrUnsupportedPinCount", err)
	}
}

func TestZeroVectorRecordPasses(t *testing.T) {
	db := "db\n$EMPTY\n04\n&\n"
	s, sim := newTestSession(t, db, nil)

	if !s.Locate("EMPTY") {
		t.Fatal("Locate(EMPTY) = false")
	}
	res, err := s.Test(nil)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if res.Pass != 0 || res.Fail != 0 {
		t.Fatalf("empty record = pass %d fail %d", res.Pass, res.Fail)
	}
	if !sim.AllFloating() {
		t.Fatal("channels left driven after an empty test")
	}
}

func TestScanSkipsOtherPinCounts(t *testing.T) {
	db := "db\n" +
		"$7404\n14\n0H0H0HGH0H0H0V\n1L1L1LGL1L1L1V\n" +
		"$74138\n16\n000001HGHHHHHHLV\n" +
		"&\n"
	s, _ := newTestSession(t, db, nil)

	results, err := s.Scan(16)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("scan tried %d candidates, want 1", len(results))
	}
	if results[0].Name != "74138" {
		t.Fatalf("scan tried %q", results[0].Name)
	}
}

func TestScanNoCandidatesHasNoChannelActivity(t *testing.T) {
	db := "db\n$7404\n14\n0H0H0HGH0H0H0V\n&\n"
	s, sim := newTestSession(t, db, nil)

	results, err := s.Scan(16)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("scan tried %d candidates, want 0", len(results))
	}
	if len(sim.Ops()) != 0 {
		t.Fatalf("scan with no candidates produced %d channel ops", len(sim.Ops()))
	}
}

func TestScanDetectsInsertedChip(t *testing.T) {
	l := mustLayout(t, 14)
	db := "db\n" +
		"$7400\n14\n00H00HGH00H00V\n11L11LGL11L11V\n01H01HGH01H01V\n10H10HGH10H10V\n" +
		"$7404\n14\n0H0H0HGH0H0H0V\n1L1L1LGL1L1L1V\n" +
		"&\n"
	s, sim := newTestSession(t, db, nil)
	sim.OnRead = socket.Inverter7404(l)

	results, err := s.Scan(14)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("scan tried %d candidates, want 2", len(results))
	}

	byName := map[string]bool{}
	for _, r := range results {
		byName[r.Name] = r.Detected
	}
	if byName["7400"] {
		t.Fatal("7400 detected for an inverter DUT")
	}
	if !byName["7404"] {
		t.Fatal("7404 not detected for an inverter DUT")
	}

	// A successful scan locates the detected chip.
	name, ok := s.Located()
	if !ok || name != "7404" {
		t.Fatalf("Located() = %q,%v after scan", name, ok)
	}
	if !sim.AllFloating() {
		t.Fatal("channels left driven after a scan")
	}
}

func TestScanRejectsUnsupportedPinCount(t *testing.T) {
	s, _ := newTestSession(t, toyDB, nil)
	if _, err := s.Scan(18); !errors.Is(err, socket.ErrUnsupportedPinCount) {
		t.Fatalf("Scan(18) = %v, want ErrUnsupportedPinCount", err)
	}
}

func TestVerboseTrace(t *testing.T) {
	s, _ := newTestSession(t, toyDB, socket.StuckLow())

	if !s.Locate("7404") {
		t.Fatal("Locate(7404) = false")
	}
	var buf bytes.Buffer
	if _, err := s.Test(&buf); err != nil {
		t.Fatalf("Test: %v", err)
	}

	trace := buf.String()
	if !strings.Contains(trace, "FAIL") {
		t.Fatalf("trace missing FAIL line:\n%s", trace)
	}
	if !strings.Contains(trace, "pin 2: want high, got low") {
		t.Fatalf("trace missing mismatch detail:\n%s", trace)
	}
}

func TestRoundTripAgainstRealInverter(t *testing.T) {
	l := mustLayout(t, 14)
	db := "db\n$7404\n14\n0H0H0HGH0H0H0V\n1L1L1LGL1L1L1V\n&\n"
	s, sim := newTestSession(t, db, nil)
	sim.OnRead = socket.Inverter7404(l)

	if !s.Locate("7404") {
		t.Fatal("Locate(7404) = false")
	}
	res, err := s.Test(nil)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if res.Fail != 0 {
		t.Fatalf("consistent record against ideal DUT failed %d vectors", res.Fail)
	}
	if res.Pass != 2 {
		t.Fatalf("pass = %d, want 2", res.Pass)
	}
}
