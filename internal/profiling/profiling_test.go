package profiling

import (
	"strings"
	"testing"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for range 3 {
		Track("test.op")()
	}
	if got := Count("test.op"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if _, ok := Snapshot()["test.op"]; !ok {
		t.Errorf("Snapshot missing test.op")
	}

	ResetFrame()
	if got := Count("test.op"); got != 0 {
		t.Errorf("Count after reset = %d, want 0", got)
	}
}

func TestTopNLimits(t *testing.T) {
	ResetFrame()
	Track("a")()
	Track("b")()
	Track("c")()

	out := TopN(2)
	if n := strings.Count(out, "ms("); n != 2 {
		t.Errorf("TopN(2) = %q, want 2 entries", out)
	}
	if TopN(0) != "" {
		t.Errorf("TopN(0) should be empty")
	}
}
