package clock

import (
	"testing"
	"time"
)

func TestRealDeliversTicksAtBudget(t *testing.T) {
	r := NewReal(5 * time.Millisecond)
	defer r.Stop()

	if r.Budget() != 5*time.Millisecond {
		t.Fatalf("Budget() = %v, want 5ms", r.Budget())
	}

	select {
	case <-r.C():
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("Real did not deliver a tick within 200ms of a 5ms budget")
	}
}

func TestManualOnlyDeliversOnAdvance(t *testing.T) {
	m := NewManual(16 * time.Millisecond)
	defer m.Stop()

	select {
	case <-m.C():
		t.Fatalf("Manual delivered a tick before Advance was called")
	case <-time.After(20 * time.Millisecond):
	}

	stamp := time.Now()
	m.Advance(stamp)
	select {
	case got := <-m.C():
		if !got.Equal(stamp) {
			t.Fatalf("Advance delivered %v, want %v", got, stamp)
		}
	case <-time.After(time.Second):
		t.Fatalf("Manual never delivered the tick queued by Advance")
	}
}
