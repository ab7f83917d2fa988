package system

import (
	"testing"
	"time"
)

type recordingSystem struct {
	phase Phase
	log   *[]Phase
	name  string
}

func (s recordingSystem) Phase() Phase { return s.phase }
func (s recordingSystem) Update(time.Duration) { *s.log = append(*s.log, s.phase) }

func TestRunnerTicksInPhaseOrderRegardlessOfRegistrationOrder(t *testing.T) {
	var log []Phase
	r := NewRunner()
	r.Register(recordingSystem{phase: PhaseCleanup, log: &log})
	r.Register(recordingSystem{phase: PhaseInput, log: &log})
	r.Register(recordingSystem{phase: PhaseCollision, log: &log})
	r.Register(recordingSystem{phase: PhaseMovement, log: &log})

	r.Tick(time.Millisecond)

	want := []Phase{PhaseInput, PhaseMovement, PhaseCollision, PhaseCleanup}
	if len(log) != len(want) {
		t.Fatalf("ran %d systems, want %d", len(log), len(want))
	}
	for i, p := range want {
		if log[i] != p {
			t.Fatalf("position %d ran phase %v, want %v (full log %v)", i, log[i], p, log)
		}
	}
}

func TestRunnerStableSortPreservesRegistrationOrderWithinAPhase(t *testing.T) {
	var log []Phase
	r := NewRunner()
	// Two systems sharing PhaseCollision plus one bookend on each side.
	r.Register(recordingSystem{phase: PhaseInput, log: &log})
	first := recordingSystem{phase: PhaseCollision, log: &log, name: "first"}
	second := recordingSystem{phase: PhaseCollision, log: &log, name: "second"}
	r.Register(first)
	r.Register(second)
	r.Register(recordingSystem{phase: PhaseCleanup, log: &log})

	r.Tick(time.Millisecond)

	if len(log) != 4 || log[1] != PhaseCollision || log[2] != PhaseCollision {
		t.Fatalf("unexpected log %v", log)
	}
	if systems := r.Systems(); systems[1] != first || systems[2] != second {
		t.Fatalf("same-phase systems not kept in registration order: %+v", systems)
	}
}

func TestRunnerTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []Phase
	r := NewRunner()
	r.Register(recordingSystem{phase: PhaseInput, log: &log})
	r.Register(recordingSystem{phase: PhaseMovement, log: &log})
	r.Register(recordingSystem{phase: PhaseCollision, log: &log})

	r.TickPhase(PhaseMovement, time.Millisecond)

	if len(log) != 1 || log[0] != PhaseMovement {
		t.Fatalf("TickPhase(PhaseMovement) ran %v, want only [PhaseMovement]", log)
	}
}

func TestRunnerSystemsReturnsPhaseOrdered(t *testing.T) {
	r := NewRunner()
	r.Register(recordingSystem{phase: PhaseSnapshot})
	r.Register(recordingSystem{phase: PhaseInput})

	systems := r.Systems()
	if len(systems) != 2 || systems[0].Phase() != PhaseInput || systems[1].Phase() != PhaseSnapshot {
		t.Fatalf("Systems() not phase-ordered: %+v", systems)
	}
}
