package ecs

import "testing"

func TestWorldKillErasesFromRegisteredStores(t *testing.T) {
	w := NewWorld()
	positions := NewStore[position]()
	w.Registry().Register(positions)

	e := w.Spawn()
	positions.Set(e, &position{X: 1})

	w.Kill(e)

	if w.Alive(e) {
		t.Fatalf("entity %d should not be alive after Kill", e)
	}
	if positions.Has(e) {
		t.Fatalf("Kill should have erased entity %d from registered stores", e)
	}
}

func TestWorldKillTwiceIsSafe(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	w.Kill(e)
	w.Kill(e) // must not panic or double-erase anything
	if w.Alive(e) {
		t.Fatalf("entity %d should remain dead", e)
	}
}

func TestWorldQueueKillDefersUntilFlush(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	w.QueueKill(e)

	if !w.Alive(e) {
		t.Fatalf("QueueKill must not kill immediately")
	}
	pending := w.PendingKills()
	if len(pending) != 1 || pending[0] != e {
		t.Fatalf("PendingKills() = %v, want [%d]", pending, e)
	}

	w.FlushKills()
	if w.Alive(e) {
		t.Fatalf("entity %d should be dead after FlushKills", e)
	}
	if len(w.PendingKills()) != 0 {
		t.Fatalf("FlushKills should clear the pending queue")
	}
}
