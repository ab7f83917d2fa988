package ecs

import "testing"

func TestAllocatorSpawnNeverRepeats(t *testing.T) {
	a := NewAllocator()
	seen := make(map[Entity]bool)
	for i := 0; i < 100; i++ {
		id := a.Spawn()
		if seen[id] {
			t.Fatalf("Spawn returned a repeated id %d", id)
		}
		seen[id] = true
		if !a.Alive(id) {
			t.Fatalf("entity %d should be alive immediately after Spawn", id)
		}
	}
}

func TestAllocatorInvalidateIsIdempotent(t *testing.T) {
	a := NewAllocator()
	id := a.Spawn()
	a.Invalidate(id)
	if a.Alive(id) {
		t.Fatalf("entity %d should not be alive after Invalidate", id)
	}
	a.Invalidate(id) // must not panic
	if a.Alive(id) {
		t.Fatalf("entity %d should still be dead after second Invalidate", id)
	}
}

func TestAllocatorAliveOnUnknownIndex(t *testing.T) {
	a := NewAllocator()
	if a.Alive(Entity(42)) {
		t.Fatalf("an index never spawned should never be alive")
	}
}
