package ecs

import "testing"

type position struct{ X, Y float32 }
type health struct{ HP int32 }

func TestStoreSetGetRemove(t *testing.T) {
	s := NewStore[position]()
	e := Entity(1)

	if _, ok := s.Get(e); ok {
		t.Fatalf("empty store should not have entity %d", e)
	}

	s.Set(e, &position{X: 1, Y: 2})
	got, ok := s.Get(e)
	if !ok || got.X != 1 || got.Y != 2 {
		t.Fatalf("Get after Set = %+v, %v", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}

	s.Remove(e)
	if s.Has(e) {
		t.Fatalf("entity %d should be gone after Remove", e)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after Remove = %d, want 0", s.Len())
	}

	s.Remove(e) // no-op, must not panic
}

func TestStoreEachVisitsAllPresent(t *testing.T) {
	s := NewStore[position]()
	want := map[Entity]position{
		1: {X: 1}, 2: {X: 2}, 3: {X: 3},
	}
	for id, p := range want {
		p := p
		s.Set(id, &p)
	}
	got := make(map[Entity]position)
	s.Each(func(id Entity, p *position) { got[id] = *p })
	if len(got) != len(want) {
		t.Fatalf("Each visited %d entities, want %d", len(got), len(want))
	}
	for id, p := range want {
		if got[id] != p {
			t.Fatalf("entity %d = %+v, want %+v", id, got[id], p)
		}
	}
}

func TestRegistryRemoveAllClearsEveryStore(t *testing.T) {
	positions := NewStore[position]()
	healths := NewStore[health]()
	reg := NewRegistry()
	reg.Register(positions)
	reg.Register(healths)

	e := Entity(5)
	positions.Set(e, &position{X: 9})
	healths.Set(e, &health{HP: 10})

	reg.RemoveAll(e)

	if positions.Has(e) || healths.Has(e) {
		t.Fatalf("RemoveAll should have erased entity %d from every store", e)
	}
}
