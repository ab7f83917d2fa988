package ecs

import "testing"

func TestEach2OnlyVisitsIntersection(t *testing.T) {
	positions := NewStore[position]()
	healths := NewStore[health]()

	positions.Set(1, &position{X: 1})
	positions.Set(2, &position{X: 2})
	healths.Set(2, &health{HP: 20})
	healths.Set(3, &health{HP: 30})

	visited := make(map[Entity]bool)
	Each2(positions, healths, func(id Entity, p *position, h *health) {
		visited[id] = true
		if id != 2 {
			t.Fatalf("Each2 visited unexpected entity %d", id)
		}
		if p.X != 2 || h.HP != 20 {
			t.Fatalf("Each2 paired wrong components: %+v %+v", p, h)
		}
	})
	if len(visited) != 1 {
		t.Fatalf("Each2 visited %d entities, want 1", len(visited))
	}
}

func TestEach2SymmetricRegardlessOfStoreSize(t *testing.T) {
	small := NewStore[position]()
	large := NewStore[health]()
	small.Set(1, &position{X: 1})
	for i := Entity(1); i <= 10; i++ {
		large.Set(i, &health{HP: int32(i)})
	}

	var forward, backward int
	Each2(small, large, func(Entity, *position, *health) { forward++ })
	Each2(large, small, func(Entity, *health, *position) { backward++ })
	if forward != 1 || backward != 1 {
		t.Fatalf("Each2 forward=%d backward=%d, want 1,1 regardless of argument order", forward, backward)
	}
}

type tag struct{ N int }

func TestEach3RequiresAllThree(t *testing.T) {
	a := NewStore[position]()
	b := NewStore[health]()
	c := NewStore[tag]()

	a.Set(1, &position{})
	b.Set(1, &health{})
	c.Set(1, &tag{N: 1})

	a.Set(2, &position{})
	b.Set(2, &health{})
	// no tag for entity 2

	var visited []Entity
	Each3(a, b, c, func(id Entity, _ *position, _ *health, _ *tag) {
		visited = append(visited, id)
	})
	if len(visited) != 1 || visited[0] != 1 {
		t.Fatalf("Each3 visited %v, want only entity 1", visited)
	}
}

func TestEach4RequiresAllFour(t *testing.T) {
	a := NewStore[position]()
	b := NewStore[health]()
	c := NewStore[tag]()
	d := NewStore[tag]()

	for _, s := range []Entity{1, 2, 3} {
		a.Set(s, &position{})
		b.Set(s, &health{})
		c.Set(s, &tag{})
	}
	d.Set(2, &tag{N: 99})

	var visited []Entity
	Each4(a, b, c, d, func(id Entity, _ *position, _ *health, _ *tag, _ *tag) {
		visited = append(visited, id)
	})
	if len(visited) != 1 || visited[0] != 2 {
		t.Fatalf("Each4 visited %v, want only entity 2", visited)
	}
}
