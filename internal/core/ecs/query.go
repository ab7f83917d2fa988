package ecs

// Each2 visits entities present in both sa and sb, in ascending Entity
// order. The smaller store drives iteration for cost, but the driving
// store's keys are sorted first — the join is a zipper over a sorted
// merge, not raw map order, so callers may depend on ascending visitation
// order (snapshot encoding relies on this for reproducible output).
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(Entity, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for _, id := range sa.sortedKeys() {
			if b, ok := sb.data[id]; ok {
				fn(id, sa.data[id], b)
			}
		}
		return
	}
	for _, id := range sb.sortedKeys() {
		if a, ok := sa.data[id]; ok {
			fn(id, a, sb.data[id])
		}
	}
}

// Each3 visits entities present in sa, sb, and sc, in ascending Entity order.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(Entity, *A, *B, *C)) {
	smallest, which := sa.Len(), 0
	if sb.Len() < smallest {
		smallest, which = sb.Len(), 1
	}
	if sc.Len() < smallest {
		which = 2
	}
	switch which {
	case 0:
		for _, id := range sa.sortedKeys() {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, sa.data[id], b, c)
				}
			}
		}
	case 1:
		for _, id := range sb.sortedKeys() {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, a, sb.data[id], c)
				}
			}
		}
	case 2:
		for _, id := range sc.sortedKeys() {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					fn(id, a, b, sc.data[id])
				}
			}
		}
	}
}

// Each4 visits entities present in all four stores, in ascending Entity
// order. Used by systems that join Transform+RigidBody+BoxCollider+Player,
// for instance.
func Each4[A, B, C, D any](sa *Store[A], sb *Store[B], sc *Store[C], sd *Store[D], fn func(Entity, *A, *B, *C, *D)) {
	for _, id := range sa.sortedKeys() {
		b, ok := sb.data[id]
		if !ok {
			continue
		}
		c, ok := sc.data[id]
		if !ok {
			continue
		}
		d, ok := sd.data[id]
		if !ok {
			continue
		}
		fn(id, sa.data[id], b, c, d)
	}
}
