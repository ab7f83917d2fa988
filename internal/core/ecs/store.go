package ecs

import "sort"

// Removable is implemented by every component store so the Registry can
// bulk-erase an entity's data across all stores on Kill.
type Removable interface {
	Remove(id Entity)
}

// Store is a generic sparse container for one component type, keyed by
// entity index. No reflection, no interface{} boxing of the component
// itself — pure generics, one concrete Store[T] per registered type.
type Store[T any] struct {
	data map[Entity]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{data: make(map[Entity]*T, 256)}
}

// Set inserts or overwrites the component at id. The caller is responsible
// for having checked entity validity; Set itself does not check it.
func (s *Store[T]) Set(id Entity, c *T) {
	s.data[id] = c
}

// Get returns the component at id, or (nil, false) if absent.
func (s *Store[T]) Get(id Entity) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// Remove erases the slot at id. No-op if absent.
func (s *Store[T]) Remove(id Entity) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id Entity) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits every present (id, component) pair in ascending Entity order.
// Insertion into this store from within fn is undefined — collect a
// pending list and apply it after Each returns.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for _, id := range s.sortedKeys() {
		fn(id, s.data[id])
	}
}

// sortedKeys returns this store's present entity ids in ascending order.
// The backing map has no iteration order of its own, so every Each/zipper
// walk sorts here to give callers (snapshot encoding in particular) a
// stable, reproducible visitation order.
func (s *Store[T]) sortedKeys() []Entity {
	keys := make([]Entity, 0, len(s.data))
	for id := range s.data {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
