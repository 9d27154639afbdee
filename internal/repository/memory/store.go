// Package memory provides a volatile repository backend. Data lives only for
// the process lifetime, which makes it suitable for tests and ephemeral
// demos. All access goes through a single RWMutex per store; List preserves
// insertion order.
package memory

import "sync"

// store is a generic identifier-keyed record store shared by the per-entity
// repositories. Values are cloned on the way in and out so callers can never
// mutate stored state without going through the repository.
type store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	clone func(T) T
}

func newStore[T any](clone func(T) T) *store[T] {
	return &store[T]{
		items: make(map[string]T),
		clone: clone,
	}
}

// add inserts a record. Returns false if the identifier is already taken;
// duplicate identifiers are a conflict, never a silent overwrite.
func (s *store[T]) add(id string, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return false
	}
	s.items[id] = s.clone(v)
	s.order = append(s.order, id)
	return true
}

// get returns a copy of the record with the given identifier.
func (s *store[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(v), true
}

// all returns copies of every record in insertion order.
func (s *store[T]) all() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.clone(s.items[id]))
	}
	return out
}

// replace overwrites an existing record. Returns false if absent.
func (s *store[T]) replace(id string, v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return false
	}
	s.items[id] = s.clone(v)
	return true
}

// remove deletes a record. Returns false if absent.
func (s *store[T]) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// find returns a copy of the first record (in insertion order) matching the
// predicate. This is the attribute-lookup path of the repository contract.
func (s *store[T]) find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if match(s.items[id]) {
			return s.clone(s.items[id]), true
		}
	}
	var zero T
	return zero, false
}

// filter returns copies of every record matching the predicate, in insertion
// order.
func (s *store[T]) filter(match func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, id := range s.order {
		if match(s.items[id]) {
			out = append(out, s.clone(s.items[id]))
		}
	}
	return out
}

// removeAll deletes every record matching the predicate and returns how many
// were removed.
func (s *store[T]) removeAll(match func(T) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, id := range s.order {
		if match(s.items[id]) {
			delete(s.items, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return removed
}
