package store

import (
	"sort"
	"sync"
)

// Selection tracks which scan ids are chosen for the next bulk action.
// Membership is independent of the current filter: toggling never
// consults visibility, and hiding a selected record does not drop it.
// A selection only shrinks via Clear, Toggle, or Prune after a record
// leaves the store.
type Selection struct {
	ids map[string]struct{}
	mu  sync.RWMutex
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership for the given id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// Clear removes every selected id.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

// IsSelected reports whether the id is currently selected.
func (s *Selection) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Prune drops ids the keep predicate rejects. Called after a store
// refresh so selections of deleted records do not linger.
func (s *Selection) Prune(keep func(id string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if !keep(id) {
			delete(s.ids, id)
		}
	}
}
