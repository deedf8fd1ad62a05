// Package store holds the in-memory list of known scans and the
// selection set that drives bulk actions.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/medseg/scanflow/internal/classify"
	"github.com/medseg/scanflow/internal/model"
)

// Filter restricts which dataset types a listing shows. Filtering is a
// view concern only; it never affects selection membership.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterBrain   Filter = "brain"
	FilterHeart   Filter = "heart"
	FilterUnknown Filter = "unknown"
)

// ParseFilter converts a flag value into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterBrain, FilterHeart, FilterUnknown:
		return Filter(s), nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("invalid filter %q (want all, brain, heart or unknown)", s)
	}
}

// Matches reports whether a record of the given dataset type passes
// the filter.
func (f Filter) Matches(t model.DatasetType) bool {
	switch f {
	case FilterAll:
		return true
	case FilterBrain:
		return t == model.DatasetBrain
	case FilterHeart:
		return t == model.DatasetHeart
	case FilterUnknown:
		return t == model.DatasetUnknown
	default:
		return false
	}
}

// Store is the in-memory scan listing. It is rebuilt wholesale from the
// backend after every mutating bulk action; nothing here is persisted.
type Store struct {
	byID    map[string]model.ScanRecord
	ordered []string
	mu      sync.RWMutex
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[string]model.ScanRecord)}
}

// Replace swaps the entire listing for the given records, recomputing
// each record's dataset type from its filename. Records with duplicate
// ids are rejected so the id-uniqueness invariant can never be
// silently violated.
func (s *Store) Replace(records []model.ScanRecord) error {
	byID := make(map[string]model.ScanRecord, len(records))
	ordered := make([]string, 0, len(records))

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid scan record: %w", err)
		}
		if _, exists := byID[r.ID]; exists {
			return fmt.Errorf("duplicate scan id %q in listing", r.ID)
		}
		r.DatasetType = classify.Classify(r.Filename)
		byID[r.ID] = r
		ordered = append(ordered, r.ID)
	}

	// Stable order: creation time, then id for records sharing one.
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := byID[ordered[i]], byID[ordered[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	s.mu.Lock()
	s.byID = byID
	s.ordered = ordered
	s.mu.Unlock()
	return nil
}

// Get returns the record with the given id, if present.
func (s *Store) Get(id string) (model.ScanRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	return r, ok
}

// Has reports whether a record with the given id exists.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// All returns every record in creation order.
func (s *Store) All() []model.ScanRecord {
	return s.Filtered(FilterAll)
}

// Filtered returns the records passing the filter, in creation order.
func (s *Store) Filtered(f Filter) []model.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScanRecord, 0, len(s.ordered))
	for _, id := range s.ordered {
		r := s.byID[id]
		if f.Matches(r.DatasetType) {
			out = append(out, r)
		}
	}
	return out
}

// Counts returns the number of records per dataset type plus the total,
// used for the filter tab summary.
func (s *Store) Counts() map[model.DatasetType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.DatasetType]int, 3)
	for _, r := range s.byID {
		counts[r.DatasetType]++
	}
	return counts
}

// Len returns the total number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
