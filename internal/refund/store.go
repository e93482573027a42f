package refund

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
)

var (
	// ErrDuplicateID is returned when adding a refund whose ID is already stored
	ErrDuplicateID = errors.New("duplicate refund id")

	// ErrNotFound is returned when a refund does not exist
	ErrNotFound = errors.New("refund not found")
)

// Store is the ordered in-memory list of refunds.
// Insertion order is the display order. A Store has a single owner and is
// not safe for concurrent use.
type Store struct {
	refunds []Refund
}

// NewStore creates a Store holding the given refunds in order.
// Only the first refund of each ID is kept.
func NewStore(refunds ...Refund) *Store {
	return &Store{refunds: uniqueRefunds(refunds)}
}

// Add appends a refund to the end of the store
func (s *Store) Add(r Refund) error {
	if s.index(r.ID) >= 0 {
		return fmt.Errorf("adding refund %s: %w", r.ID, ErrDuplicateID)
	}
	s.refunds = append(s.refunds, r)
	return nil
}

// Remove deletes the refund with the given ID.
// It reports whether anything was removed; unknown IDs are a no-op.
func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.refunds = slices.Delete(s.refunds, i, i+1)
	return true
}

// Get returns the refund with the given ID
func (s *Store) Get(id string) (Refund, bool) {
	i := s.index(id)
	if i < 0 {
		return Refund{}, false
	}
	return s.refunds[i], true
}

// Len returns the number of stored refunds
func (s *Store) Len() int {
	return len(s.refunds)
}

// Replace swaps the whole content of the store, keeping the given order.
// If two refunds share an ID the store is left unchanged.
func (s *Store) Replace(refunds []Refund) error {
	seen := make(map[string]struct{}, len(refunds))
	for _, r := range refunds {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("replacing refunds: %s: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	s.refunds = slices.Clone(refunds)
	return nil
}

// All yields every refund in insertion order
func (s *Store) All() iter.Seq[Refund] {
	return s.Filter("")
}

// Filter yields the refunds whose name contains substr, ignoring case.
// An empty substr matches everything. The sequence reads the store lazily
// and can be ranged over again.
func (s *Store) Filter(substr string) iter.Seq[Refund] {
	needle := strings.ToLower(substr)
	return func(yield func(Refund) bool) {
		for _, r := range s.refunds {
			if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.refunds, func(r Refund) bool {
		return r.ID == id
	})
}

// uniqueRefunds keeps the first refund seen for each ID
func uniqueRefunds(refunds []Refund) []Refund {
	seen := make(map[string]struct{}, len(refunds))
	unique := make([]Refund, 0, len(refunds))
	for _, r := range refunds {
		if _, ok := seen[r.ID]; ok {
			slog.Warn("Skipping refund with duplicate ID", "id", r.ID, "name", r.Name)
			continue
		}
		seen[r.ID] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}
