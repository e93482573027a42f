package refund

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
)

// Service keeps the Store in step with a Backend
type Service struct {
	store   *Store
	backend Backend
}

// NewService creates a new Service. A nil backend keeps everything in memory.
func NewService(store *Store, backend Backend) *Service {
	return &Service{
		store:   store,
		backend: backend,
	}
}

// Load replaces the store content with what the backend holds.
// On failure the store is left as it was.
func (s *Service) Load(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	refunds, err := s.backend.FetchAll(ctx)
	if err != nil {
		slog.Error("Failed to load refunds", "error", err)
		return fmt.Errorf("loading refunds: %w", err)
	}
	return s.store.Replace(uniqueRefunds(refunds))
}

// Submit validates the form and creates the refund. The store only grows
// once the backend has accepted the refund.
func (s *Service) Submit(ctx context.Context, form *Form) (Refund, error) {
	return form.Submit(ctx, s.create)
}

func (s *Service) create(ctx context.Context, r Refund) error {
	if _, ok := s.store.Get(r.ID); ok {
		return fmt.Errorf("adding refund %s: %w", r.ID, ErrDuplicateID)
	}
	if s.backend != nil {
		if err := s.backend.Create(ctx, r); err != nil {
			slog.Error("Failed to create refund", "id", r.ID, "error", err)
			return fmt.Errorf("creating refund: %w", err)
		}
	}
	return s.store.Add(r)
}

// Delete removes a refund from the backend and then from the store.
// A refund the backend no longer knows about is still dropped locally;
// any other backend failure keeps it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.backend != nil {
		err := s.backend.Delete(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			slog.Warn("Refund already gone from backend", "id", id)
		default:
			slog.Error("Failed to delete refund", "id", id, "error", err)
			return fmt.Errorf("deleting refund: %w", err)
		}
	}
	s.store.Remove(id)
	return nil
}

// Get retrieves a refund by ID
func (s *Service) Get(id string) (Refund, error) {
	r, ok := s.store.Get(id)
	if !ok {
		return Refund{}, fmt.Errorf("getting refund %s: %w", id, ErrNotFound)
	}
	return r, nil
}

// List returns all refunds in display order
func (s *Service) List() iter.Seq[Refund] {
	return s.store.All()
}

// Search returns the refunds whose name contains term, ignoring case
func (s *Service) Search(term string) iter.Seq[Refund] {
	return s.store.Filter(term)
}
