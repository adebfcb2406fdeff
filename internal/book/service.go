package book

import (
	"context"
	"fmt"
	"time"
)

// IDGenerator produces unique book identifiers.
type IDGenerator interface {
	NewID() string
}

// Service provides book-related business logic.
type Service struct {
	repo  Repository
	ids   IDGenerator
	clock func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the time source used for insertedAt/updatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a new book service.
func NewService(repo Repository, ids IDGenerator, opts ...Option) *Service {
	s := &Service{repo: repo, ids: ids, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, stores a new book and returns its id.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}

	now := s.clock().UTC()
	b := Book{
		ID:         s.ids.NewID(),
		InsertedAt: now,
		UpdatedAt:  now,
	}
	in.apply(&b)

	if err := s.repo.Create(ctx, b); err != nil {
		return "", fmt.Errorf("create book: %w", err)
	}
	return b.ID, nil
}

// List returns the id/name/publisher projection of every book matching f,
// in insertion order.
func (s *Service) List(ctx context.Context, f Filter) ([]Summary, error) {
	books, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(books))
	for _, b := range books {
		out = append(out, b.summary())
	}
	return out, nil
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces every field of the book except id and insertedAt.
// ErrNotFound takes precedence over validation errors.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	in.apply(&b)
	b.UpdatedAt = s.clock().UTC()
	if b.UpdatedAt.Before(b.InsertedAt) {
		b.UpdatedAt = b.InsertedAt
	}
	return s.repo.Update(ctx, b)
}

// Delete removes a book by its id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Count returns the number of stored books.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
