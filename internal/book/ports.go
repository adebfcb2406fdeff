package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b Book) error
	List(ctx context.Context, f Filter) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, b Book) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
