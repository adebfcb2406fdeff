package book

import (
	"context"
	"sync"
)

// MemoryRepo keeps books in insertion order in process memory.
// index maps an id to its position in books and is rebuilt after a delete.
type MemoryRepo struct {
	mu    sync.RWMutex
	books []Book
	index map[string]int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{index: make(map[string]int)}
}

func (r *MemoryRepo) Create(ctx context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[b.ID]; exists {
		return ErrDuplicateID
	}
	r.index[b.ID] = len(r.books)
	r.books = append(r.books, b)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f Filter) ([]Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Book, 0, len(r.books))
	for _, b := range r.books {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return r.books[pos], nil
}

// Update replaces the stored book with the same id in place.
func (r *MemoryRepo) Update(ctx context.Context, b Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.InsertedAt = r.books[pos].InsertedAt
	r.books[pos] = b
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, ok := r.index[id]
	if !ok {
		return ErrNotFound
	}
	r.books = append(r.books[:pos], r.books[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.books); i++ {
		r.index[r.books[i].ID] = i
	}
	return nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.books), nil
}
