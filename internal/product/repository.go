package product

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context, first int) ([]Product, error)
	GetByID(ctx context.Context, gid string) (Detail, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and running the pages without a store.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Detail

	// Err, when set, is returned by every call.
	Err error
}

func NewInMemoryRepository(seed []Detail) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Detail, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(_ context.Context, first int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}

	n := len(r.storage)
	if first > 0 && first < n {
		n = first
	}
	out := make([]Product, 0, n)
	for _, d := range r.storage[:n] {
		out = append(out, Product{ID: d.ID, Title: d.Title, Description: d.Description})
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, gid string) (Detail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return Detail{}, r.Err
	}
	for _, d := range r.storage {
		if d.ID == gid {
			return d, nil
		}
	}
	return Detail{}, ErrNotFound
}
