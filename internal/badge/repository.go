package badge

import (
	"context"
	"sync"

	"github.com/wichananm65/product-badges/internal/shopify"
)

// Repository writes badge metafields to the store.
type Repository interface {
	SetMetafield(ctx context.Context, m Metafield) (Metafield, error)
}

// InMemoryRepository keeps metafields in memory. It records every call so
// tests can assert how many writes were attempted.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Metafield
	calls   []Metafield

	// UserErrors, when set, is returned by every write as the platform would.
	UserErrors shopify.UserErrors
	// Err, when set, simulates a transport failure.
	Err error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{storage: make(map[string]Metafield)}
}

func storageKey(ownerID, namespace, key string) string {
	return ownerID + "|" + namespace + "|" + key
}

func (r *InMemoryRepository) SetMetafield(_ context.Context, m Metafield) (Metafield, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, m)
	if r.Err != nil {
		return Metafield{}, r.Err
	}
	if len(r.UserErrors) > 0 {
		return Metafield{}, r.UserErrors
	}
	r.storage[storageKey(m.OwnerID, m.Namespace, m.Key)] = m
	return m, nil
}

// Get returns the stored metafield, if any.
func (r *InMemoryRepository) Get(ownerID, namespace, key string) (Metafield, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.storage[storageKey(ownerID, namespace, key)]
	return m, ok
}

// Calls returns a copy of every metafield passed to SetMetafield.
func (r *InMemoryRepository) Calls() []Metafield {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metafield, len(r.calls))
	copy(out, r.calls)
	return out
}
