package payments

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byHash map[string]Payment
}

// NewMemoryRepository constructs an in-memory journal, used when no database
// is configured and in tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{byHash: make(map[string]Payment)}
}

func (r *memoryRepository) Record(_ context.Context, p Payment) error {
	if p.Hash == "" {
		return errors.New("payment hash is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byHash[p.Hash]; exists {
		return ErrDuplicatePayment
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.byHash[p.Hash] = p
	return nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, address string, limit int) ([]Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Payment
	for _, p := range r.byHash {
		if p.Source == address || p.Destination == address {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
