package txlog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries []Transaction
}

// NewMemoryRepository constructs an in-memory transaction log for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Append(_ context.Context, tx Transaction) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	r.entries = append(r.entries, tx)
	return tx.ID, nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, accountID string) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []Transaction
	for _, entry := range r.entries {
		if entry.AccountID == accountID {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}
