package catalog

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	offers map[string]Offer
}

// NewMemoryRepository constructs an in-memory offer store for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{offers: make(map[string]Offer)}
}

func (r *memoryRepository) Create(_ context.Context, offer Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[offer.ID] = offer
	return nil
}

func (r *memoryRepository) Update(_ context.Context, offer Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offer.ID]; !ok {
		return ErrNotFound
	}
	r.offers[offer.ID] = offer
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	offer, ok := r.offers[id]
	if !ok {
		return Offer{}, ErrNotFound
	}
	return offer, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	offers := make([]Offer, 0, len(r.offers))
	for _, offer := range r.offers {
		offers = append(offers, offer)
	}
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].SortOrder != offers[j].SortOrder {
			return offers[i].SortOrder < offers[j].SortOrder
		}
		return offers[i].CreatedAt.Before(offers[j].CreatedAt)
	})
	return offers, nil
}
