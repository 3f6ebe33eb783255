package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service exposes catalog management operations.
type Service struct {
	repo Repository
}

// NewService builds a catalog service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// OfferInput captures the fields an administrator supplies for an offer.
type OfferInput struct {
	GameName  string
	OfferName string
	Price     int64
	Unit      string
	SortOrder int
}

func (in OfferInput) validate() error {
	if in.GameName == "" {
		return fmt.Errorf("game name is required")
	}
	if in.OfferName == "" {
		return fmt.Errorf("offer name is required")
	}
	// Orders carry the offer price as their debit amount, and the stores
	// reject zero-amount orders, so a free offer can never be purchasable.
	if in.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

// Create adds a new offer to the catalog.
func (s *Service) Create(ctx context.Context, input OfferInput) (Offer, error) {
	if err := input.validate(); err != nil {
		return Offer{}, err
	}
	offer := Offer{
		ID:        uuid.New().String(),
		GameName:  input.GameName,
		OfferName: input.OfferName,
		Price:     input.Price,
		Unit:      input.Unit,
		SortOrder: input.SortOrder,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, offer); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// Update replaces an existing offer's fields.
func (s *Service) Update(ctx context.Context, id string, input OfferInput) (Offer, error) {
	if err := input.validate(); err != nil {
		return Offer{}, err
	}
	offer, err := s.repo.Get(ctx, id)
	if err != nil {
		return Offer{}, err
	}
	offer.GameName = input.GameName
	offer.OfferName = input.OfferName
	offer.Price = input.Price
	offer.Unit = input.Unit
	offer.SortOrder = input.SortOrder
	if err := s.repo.Update(ctx, offer); err != nil {
		return Offer{}, err
	}
	return offer, nil
}

// Get fetches one offer.
func (s *Service) Get(ctx context.Context, id string) (Offer, error) {
	return s.repo.Get(ctx, id)
}

// List returns all offers in display order.
func (s *Service) List(ctx context.Context) ([]Offer, error) {
	return s.repo.List(ctx)
}

// GroupedByGame returns offers bucketed by game, preserving display order
// within each bucket. The dashboard renders one card per game.
func (s *Service) GroupedByGame(ctx context.Context) (map[string][]Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]Offer)
	for _, offer := range offers {
		grouped[offer.GameName] = append(grouped[offer.GameName], offer)
	}
	return grouped, nil
}
