package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// seedOffers is the launch catalog. Slice order determines display order.
var seedOffers = []OfferInput{
	{GameName: "PUBG", OfferName: "60 شدة", Price: 3500, Unit: "شدة"},
	{GameName: "PUBG", OfferName: "120 شدة", Price: 7000, Unit: "شدة"},
	{GameName: "PUBG", OfferName: "240 شدة", Price: 14000, Unit: "شدة"},
	{GameName: "Free Fire", OfferName: "100 💎", Price: 3400, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "210 💎", Price: 6800, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "530 💎", Price: 17000, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "1080 💎", Price: 34000, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "2200 💎", Price: 70000, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "عضوية أسبوعية", Price: 8000, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "عضوية شهرية", Price: 38500, Unit: "💎"},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 6 (120💎)", Price: 2000, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 10 (200💎)", Price: 3200, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 15 (200💎)", Price: 3200, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 20 (200💎)", Price: 3200, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 25 (200💎)", Price: 3200, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 30 (200💎)", Price: 3200, Unit: ""},
	{GameName: "Free Fire", OfferName: "باقة تصريح مستوى 35 (350💎)", Price: 4500, Unit: ""},
	{GameName: "عروض التجار / اكواد جارينا", OfferName: "10$ جارينا", Price: 33700, Unit: ""},
	{GameName: "عروض التجار / اكواد جارينا", OfferName: "20$ جارينا", Price: 33600, Unit: ""},
	{GameName: "عروض التجار / اكواد جارينا", OfferName: "50$ جارينا", Price: 33300, Unit: ""},
	{GameName: "عروض التيك توك", OfferName: "70 🪙", Price: 3500, Unit: "🪙"},
	{GameName: "عروض التيك توك", OfferName: "100 🪙", Price: 5250, Unit: "🪙"},
	{GameName: "عروض التيك توك", OfferName: "140 🪙", Price: 7000, Unit: "🪙"},
	{GameName: "عروض التيك توك", OfferName: "200 🪙", Price: 10500, Unit: "🪙"},
	{GameName: "عروض التيك توك", OfferName: "500 🪙", Price: 26000, Unit: "🪙"},
	{GameName: "عروض التيك توك", OfferName: "700 🪙", Price: 36000, Unit: "🪙"},
}

// Seed upserts the launch catalog keyed by offer name, assigning sort order
// from slice position. Safe to run repeatedly: existing offers are updated in
// place, new ones inserted, unknown offers left alone.
func (s *Service) Seed(ctx context.Context) (added, updated int, err error) {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return 0, 0, err
	}
	byName := make(map[string]Offer, len(existing))
	for _, offer := range existing {
		byName[offer.OfferName] = offer
	}

	for i, input := range seedOffers {
		input.SortOrder = i + 1
		if current, ok := byName[input.OfferName]; ok {
			current.GameName = input.GameName
			current.Price = input.Price
			current.Unit = input.Unit
			current.SortOrder = input.SortOrder
			if err := s.repo.Update(ctx, current); err != nil {
				return added, updated, err
			}
			updated++
			continue
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
			return added, updated, err
		}
		added++
	}
	return added, updated, nil
}
