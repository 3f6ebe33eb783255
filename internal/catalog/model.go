package catalog

import "time"

// Offer is a purchasable catalog entry at a fixed price, grouped by game.
type Offer struct {
	ID        string
	GameName  string
	OfferName string
	Price     int64
	Unit      string
	SortOrder int
	CreatedAt time.Time
}
