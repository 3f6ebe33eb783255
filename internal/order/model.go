package order

import "time"

// Kind discriminates the closed set of order variants.
type Kind string

const (
	// KindPurchase is a catalog offer purchase awaiting manual delivery.
	KindPurchase Kind = "purchase"
	// KindTopUp is a user-initiated top-up request.
	KindTopUp Kind = "topup_request"
	// KindTransfer is a credit transfer request to another wallet.
	KindTransfer Kind = "transfer_request"
)

// Status is the fulfillment state of an order. Transitions are forward-only:
// pending may become completed or failed, terminal states never change.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PurchaseDetails carries the offer reference and, for games that need them,
// the buyer's in-game identifiers.
type PurchaseDetails struct {
	OfferID    string `json:"offer_id"`
	GameName   string `json:"game_name"`
	OfferName  string `json:"offer_name"`
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
}

// TopUpDetails carries the free-form note attached to a top-up request.
type TopUpDetails struct {
	Note string `json:"note,omitempty"`
}

// TransferDetails identifies the destination of a credit transfer request.
type TransferDetails struct {
	DestWalletID string `json:"dest_wallet_id"`
	DestName     string `json:"dest_name,omitempty"`
}

// Order is one user-initiated monetary action awaiting fulfillment. The
// envelope fields are immutable once created; only Status moves. Exactly one
// of the detail pointers is set, matching Kind.
type Order struct {
	ID        string
	AccountID string
	Username  string
	WalletID  string
	Kind      Kind
	Amount    int64
	Status    Status
	CreatedAt time.Time

	Purchase *PurchaseDetails
	TopUp    *TopUpDetails
	Transfer *TransferDetails
}

// Description renders a short human-readable summary for admin listings and
// the transaction log.
func (o Order) Description() string {
	switch o.Kind {
	case KindPurchase:
		if o.Purchase != nil {
			return o.Purchase.GameName + " - " + o.Purchase.OfferName
		}
		return "purchase"
	case KindTransfer:
		if o.Transfer != nil {
			return "transfer to wallet " + o.Transfer.DestWalletID
		}
		return "transfer request"
	default:
		return "top-up request"
	}
}
