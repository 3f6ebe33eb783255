package txlog

import "time"

// Kind classifies a ledger entry for statement display.
type Kind string

const (
	// KindPurchase marks a debit made for a purchase or outgoing request.
	KindPurchase Kind = "purchase"
	// KindTopUp marks a credit, administrative or refund.
	KindTopUp Kind = "top-up"
)

// Transaction is one append-only audit record of a balance-affecting event.
// Amount is signed: negative for debits, positive for credits. Entries are
// never mutated or deleted; for any account the amounts must sum to its
// current balance.
type Transaction struct {
	ID          string
	AccountID   string
	Kind        Kind
	Amount      int64
	Description string
	CreatedAt   time.Time
}
