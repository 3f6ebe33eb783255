package account

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the account does not exist.
	ErrNotFound = errors.New("account not found")

	// ErrEmailTaken indicates a registration attempt with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrWalletIDTaken occurs when the drawn wallet identifier collides with
	// an existing account. The caller redraws and retries.
	ErrWalletIDTaken = errors.New("wallet id already assigned")

	// ErrInsufficientBalance occurs when a debit would push the balance below
	// zero. Nothing is written.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Repository persists accounts. Create is the atomic check-and-reserve for
// the wallet identifier: implementations must reject duplicates with
// ErrWalletIDTaken so two concurrent registrations can never share an ID.
type Repository interface {
	Create(ctx context.Context, acc Account) error
	FindByID(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	FindByWalletID(ctx context.Context, walletID string) (Account, error)
	List(ctx context.Context) ([]Account, error)

	// AdjustBalance applies a signed delta to the account balance as a single
	// serialized read-check-write and returns the new balance. A delta that
	// would make the balance negative fails with ErrInsufficientBalance and
	// leaves the stored balance untouched.
	AdjustBalance(ctx context.Context, id string, delta int64) (int64, error)
}
