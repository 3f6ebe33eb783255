package order

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("order not found")

	// ErrNotPending occurs when a status transition is requested on an order
	// that already reached a terminal status.
	ErrNotPending = errors.New("order is not pending")
)

// Repository persists orders. Monetary fields are write-once; SetStatus is
// the only mutation and only moves an order out of StatusPending.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	SetStatus(ctx context.Context, id string, status Status) error
	ListByAccount(ctx context.Context, accountID string) ([]Order, error)
	ListPending(ctx context.Context) ([]Order, error)
}
