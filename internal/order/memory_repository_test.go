package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func pendingOrder(accountID string, createdAt time.Time) Order {
	return Order{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Username:  "tester",
		WalletID:  "1234567",
		Kind:      KindTopUp,
		Amount:    1_000,
		Status:    StatusPending,
		CreatedAt: createdAt,
		TopUp:     &TopUpDetails{},
	}
}

func TestSetStatusForwardOnly(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	o := pendingOrder(uuid.NewString(), time.Now().UTC())
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetStatus(ctx, o.ID, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := repo.SetStatus(ctx, o.ID, StatusFailed); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected not pending on resolved order, got %v", err)
	}

	got, err := repo.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("losing transition must not overwrite, got %q", got.Status)
	}

	if err := repo.SetStatus(ctx, uuid.NewString(), StatusFailed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListByAccountNewestFirst(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	accountID := uuid.NewString()

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if err := repo.Create(ctx, pendingOrder(accountID, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(ctx, pendingOrder(uuid.NewString(), base)); err != nil {
		t.Fatalf("create other: %v", err)
	}

	orders, err := repo.ListByAccount(ctx, accountID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Fatalf("orders not newest first: %v before %v", orders[i-1].CreatedAt, orders[i].CreatedAt)
		}
	}
}

func TestListPendingExcludesResolved(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	open := pendingOrder(uuid.NewString(), time.Now().UTC())
	done := pendingOrder(uuid.NewString(), time.Now().UTC())
	if err := repo.Create(ctx, open); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, done); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SetStatus(ctx, done.ID, StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != open.ID {
		t.Fatalf("expected only the open order, got %+v", pending)
	}
}
