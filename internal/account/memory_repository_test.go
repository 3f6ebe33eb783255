package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func seedAccount(t *testing.T, repo Repository, balance int64) Account {
	t.Helper()
	acc := Account{
		ID:        uuid.NewString(),
		Username:  "tester",
		Email:     uuid.NewString() + "@example.com",
		WalletID:  uuid.NewString(),
		Balance:   balance,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), acc); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}

func TestAdjustBalanceFloor(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	acc := seedAccount(t, repo, 100)

	if _, err := repo.AdjustBalance(ctx, acc.ID, -150); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}

	got, err := repo.FindByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Balance != 100 {
		t.Fatalf("rejected debit must not change balance, got %d", got.Balance)
	}
}

func TestAdjustBalanceUnknownAccount(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.AdjustBalance(context.Background(), uuid.NewString(), 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAdjustBalanceConcurrentDebits(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	acc := seedAccount(t, repo, 100)

	const attempts = 200
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustBalance(ctx, acc.ID, -1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 100 {
		t.Fatalf("expected exactly 100 debits to land, got %d", succeeded)
	}
	got, err := repo.FindByID(ctx, acc.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Balance != 0 {
		t.Fatalf("expected zero balance, got %d", got.Balance)
	}
}
