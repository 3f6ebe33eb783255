package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hassanalbraa/kingstore/internal/logging"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "admin@king.store", logging.Discard())
	ctx := context.Background()

	acc, err := svc.Register(ctx, RegisterInput{Username: "hassan", Email: "Hassan@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if acc.Role != RoleUser {
		t.Fatalf("expected user role, got %q", acc.Role)
	}
	if acc.Balance != 0 {
		t.Fatalf("expected zero opening balance, got %d", acc.Balance)
	}
	if len(acc.WalletID) != 7 {
		t.Fatalf("expected 7 digit wallet id, got %q", acc.WalletID)
	}

	got, err := svc.Authenticate(ctx, "hassan@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != acc.ID {
		t.Fatalf("expected account %s, got %s", acc.ID, got.ID)
	}

	if _, err := svc.Authenticate(ctx, "hassan@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestRegisterAdminRole(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "admin@king.store", logging.Discard())

	acc, err := svc.Register(context.Background(), RegisterInput{Username: "boss", Email: "Admin@King.Store", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !acc.IsAdmin() {
		t.Fatalf("expected admin role, got %q", acc.Role)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "", logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "secret1"}); err == nil {
		t.Fatal("expected error for missing username")
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "u", Password: "secret1"}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "u", Email: "a@b.c", Password: "short"}); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "", logging.Discard())
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "a", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "b", Email: "a@b.c", Password: "secret1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestConcurrentRegistrationsGetDistinctWalletIDs(t *testing.T) {
	svc := NewService(NewMemoryRepository(), "", logging.Discard())
	ctx := context.Background()

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		wallets = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acc, err := svc.Register(ctx, RegisterInput{
				Username: fmt.Sprintf("user%d", i),
				Email:    fmt.Sprintf("user%d@example.com", i),
				Password: "secret1",
			})
			if err != nil {
				t.Errorf("register %d: %v", i, err)
				return
			}
			mu.Lock()
			wallets[acc.WalletID] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	if len(wallets) != n {
		t.Fatalf("expected %d distinct wallet ids, got %d", n, len(wallets))
	}
}

// alwaysTakenRepo simulates an identifier space where every draw collides.
type alwaysTakenRepo struct {
	Repository
}

func (alwaysTakenRepo) Create(context.Context, Account) error { return ErrWalletIDTaken }

func TestRegisterAllocationExhausted(t *testing.T) {
	svc := NewService(alwaysTakenRepo{}, "", logging.Discard())

	_, err := svc.Register(context.Background(), RegisterInput{Username: "u", Email: "a@b.c", Password: "secret1"})
	if !errors.Is(err, ErrAllocationExhausted) {
		t.Fatalf("expected allocation exhausted, got %v", err)
	}
}
