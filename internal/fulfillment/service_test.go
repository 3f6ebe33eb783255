package fulfillment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/logging"
	"github.com/hassanalbraa/kingstore/internal/notification"
	"github.com/hassanalbraa/kingstore/internal/order"
	"github.com/hassanalbraa/kingstore/internal/txlog"
)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *captureNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *captureNotifier) last() notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.msgs) == 0 {
		return notification.Message{}
	}
	return n.msgs[len(n.msgs)-1]
}

type testEnv struct {
	accounts account.Repository
	orders   order.Repository
	ledger   txlog.Repository
	offers   catalog.Repository
	notifier *captureNotifier
	svc      *Service
}

func newTestEnv() *testEnv {
	e := &testEnv{
		accounts: account.NewMemoryRepository(),
		orders:   order.NewMemoryRepository(),
		ledger:   txlog.NewMemoryRepository(),
		offers:   catalog.NewMemoryRepository(),
		notifier: &captureNotifier{},
	}
	e.svc = NewService(e.accounts, e.orders, e.ledger, e.offers, e.notifier, logging.Discard(), []string{"PUBG"})
	return e
}

func (e *testEnv) addAccount(t *testing.T, walletID string, balance int64) account.Account {
	t.Helper()
	acc := account.Account{
		ID:        uuid.NewString(),
		Username:  "tester",
		Email:     uuid.NewString() + "@example.com",
		WalletID:  walletID,
		Balance:   balance,
		Role:      account.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.accounts.Create(context.Background(), acc); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}

func (e *testEnv) addOffer(t *testing.T, game, name string, price int64) catalog.Offer {
	t.Helper()
	offer := catalog.Offer{
		ID:        uuid.NewString(),
		GameName:  game,
		OfferName: name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.offers.Create(context.Background(), offer); err != nil {
		t.Fatalf("seed offer: %v", err)
	}
	return offer
}

func (e *testEnv) balance(t *testing.T, accountID string) int64 {
	t.Helper()
	acc, err := e.accounts.FindByID(context.Background(), accountID)
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	return acc.Balance
}

func TestPurchaseDebitsAndQueuesOrder(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 1_000)
	offer := e.addOffer(t, "Free Fire", "100 💎", 350)

	receipt, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if receipt.NewBalance != 650 {
		t.Fatalf("expected new balance 650, got %d", receipt.NewBalance)
	}

	orders, err := e.svc.Orders(ctx, acc.ID)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.Kind != order.KindPurchase || o.Status != order.StatusPending || o.Amount != 350 {
		t.Fatalf("unexpected order: %+v", o)
	}
	if o.Purchase == nil || o.Purchase.OfferID != offer.ID {
		t.Fatalf("expected purchase details for offer %s, got %+v", offer.ID, o.Purchase)
	}

	entries, err := e.svc.Statement(ctx, acc.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(entries) != 1 || entries[0].Amount != -350 {
		t.Fatalf("expected single -350 entry, got %+v", entries)
	}

	if e.notifier.last().Kind != notification.KindOrderPlaced {
		t.Fatalf("expected order placed notification, got %+v", e.notifier.last())
	}
}

func TestPurchaseInsufficientFunds(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 100)
	offer := e.addOffer(t, "Free Fire", "100 💎", 150)

	if _, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	if got := e.balance(t, acc.ID); got != 100 {
		t.Fatalf("rejected purchase must not move money, balance %d", got)
	}
	orders, _ := e.svc.Orders(ctx, acc.ID)
	if len(orders) != 0 {
		t.Fatalf("rejected purchase must not create orders, got %d", len(orders))
	}
	entries, _ := e.svc.Statement(ctx, acc.ID)
	if len(entries) != 0 {
		t.Fatalf("rejected purchase must not write ledger entries, got %d", len(entries))
	}
}

func TestPurchaseRequiresPlayerID(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 10_000)
	offer := e.addOffer(t, "PUBG", "60 شدة", 3_500)

	if _, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID}); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input, got %v", err)
	}
	if _, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID, PlayerID: "555"}); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input without player name, got %v", err)
	}

	receipt, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID, PlayerID: "555", PlayerName: "hassan"})
	if err != nil {
		t.Fatalf("purchase with identifiers: %v", err)
	}
	if receipt.NewBalance != 6_500 {
		t.Fatalf("expected balance 6500, got %d", receipt.NewBalance)
	}
}

func TestPurchaseUnknownOffer(t *testing.T) {
	e := newTestEnv()
	acc := e.addAccount(t, "1111111", 1_000)

	if _, err := e.svc.Purchase(context.Background(), PurchaseInput{AccountID: acc.ID, OfferID: uuid.NewString()}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected offer not found, got %v", err)
	}
}

func TestTopUpRequestValidation(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 1_000)

	if _, err := e.svc.TopUpRequest(ctx, TopUpInput{AccountID: acc.ID, Amount: 0}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := e.svc.TopUpRequest(ctx, TopUpInput{AccountID: acc.ID, Amount: -50}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}

	receipt, err := e.svc.TopUpRequest(ctx, TopUpInput{AccountID: acc.ID, Amount: 400, Note: "cash at counter"})
	if err != nil {
		t.Fatalf("top-up request: %v", err)
	}
	if receipt.NewBalance != 600 {
		t.Fatalf("expected balance 600, got %d", receipt.NewBalance)
	}
}

func TestTransferRequestValidation(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 1_000)

	if _, err := e.svc.TransferRequest(ctx, TransferInput{AccountID: acc.ID, Amount: 100}); !errors.Is(err, ErrIncompleteInput) {
		t.Fatalf("expected incomplete input without destination, got %v", err)
	}

	receipt, err := e.svc.TransferRequest(ctx, TransferInput{AccountID: acc.ID, Amount: 100, DestWalletID: "2222222", DestName: "friend"})
	if err != nil {
		t.Fatalf("transfer request: %v", err)
	}
	if receipt.NewBalance != 900 {
		t.Fatalf("expected balance 900, got %d", receipt.NewBalance)
	}

	orders, _ := e.svc.Orders(ctx, acc.ID)
	if len(orders) != 1 || orders[0].Kind != order.KindTransfer {
		t.Fatalf("expected one transfer order, got %+v", orders)
	}
	if orders[0].Transfer == nil || orders[0].Transfer.DestWalletID != "2222222" {
		t.Fatalf("expected destination wallet in details, got %+v", orders[0].Transfer)
	}
}

func TestAdminFund(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "4821093", 0)

	if _, err := e.svc.AdminFund(ctx, "4821093", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := e.svc.AdminFund(ctx, "0000000", 500); !errors.Is(err, ErrWalletNotFound) {
		t.Fatalf("expected wallet not found, got %v", err)
	}

	newBalance, err := e.svc.AdminFund(ctx, "4821093", 500)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if newBalance != 500 {
		t.Fatalf("expected balance 500, got %d", newBalance)
	}

	orders, _ := e.svc.Orders(ctx, acc.ID)
	if len(orders) != 0 {
		t.Fatalf("funding must not create orders, got %d", len(orders))
	}
	entries, _ := e.svc.Statement(ctx, acc.ID)
	if len(entries) != 1 || entries[0].Amount != 500 {
		t.Fatalf("expected single +500 entry, got %+v", entries)
	}
	if entries[0].Description != "شحن من الأدمن" {
		t.Fatalf("unexpected funding description %q", entries[0].Description)
	}
	if e.notifier.last().Kind != notification.KindWalletFunded {
		t.Fatalf("expected wallet funded notification, got %+v", e.notifier.last())
	}
}

func TestCompleteOrderOnlyOnce(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 1_000)
	offer := e.addOffer(t, "Free Fire", "100 💎", 350)

	receipt, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if err := e.svc.CompleteOrder(ctx, receipt.OrderID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := e.svc.CompleteOrder(ctx, receipt.OrderID); !errors.Is(err, order.ErrNotPending) {
		t.Fatalf("expected not pending on second completion, got %v", err)
	}
	if err := e.svc.CompleteOrder(ctx, uuid.NewString()); !errors.Is(err, order.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	// Completion never moves money; it only resolves the queue entry.
	if got := e.balance(t, acc.ID); got != 650 {
		t.Fatalf("expected balance 650 after completion, got %d", got)
	}
}

func TestFailOrderRefunds(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 1_000)
	offer := e.addOffer(t, "Free Fire", "100 💎", 350)

	receipt, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if got := e.balance(t, acc.ID); got != 650 {
		t.Fatalf("expected balance 650 after purchase, got %d", got)
	}

	if err := e.svc.FailOrder(ctx, receipt.OrderID); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if got := e.balance(t, acc.ID); got != 1_000 {
		t.Fatalf("expected refund back to 1000, got %d", got)
	}

	o, err := e.orders.Get(ctx, receipt.OrderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != order.StatusFailed {
		t.Fatalf("expected failed status, got %q", o.Status)
	}

	entries, _ := e.svc.Statement(ctx, acc.ID)
	if len(entries) != 2 {
		t.Fatalf("expected debit and refund entries, got %d", len(entries))
	}
	var refund *txlog.Transaction
	for i := range entries {
		if entries[i].Amount == 350 {
			refund = &entries[i]
		}
	}
	if refund == nil || !strings.HasPrefix(refund.Description, "استرداد: ") {
		t.Fatalf("expected refund entry, got %+v", entries)
	}

	// The pending-only transition guards against a double refund.
	if err := e.svc.FailOrder(ctx, receipt.OrderID); !errors.Is(err, order.ErrNotPending) {
		t.Fatalf("expected not pending on second failure, got %v", err)
	}
	if got := e.balance(t, acc.ID); got != 1_000 {
		t.Fatalf("balance changed on rejected second refund: %d", got)
	}
}

func TestConcurrentPurchasesSingleWinner(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "1111111", 500)
	offer := e.addOffer(t, "Free Fire", "100 💎", 350)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		won, refused int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case errors.Is(err, ErrInsufficientFunds):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if won != 1 || refused != 1 {
		t.Fatalf("expected exactly one winner, got won=%d refused=%d", won, refused)
	}
	if got := e.balance(t, acc.ID); got != 150 {
		t.Fatalf("expected balance 150, got %d", got)
	}
	orders, _ := e.svc.Orders(ctx, acc.ID)
	if len(orders) != 1 {
		t.Fatalf("expected one order, got %d", len(orders))
	}
}

func TestLedgerBalancesAgainstAccount(t *testing.T) {
	e := newTestEnv()
	ctx := context.Background()
	acc := e.addAccount(t, "4821093", 0)
	offer := e.addOffer(t, "Free Fire", "100 💎", 350)

	if _, err := e.svc.AdminFund(ctx, "4821093", 1_000); err != nil {
		t.Fatalf("fund: %v", err)
	}
	first, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	if err := e.svc.FailOrder(ctx, first.OrderID); err != nil {
		t.Fatalf("fail: %v", err)
	}
	second, err := e.svc.Purchase(ctx, PurchaseInput{AccountID: acc.ID, OfferID: offer.ID})
	if err != nil {
		t.Fatalf("second purchase: %v", err)
	}
	if err := e.svc.CompleteOrder(ctx, second.OrderID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	entries, err := e.svc.Statement(ctx, acc.ID)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	var sum int64
	for _, entry := range entries {
		sum += entry.Amount
	}
	if got := e.balance(t, acc.ID); sum != got {
		t.Fatalf("ledger sum %d disagrees with balance %d", sum, got)
	}
}
