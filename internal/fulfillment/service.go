package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/notification"
	"github.com/hassanalbraa/kingstore/internal/order"
	"github.com/hassanalbraa/kingstore/internal/txlog"
)

var (
	// ErrInsufficientFunds indicates the requested debit exceeds the current
	// balance. Nothing was written; the user can top up and retry.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrIncompleteInput indicates required kind-specific fields are missing.
	ErrIncompleteInput = errors.New("incomplete input")

	// ErrInvalidAmount indicates a non-positive user-supplied amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrWalletNotFound indicates the funding target wallet does not resolve.
	ErrWalletNotFound = errors.New("wallet not found")
)

// Service coordinates the debit→order→log protocol for every user-initiated
// monetary action and the admin-side resolution operations.
//
// The three writes touch independent records, so they are not a single store
// transaction. The balance debit goes first; if a subsequent order or ledger
// write fails the debit stands and the gap is logged for manual
// reconciliation. See DESIGN.md for the policy discussion.
type Service struct {
	accounts account.Repository
	orders   order.Repository
	ledger   txlog.Repository
	offers   catalog.Repository
	notifier notification.Notifier
	logger   *slog.Logger

	playerIDGames map[string]struct{}
}

// NewService builds the fulfillment coordinator. gamesRequiringPlayerID lists
// the game categories whose purchases must carry in-game identifiers.
func NewService(
	accounts account.Repository,
	orders order.Repository,
	ledger txlog.Repository,
	offers catalog.Repository,
	notifier notification.Notifier,
	logger *slog.Logger,
	gamesRequiringPlayerID []string,
) *Service {
	games := make(map[string]struct{}, len(gamesRequiringPlayerID))
	for _, g := range gamesRequiringPlayerID {
		games[g] = struct{}{}
	}
	return &Service{
		accounts: accounts,
		orders:   orders,
		ledger:   ledger,
		offers:   offers,
		notifier: notifier,
		logger:   logger,

		playerIDGames: games,
	}
}

// Receipt describes the outcome of a successful user-initiated action.
type Receipt struct {
	OrderID    string
	NewBalance int64
	CreatedAt  time.Time
}

// PurchaseInput captures a catalog purchase request.
type PurchaseInput struct {
	AccountID  string
	OfferID    string
	PlayerID   string
	PlayerName string
}

// Purchase debits the offer price and queues a pending purchase order.
//
// The balance precheck avoids touching the ledger for obviously underfunded
// requests; the authoritative check is the atomic adjust, which also covers
// the race against a concurrent spend on the same account.
func (s *Service) Purchase(ctx context.Context, input PurchaseInput) (Receipt, error) {
	acc, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		return Receipt{}, err
	}
	offer, err := s.offers.Get(ctx, input.OfferID)
	if err != nil {
		return Receipt{}, err
	}

	if acc.Balance < offer.Price {
		return Receipt{}, ErrInsufficientFunds
	}

	if s.requiresPlayerID(offer.GameName) && (input.PlayerID == "" || input.PlayerName == "") {
		return Receipt{}, ErrIncompleteInput
	}

	o := order.Order{
		ID:        uuid.New().String(),
		AccountID: acc.ID,
		Username:  acc.Username,
		WalletID:  acc.WalletID,
		Kind:      order.KindPurchase,
		Amount:    offer.Price,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
		Purchase: &order.PurchaseDetails{
			OfferID:    offer.ID,
			GameName:   offer.GameName,
			OfferName:  offer.OfferName,
			PlayerID:   input.PlayerID,
			PlayerName: input.PlayerName,
		},
	}

	return s.debitAndRecord(ctx, acc, o)
}

// TopUpInput captures a user top-up request.
type TopUpInput struct {
	AccountID string
	Amount    int64
	Note      string
}

// TopUpRequest debits the user-supplied amount and queues a pending top-up
// order for manual handling.
func (s *Service) TopUpRequest(ctx context.Context, input TopUpInput) (Receipt, error) {
	if input.Amount <= 0 {
		return Receipt{}, ErrInvalidAmount
	}
	acc, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		return Receipt{}, err
	}
	if acc.Balance < input.Amount {
		return Receipt{}, ErrInsufficientFunds
	}

	o := order.Order{
		ID:        uuid.New().String(),
		AccountID: acc.ID,
		Username:  acc.Username,
		WalletID:  acc.WalletID,
		Kind:      order.KindTopUp,
		Amount:    input.Amount,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
		TopUp:     &order.TopUpDetails{Note: input.Note},
	}

	return s.debitAndRecord(ctx, acc, o)
}

// TransferInput captures a credit transfer request to another wallet.
type TransferInput struct {
	AccountID    string
	Amount       int64
	DestWalletID string
	DestName     string
}

// TransferRequest debits the amount and queues a pending transfer order. The
// actual credit to the destination happens out-of-band when an administrator
// resolves the order.
func (s *Service) TransferRequest(ctx context.Context, input TransferInput) (Receipt, error) {
	if input.Amount <= 0 {
		return Receipt{}, ErrInvalidAmount
	}
	if input.DestWalletID == "" {
		return Receipt{}, ErrIncompleteInput
	}
	acc, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		return Receipt{}, err
	}
	if acc.Balance < input.Amount {
		return Receipt{}, ErrInsufficientFunds
	}

	o := order.Order{
		ID:        uuid.New().String(),
		AccountID: acc.ID,
		Username:  acc.Username,
		WalletID:  acc.WalletID,
		Kind:      order.KindTransfer,
		Amount:    input.Amount,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
		Transfer:  &order.TransferDetails{DestWalletID: input.DestWalletID, DestName: input.DestName},
	}

	return s.debitAndRecord(ctx, acc, o)
}

// debitAndRecord runs the shared debit→order→log protocol. The debit is the
// only atomic step; later failures leave the debit committed and are logged
// with enough context to reconcile.
func (s *Service) debitAndRecord(ctx context.Context, acc account.Account, o order.Order) (Receipt, error) {
	newBalance, err := s.accounts.AdjustBalance(ctx, acc.ID, -o.Amount)
	if err != nil {
		if errors.Is(err, account.ErrInsufficientBalance) {
			return Receipt{}, ErrInsufficientFunds
		}
		return Receipt{}, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		s.logError("debit committed but order write failed",
			slog.String("account_id", acc.ID),
			slog.String("order_id", o.ID),
			slog.Int64("amount", o.Amount),
			slog.Any("error", err),
		)
		return Receipt{}, err
	}

	entry := txlog.Transaction{
		AccountID:   acc.ID,
		Kind:        txlog.KindPurchase,
		Amount:      -o.Amount,
		Description: o.Description(),
		CreatedAt:   o.CreatedAt,
	}
	if _, err := s.ledger.Append(ctx, entry); err != nil {
		// The order exists and the money moved; a missing statement row is
		// recoverable from this log line.
		s.logError("order created but ledger append failed",
			slog.String("account_id", acc.ID),
			slog.String("order_id", o.ID),
			slog.Int64("amount", o.Amount),
			slog.Any("error", err),
		)
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindOrderPlaced,
		Destination: acc.ID,
		Body:        fmt.Sprintf("order %s placed: %s", o.ID, o.Description()),
	})

	return Receipt{OrderID: o.ID, NewBalance: newBalance, CreatedAt: o.CreatedAt}, nil
}

// AdminFund credits amount to the account owning walletID and records the
// ledger entry. No order is created: administrative funding is immediate.
func (s *Service) AdminFund(ctx context.Context, walletID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	acc, err := s.accounts.FindByWalletID(ctx, walletID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}

	newBalance, err := s.accounts.AdjustBalance(ctx, acc.ID, amount)
	if err != nil {
		return 0, err
	}

	entry := txlog.Transaction{
		AccountID:   acc.ID,
		Kind:        txlog.KindTopUp,
		Amount:      amount,
		Description: "شحن من الأدمن",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.ledger.Append(ctx, entry); err != nil {
		s.logError("funding credited but ledger append failed",
			slog.String("account_id", acc.ID),
			slog.Int64("amount", amount),
			slog.Any("error", err),
		)
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindWalletFunded,
		Destination: acc.ID,
		Body:        fmt.Sprintf("wallet %s funded with %d", walletID, amount),
	})

	return newBalance, nil
}

// CompleteOrder marks a pending order as fulfilled. Funds already moved at
// request time, so there is no balance effect.
func (s *Service) CompleteOrder(ctx context.Context, orderID string) error {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.SetStatus(ctx, orderID, order.StatusCompleted); err != nil {
		return err
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindOrderResolved,
		Destination: o.AccountID,
		Body:        fmt.Sprintf("order %s completed", orderID),
	})
	return nil
}

// FailOrder marks a pending order as failed and refunds the debit. The
// status flip happens first and is atomic on the pending state, so a
// concurrent resolution cannot double-refund.
func (s *Service) FailOrder(ctx context.Context, orderID string) error {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.SetStatus(ctx, orderID, order.StatusFailed); err != nil {
		return err
	}

	if _, err := s.accounts.AdjustBalance(ctx, o.AccountID, o.Amount); err != nil {
		s.logError("order failed but refund credit failed",
			slog.String("account_id", o.AccountID),
			slog.String("order_id", o.ID),
			slog.Int64("amount", o.Amount),
			slog.Any("error", err),
		)
		return err
	}

	entry := txlog.Transaction{
		AccountID:   o.AccountID,
		Kind:        txlog.KindTopUp,
		Amount:      o.Amount,
		Description: "استرداد: " + o.Description(),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.ledger.Append(ctx, entry); err != nil {
		s.logError("refund credited but ledger append failed",
			slog.String("account_id", o.AccountID),
			slog.String("order_id", o.ID),
			slog.Any("error", err),
		)
	}

	s.notify(ctx, notification.Message{
		Kind:        notification.KindOrderResolved,
		Destination: o.AccountID,
		Body:        fmt.Sprintf("order %s failed, %d refunded", orderID, o.Amount),
	})
	return nil
}

// Orders lists the account's orders, newest first.
func (s *Service) Orders(ctx context.Context, accountID string) ([]order.Order, error) {
	return s.orders.ListByAccount(ctx, accountID)
}

// PendingOrders lists the admin fulfillment queue across all accounts.
func (s *Service) PendingOrders(ctx context.Context) ([]order.Order, error) {
	return s.orders.ListPending(ctx)
}

// Statement lists the account's ledger entries, newest first.
func (s *Service) Statement(ctx context.Context, accountID string) ([]txlog.Transaction, error) {
	return s.ledger.ListByAccount(ctx, accountID)
}

func (s *Service) requiresPlayerID(gameName string) bool {
	_, ok := s.playerIDGames[gameName]
	return ok
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, msg)
}

func (s *Service) logError(msg string, attrs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg, attrs...)
}
