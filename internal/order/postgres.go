package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores orders in PostgreSQL. Kind-specific payloads are
// kept as JSON next to the common envelope; listing queries never need to
// look inside them.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an order record.
func (r *PostgresRepository) Create(ctx context.Context, o Order) error {
	orderID, err := uuid.Parse(o.ID)
	if err != nil {
		return err
	}
	accountID, err := uuid.Parse(o.AccountID)
	if err != nil {
		return err
	}
	details, err := marshalDetails(o)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO orders (id, account_id, username, wallet_id, kind, amount, status, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		orderID, accountID, o.Username, o.WalletID, string(o.Kind), o.Amount, string(o.Status), details, o.CreatedAt.UTC())
	return err
}

// Get fetches one order.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return Order{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, selectOrder+` WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// SetStatus moves a pending order to the given status. The WHERE clause on
// the current status makes the transition atomic: a concurrent completion
// loses cleanly instead of overwriting.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status Status) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		string(status), orderID, string(StatusPending))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Distinguish a missing order from one already resolved.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// ListByAccount returns the account's orders, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]Order, error) {
	accID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := r.db.Query(ctx, selectOrder+` WHERE account_id = $1 ORDER BY created_at DESC`, accID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListPending returns pending orders across all accounts, newest first. This
// is the admin fulfillment queue.
func (r *PostgresRepository) ListPending(ctx context.Context) ([]Order, error) {
	rows, err := r.db.Query(ctx, selectOrder+` WHERE status = $1 ORDER BY created_at DESC`, string(StatusPending))
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

const selectOrder = `SELECT id, account_id, username, wallet_id, kind, amount, status, details, created_at FROM orders`

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var (
		o         Order
		id        uuid.UUID
		accountID uuid.UUID
		kind      string
		status    string
		details   []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &accountID, &o.Username, &o.WalletID, &kind, &o.Amount, &status, &details, &createdAt); err != nil {
		return Order{}, err
	}
	o.ID = id.String()
	o.AccountID = accountID.String()
	o.Kind = Kind(kind)
	o.Status = Status(status)
	o.CreatedAt = createdAt.UTC()
	if err := unmarshalDetails(&o, details); err != nil {
		return Order{}, err
	}
	return o, nil
}

func marshalDetails(o Order) ([]byte, error) {
	switch o.Kind {
	case KindPurchase:
		if o.Purchase == nil {
			return nil, fmt.Errorf("purchase order missing details")
		}
		return json.Marshal(o.Purchase)
	case KindTopUp:
		if o.TopUp == nil {
			return json.Marshal(TopUpDetails{})
		}
		return json.Marshal(o.TopUp)
	case KindTransfer:
		if o.Transfer == nil {
			return nil, fmt.Errorf("transfer order missing details")
		}
		return json.Marshal(o.Transfer)
	default:
		return nil, fmt.Errorf("unknown order kind %q", o.Kind)
	}
}

func unmarshalDetails(o *Order, details []byte) error {
	switch o.Kind {
	case KindPurchase:
		o.Purchase = new(PurchaseDetails)
		return json.Unmarshal(details, o.Purchase)
	case KindTopUp:
		o.TopUp = new(TopUpDetails)
		return json.Unmarshal(details, o.TopUp)
	case KindTransfer:
		o.Transfer = new(TransferDetails)
		return json.Unmarshal(details, o.Transfer)
	default:
		return fmt.Errorf("unknown order kind %q", o.Kind)
	}
}
