package txlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the append-only transaction log. There is deliberately no
// update or delete operation.
type Repository interface {
	Append(ctx context.Context, tx Transaction) (string, error)
	ListByAccount(ctx context.Context, accountID string) ([]Transaction, error)
}

// PostgresRepository stores ledger entries in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts a ledger entry and returns its identifier.
func (r *PostgresRepository) Append(ctx context.Context, tx Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return "", err
	}
	accountID, err := uuid.Parse(tx.AccountID)
	if err != nil {
		return "", err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions (id, account_id, kind, amount, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		txID, accountID, string(tx.Kind), tx.Amount, tx.Description, tx.CreatedAt.UTC())
	if err != nil {
		return "", err
	}
	return tx.ID, nil
}

// ListByAccount returns the account's statement, newest first.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	accID, err := uuid.Parse(accountID)
	if err != nil {
		return nil, errors.New("invalid account id")
	}
	rows, err := r.db.Query(ctx, `SELECT id, account_id, kind, amount, description, created_at
        FROM transactions WHERE account_id = $1 ORDER BY created_at DESC`, accID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var (
			entry     Transaction
			id        uuid.UUID
			account   uuid.UUID
			kind      string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &account, &kind, &entry.Amount, &entry.Description, &createdAt); err != nil {
			return nil, err
		}
		entry.ID = id.String()
		entry.AccountID = account.String()
		entry.Kind = Kind(kind)
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
