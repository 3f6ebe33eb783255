package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolationCode  = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"

	// adjustRetries bounds how many times a conflicting balance adjustment is
	// re-driven before the error is surfaced.
	adjustRetries = 3
)

// PostgresRepository stores accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an account. The unique indexes on email and wallet_id make
// the insert the check-and-reserve step for both values.
func (r *PostgresRepository) Create(ctx context.Context, acc Account) error {
	accountID, err := uuid.Parse(acc.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, username, email, password_hash, wallet_id, balance, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		accountID, acc.Username, acc.Email, acc.PasswordHash, acc.WalletID, acc.Balance, acc.Role, acc.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			if strings.Contains(pgErr.ConstraintName, "wallet_id") {
				return ErrWalletIDTaken
			}
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByID fetches an account by its internal identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE id = $1`, accountID))
}

// FindByEmail fetches an account by login email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE email = $1`, email))
}

// FindByWalletID resolves the public wallet identifier to an account. The
// lookup runs against the same unique index that guards allocation, so it can
// never disagree with what registration reserved.
func (r *PostgresRepository) FindByWalletID(ctx context.Context, walletID string) (Account, error) {
	return r.scanOne(r.db.QueryRow(ctx, selectAccount+` WHERE wallet_id = $1`, walletID))
}

// List returns all accounts, newest first. Used by the admin console.
func (r *PostgresRepository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, selectAccount+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// AdjustBalance applies the delta inside a transaction holding a row lock so
// concurrent adjustments on the same account serialize. Transient conflicts
// reported by the store are re-driven a bounded number of times.
func (r *PostgresRepository) AdjustBalance(ctx context.Context, id string, delta int64) (int64, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return 0, ErrNotFound
	}

	var balance int64
	for attempt := 0; ; attempt++ {
		balance, err = r.adjustOnce(ctx, accountID, delta)
		if err == nil || !isRetryable(err) || attempt >= adjustRetries {
			return balance, err
		}
	}
}

func (r *PostgresRepository) adjustOnce(ctx context.Context, accountID uuid.UUID, delta int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var current int64
	if err := tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	next := current + delta
	if next < 0 {
		return current, ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, next, accountID); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return next, nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
}

const selectAccount = `SELECT id, username, email, password_hash, wallet_id, balance, role, created_at FROM accounts`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row rowScanner) (Account, error) {
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return acc, nil
}

func scanAccount(row rowScanner) (Account, error) {
	var (
		acc       Account
		id        uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &acc.Username, &acc.Email, &acc.PasswordHash, &acc.WalletID, &acc.Balance, &acc.Role, &createdAt); err != nil {
		return Account{}, err
	}
	acc.ID = id.String()
	acc.CreatedAt = createdAt.UTC()
	return acc, nil
}
