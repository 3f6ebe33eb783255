package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the offer does not exist.
var ErrNotFound = errors.New("offer not found")

// Repository persists catalog offers.
type Repository interface {
	Create(ctx context.Context, offer Offer) error
	Update(ctx context.Context, offer Offer) error
	Get(ctx context.Context, id string) (Offer, error)
	List(ctx context.Context) ([]Offer, error)
}

// PostgresRepository stores offers in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an offer record.
func (r *PostgresRepository) Create(ctx context.Context, offer Offer) error {
	offerID, err := uuid.Parse(offer.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO offers (id, game_name, offer_name, price, unit, sort_order, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		offerID, offer.GameName, offer.OfferName, offer.Price, offer.Unit, offer.SortOrder, offer.CreatedAt.UTC())
	return err
}

// Update replaces the mutable fields of an offer.
func (r *PostgresRepository) Update(ctx context.Context, offer Offer) error {
	offerID, err := uuid.Parse(offer.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE offers SET game_name = $1, offer_name = $2, price = $3, unit = $4, sort_order = $5
        WHERE id = $6`,
		offer.GameName, offer.OfferName, offer.Price, offer.Unit, offer.SortOrder, offerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches a single offer.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Offer, error) {
	offerID, err := uuid.Parse(id)
	if err != nil {
		return Offer{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, game_name, offer_name, price, unit, sort_order, created_at
        FROM offers WHERE id = $1`, offerID)
	return scanOffer(row)
}

// List returns all offers in display order.
func (r *PostgresRepository) List(ctx context.Context) ([]Offer, error) {
	rows, err := r.db.Query(ctx, `SELECT id, game_name, offer_name, price, unit, sort_order, created_at
        FROM offers ORDER BY sort_order ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (Offer, error) {
	var (
		offer     Offer
		id        uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &offer.GameName, &offer.OfferName, &offer.Price, &offer.Unit, &offer.SortOrder, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, ErrNotFound
		}
		return Offer{}, err
	}
	offer.ID = id.String()
	offer.CreatedAt = createdAt.UTC()
	return offer, nil
}
