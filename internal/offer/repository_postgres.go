package offer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wichananm65/food-order-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const offerColumns = `id, title, description, promo_code, discount_percent, image_url, is_active, valid_from, valid_until, created_at`

const (
	listLiveOffersQuery = `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE is_active
			AND (valid_from IS NULL OR valid_from <= $1)
			AND (valid_until IS NULL OR valid_until > $1)
		ORDER BY id DESC
		LIMIT $2`
	insertOfferQuery = `
		INSERT INTO offers (title, description, promo_code, discount_percent, image_url, is_active, valid_from, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + offerColumns
	setOfferActiveQuery = `UPDATE offers SET is_active = $1 WHERE id = $2 RETURNING ` + offerColumns
)

func (r *PostgresRepository) ListLive(ctx context.Context, now time.Time, limit int) ([]Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listLiveOffersQuery, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, o Offer) (Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	return scanOffer(r.db.QueryRowContext(ctx, insertOfferQuery,
		o.Title, o.Description, o.PromoCode, o.DiscountPercent, o.ImageURL, o.IsActive, o.ValidFrom, o.ValidUntil))
}

func (r *PostgresRepository) SetActive(ctx context.Context, id int, active bool) (Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	o, err := scanOffer(r.db.QueryRowContext(ctx, setOfferActiveQuery, active, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Offer{}, ErrNotFound
	}
	return o, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(s rowScanner) (Offer, error) {
	var (
		o           Offer
		from, until sql.NullTime
	)
	if err := s.Scan(&o.ID, &o.Title, &o.Description, &o.PromoCode, &o.DiscountPercent, &o.ImageURL,
		&o.IsActive, &from, &until, &o.CreatedAt); err != nil {
		return Offer{}, err
	}
	if from.Valid {
		o.ValidFrom = &from.Time
	}
	if until.Valid {
		o.ValidUntil = &until.Time
	}
	return o, nil
}
