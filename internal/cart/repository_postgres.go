package cart

import (
	"context"
	"database/sql"

	"github.com/wichananm65/food-order-backend/internal/database"
	"github.com/wichananm65/food-order-backend/internal/pricing"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCartLinesQuery = `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY id
	`
	addCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
	`
	setCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
	`
	removeCartItemQuery = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	clearCartQuery      = `DELETE FROM cart_items WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Lines(ctx context.Context, userID int) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listCartLinesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add skips the update when the sum would pass the limit; no affected row
// then means the limit was hit.
func (r *PostgresRepository) Add(ctx context.Context, userID, productID, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, addCartItemQuery, userID, productID, qty, pricing.MaxQuantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuantityLimit
	}
	return nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID, productID, qty int) error {
	return r.exec(ctx, setCartItemQuery, userID, productID, qty)
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, productID int) error {
	return r.exec(ctx, removeCartItemQuery, userID, productID)
}

func (r *PostgresRepository) Clear(ctx context.Context, userID int) error {
	return r.exec(ctx, clearCartQuery, userID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
