package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/wichananm65/food-order-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

const productColumns = `id, category_id, name, description, price, image_url, is_available, lifecycle, created_at, updated_at`

const (
	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = 0 OR category_id = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		  AND (NOT $3 OR is_available)
		  AND ($4 OR lifecycle = 'active')
		ORDER BY id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::int[])
		ORDER BY id
	`
	insertProductQuery = `
		INSERT INTO products (category_id, name, description, price, image_url, is_available, lifecycle)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns
	updateProductQuery = `
		UPDATE products
		SET category_id = COALESCE($1, category_id),
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			image_url = COALESCE($5, image_url),
			is_available = COALESCE($6, is_available),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + productColumns
	retireProductQuery = `UPDATE products SET lifecycle = 'retired', updated_at = NOW() WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listProductsQuery, f.CategoryID, f.Query, f.AvailableOnly, f.IncludeRetired)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	if p.Lifecycle == "" {
		p.Lifecycle = LifecycleActive
	}
	return scanProduct(r.db.QueryRowContext(ctx, insertProductQuery,
		p.CategoryID,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		p.IsAvailable,
		string(p.Lifecycle),
	))
}

func (r *PostgresRepository) Update(ctx context.Context, id int, patch Patch) (Product, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, updateProductQuery,
		patch.CategoryID,
		patch.Name,
		patch.Description,
		patch.Price,
		patch.ImageURL,
		patch.IsAvailable,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Retire(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, retireProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	var (
		p         Product
		lifecycle string
	)
	if err := scanner.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.ImageURL,
		&p.IsAvailable,
		&lifecycle,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return Product{}, err
	}
	p.Lifecycle = Lifecycle(lifecycle)
	return p, nil
}

func collect(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
