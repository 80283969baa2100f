package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wichananm65/food-order-backend/internal/database"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const categoryColumns = `id, name, description, image_url, is_active, sort_order, created_at, updated_at`

const (
	listCategoriesQuery = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE ($2 OR is_active)
		ORDER BY sort_order, id
		LIMIT $1
	`
	insertCategoryQuery = `
		INSERT INTO categories (name, description, image_url, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	updateCategoryQuery = `
		UPDATE categories
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			image_url = COALESCE($3, image_url),
			is_active = COALESCE($4, is_active),
			sort_order = COALESCE($5, sort_order),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + categoryColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, limit int, includeInactive bool) ([]Category, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listCategoriesQuery, limit, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	created, err := scanCategory(r.db.QueryRowContext(ctx, insertCategoryQuery,
		c.Name, c.Description, c.ImageURL, c.IsActive, c.SortOrder))
	if database.IsUniqueViolation(err) {
		return Category{}, ErrDuplicate
	}
	return created, err
}

func (r *PostgresRepository) Update(ctx context.Context, id int, patch Patch) (Category, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, updateCategoryQuery,
		patch.Name, patch.Description, patch.ImageURL, patch.IsActive, patch.SortOrder, id))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Category{}, ErrNotFound
	case database.IsUniqueViolation(err):
		return Category{}, ErrDuplicate
	}
	return c, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(s rowScanner) (Category, error) {
	var c Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
