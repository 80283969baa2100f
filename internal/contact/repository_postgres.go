package contact

import (
	"context"
	"database/sql"

	"github.com/wichananm65/food-order-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	insertMessageQuery = `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	listMessagesQuery = `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
)

func (r *PostgresRepository) Create(ctx context.Context, m Message) (Message, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, insertMessageQuery, m.Name, m.Email, m.Subject, m.Message).
		Scan(&m.ID, &m.CreatedAt)
	return m, err
}

func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]Message, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listMessagesQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
