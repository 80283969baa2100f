package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wichananm65/food-order-backend/internal/database"
)

type PostgresRepository struct {
	db *sql.DB
}

const userColumns = `id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at`

const (
	listUsersQuery      = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	insertUserQuery     = `
		INSERT INTO users (email, password_hash, full_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	updateProfileQuery = `
		UPDATE users
		SET full_name = COALESCE($1, full_name),
			phone = COALESCE($2, phone),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns
	setActiveQuery = `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	setRoleQuery   = `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (User, error) {
	return r.one(ctx, getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.one(ctx, getUserByEmailQuery, email)
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	created, err := r.one(ctx, insertUserQuery,
		user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role, user.IsActive)
	if database.IsUniqueViolation(err) {
		return User{}, ErrEmailExists
	}
	return created, err
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int, patch ProfilePatch) (User, error) {
	return r.one(ctx, updateProfileQuery, patch.FullName, patch.Phone, id)
}

func (r *PostgresRepository) SetActive(ctx context.Context, id int, active bool) (User, error) {
	return r.one(ctx, setActiveQuery, active, id)
}

func (r *PostgresRepository) SetRole(ctx context.Context, id int, role string) (User, error) {
	return r.one(ctx, setRoleQuery, role, id)
}

func (r *PostgresRepository) one(ctx context.Context, query string, args ...any) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (User, error) {
	var u User
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
