package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wichananm65/food-order-backend/internal/database"
	"github.com/wichananm65/food-order-backend/internal/pricing"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `id, order_number, user_id, subtotal, discount, delivery_charge, tax, final_amount,
	order_status, payment_status, payment_method, delivery_type, delivery_address, promo_code, notes,
	created_at, updated_at`

const (
	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, subtotal, discount, delivery_charge, tax, final_amount,
			order_status, payment_status, payment_method, delivery_type, delivery_address, promo_code, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	getOrderQuery       = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	listUserOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	listOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR order_status = $1)
		ORDER BY created_at DESC, id DESC
	`
	listItemsQuery = `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = ANY($1::int[])
		ORDER BY order_id, id
	`
	updateStatusQuery = `
		UPDATE orders
		SET order_status = $3::varchar,
			payment_status = CASE
				WHEN $3::varchar = 'delivered' AND payment_method = 'cod' THEN 'paid'
				ELSE payment_status
			END,
			updated_at = NOW()
		WHERE id = $1 AND order_status = $2
		RETURNING ` + orderColumns
	updatePaymentQuery = `
		UPDATE orders
		SET payment_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + orderColumns
	orderExistsQuery = `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, insertOrderQuery,
		o.OrderNumber,
		o.UserID,
		o.Subtotal,
		o.Discount,
		o.DeliveryCharge,
		o.Tax,
		o.FinalAmount,
		string(o.Status),
		string(o.PaymentStatus),
		string(o.PaymentMethod),
		string(o.DeliveryType),
		o.DeliveryAddress,
		o.PromoCode,
		o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return ErrDuplicateNumber
	}
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		if err := tx.QueryRowContext(ctx, insertOrderItemQuery,
			o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal,
		).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert order item %d: %w", it.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Order, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, getOrderQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int) ([]Order, error) {
	return r.list(ctx, listUserOrdersQuery, userID)
}

func (r *PostgresRepository) List(ctx context.Context, status Status) ([]Order, error) {
	return r.list(ctx, listOrdersQuery, string(status))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, from, to Status) (Order, error) {
	return r.update(ctx, id, updateStatusQuery, id, string(from), string(to))
}

func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, id int, ps PaymentStatus) (Order, error) {
	return r.update(ctx, id, updatePaymentQuery, id, string(ps))
}

func (r *PostgresRepository) update(ctx context.Context, id int, query string, args ...any) (Order, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRowContext(ctx, orderExistsQuery, id).Scan(&exists); err != nil {
			return Order{}, err
		}
		if !exists {
			return Order{}, ErrNotFound
		}
		return Order{}, ErrStatusChanged
	}
	if err != nil {
		return Order{}, err
	}
	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachItems loads the items of every order in one query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int, len(orders))
	index := make(map[int]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []Item{}
	}

	rows, err := r.db.QueryContext(ctx, listItemsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (Order, error) {
	var (
		o                                     Order
		status, payStatus, payMethod, deliver string
	)
	if err := s.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Subtotal,
		&o.Discount,
		&o.DeliveryCharge,
		&o.Tax,
		&o.FinalAmount,
		&status,
		&payStatus,
		&payMethod,
		&deliver,
		&o.DeliveryAddress,
		&o.PromoCode,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.PaymentStatus = PaymentStatus(payStatus)
	o.PaymentMethod = PaymentMethod(payMethod)
	o.DeliveryType = pricing.DeliveryType(deliver)
	return o, nil
}
