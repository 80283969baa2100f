package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/food-order-backend/internal/pricing"
)

var orderCols = []string{
	"id", "order_number", "user_id", "subtotal", "discount", "delivery_charge", "tax", "final_amount",
	"order_status", "payment_status", "payment_method", "delivery_type", "delivery_address", "promo_code", "notes",
	"created_at", "updated_at",
}

func sampleOrder() *Order {
	return &Order{
		OrderNumber:    "ORD-20260101-ABCDEF12",
		UserID:         7,
		Subtotal:       decimal.NewFromInt(250),
		Discount:       decimal.Zero,
		DeliveryCharge: decimal.NewFromInt(49),
		Tax:            decimal.RequireFromString("12.50"),
		FinalAmount:    decimal.RequireFromString("311.50"),
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		PaymentMethod:  PaymentCOD,
		DeliveryType:   pricing.DeliveryHome,
		Items: []Item{
			{ProductID: 1, ProductName: "Margherita", Quantity: 2, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(200)},
			{ProductID: 2, ProductName: "Iced Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(50)},
		},
	}
}

func TestPostgresCreate_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	mock.ExpectQuery("INSERT INTO order_items").WithArgs(10, 1, "Margherita", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery("INSERT INTO order_items").WithArgs(10, 2, "Iced Tea", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()

	o := sampleOrder()
	require.NoError(t, repo.Create(context.Background(), o))
	assert.Equal(t, 10, o.ID)
	assert.Equal(t, 101, o.Items[1].ID)
	assert.Equal(t, 10, o.Items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_ItemFailureRollsBackEverything(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	o := sampleOrder()
	o.Items = append(o.Items, Item{ProductID: 3, ProductName: "Garlic Bread", Quantity: 1,
		UnitPrice: decimal.NewFromInt(60), LineTotal: decimal.NewFromInt(60)})

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
	mock.ExpectQuery("INSERT INTO order_items").WithArgs(10, 1, "Margherita", 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery("INSERT INTO order_items").WithArgs(10, 2, "Iced Tea", 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	// no expectation for the third item: an attempt would not match the rollback
	mock.ExpectRollback()

	err = repo.Create(context.Background(), o)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotContains(t, err.Error(), "was not expected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_DuplicateNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"})
	mock.ExpectRollback()

	err = repo.Create(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, ErrDuplicateNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func orderRow(rows *sqlmock.Rows, id int, status, payment string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "ORD-20260101-ABCDEF12", 7, "250.00", "0.00", "49.00", "12.50", "311.50",
		status, payment, "cod", "home", "12 Sukhumvit Rd", "", "", now, now)
}

func TestPostgresUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").WithArgs(10, "ready", "delivered").
		WillReturnRows(orderRow(sqlmock.NewRows(orderCols), 10, "delivered", "paid"))
	mock.ExpectQuery("FROM order_items").WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "line_total"}).
			AddRow(100, 10, 1, "Margherita", 2, "100.00", "200.00"))

	o, err := repo.UpdateStatus(context.Background(), 10, StatusReady, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.Equal(t, "311.50", o.FinalAmount.StringFixed(2))
	require.Len(t, o.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateStatus_NoRowDistinguishesMissingFromStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").WithArgs(10, "pending", "confirmed").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").WithArgs(10).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("UPDATE orders").WithArgs(11, "pending", "confirmed").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT EXISTS").WithArgs(11).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = repo.UpdateStatus(context.Background(), 10, StatusPending, StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusChanged)
	_, err = repo.UpdateStatus(context.Background(), 11, StatusPending, StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByUser_AttachesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(orderCols)
	orderRow(rows, 11, "pending", "pending")
	orderRow(rows, 10, "confirmed", "pending")
	mock.ExpectQuery("WHERE user_id = \\$1").WithArgs(7).WillReturnRows(rows)
	mock.ExpectQuery("FROM order_items").WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "line_total"}).
			AddRow(100, 10, 1, "Margherita", 2, "100.00", "200.00").
			AddRow(101, 11, 2, "Iced Tea", 1, "50.00", "50.00").
			AddRow(102, 11, 1, "Margherita", 1, "100.00", "100.00"))

	orders, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 2)
	assert.Len(t, orders[1].Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
