package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/cart"
	"github.com/wichananm65/food-order-backend/internal/category"
	"github.com/wichananm65/food-order-backend/internal/config"
	"github.com/wichananm65/food-order-backend/internal/contact"
	"github.com/wichananm65/food-order-backend/internal/database"
	"github.com/wichananm65/food-order-backend/internal/offer"
	"github.com/wichananm65/food-order-backend/internal/order"
	"github.com/wichananm65/food-order-backend/internal/product"
	"github.com/wichananm65/food-order-backend/internal/user"
)

var errUnknownStore = errors.New("unknown STORE, expected postgres or memory")

// stores bundles the repositories for one backing store. db is nil for memory.
type stores struct {
	db         *sql.DB
	users      user.Repository
	categories category.Repository
	products   product.Repository
	carts      cart.Repository
	orders     order.Repository
	offers     offer.Repository
	contacts   contact.Repository
}

func (s stores) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func openStores(ctx context.Context, cfg config.Config, log *zap.Logger) (stores, error) {
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return memoryStores(), nil
	case config.StorePostgres:
	default:
		return stores{}, errUnknownStore
	}

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	if err := database.Migrate(ctx, db, log); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{
		db:         db,
		users:      user.NewPostgresRepository(db),
		categories: category.NewPostgresRepository(db),
		products:   product.NewPostgresRepository(db),
		carts:      cart.NewPostgresRepository(db),
		orders:     order.NewPostgresRepository(db),
		offers:     offer.NewPostgresRepository(db),
		contacts:   contact.NewPostgresRepository(db),
	}, nil
}

// memoryStores seeds a small menu so the API is usable without Postgres.
func memoryStores() stores {
	categories := []category.Category{
		{ID: 1, Name: "Pizza", IsActive: true, SortOrder: 1},
		{ID: 2, Name: "Burgers", IsActive: true, SortOrder: 2},
		{ID: 3, Name: "Drinks", IsActive: true, SortOrder: 3},
	}
	products := []product.Product{
		{ID: 1, CategoryID: 1, Name: "Margherita", Price: decimal.RequireFromString("199.00"), IsAvailable: true, Lifecycle: product.LifecycleActive},
		{ID: 2, CategoryID: 1, Name: "Pepperoni", Price: decimal.RequireFromString("249.00"), IsAvailable: true, Lifecycle: product.LifecycleActive},
		{ID: 3, CategoryID: 2, Name: "Classic Burger", Price: decimal.RequireFromString("159.50"), IsAvailable: true, Lifecycle: product.LifecycleActive},
		{ID: 4, CategoryID: 3, Name: "Iced Tea", Price: decimal.RequireFromString("45.00"), IsAvailable: true, Lifecycle: product.LifecycleActive},
	}
	return stores{
		users:      user.NewInMemoryRepository(nil),
		categories: category.NewInMemoryRepository(categories),
		products:   product.NewInMemoryRepository(products),
		carts:      cart.NewInMemoryRepository(),
		orders:     order.NewInMemoryRepository(),
		offers:     offer.NewInMemoryRepository(nil),
		contacts:   contact.NewInMemoryRepository(),
	}
}
