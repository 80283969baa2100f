package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wichananm65/food-order-backend/internal/pricing"
)

// ErrQuantityLimit means an Add would push the line above pricing.MaxQuantity.
// The row is left unchanged.
var ErrQuantityLimit = errors.New("cart line quantity limit reached")

// Repository stores cart rows keyed by (user, product). Every method is a
// single atomic statement.
type Repository interface {
	Lines(ctx context.Context, userID int) ([]Line, error)
	// Add inserts the row or increments its quantity by qty. It returns
	// ErrQuantityLimit instead of storing more than pricing.MaxQuantity.
	Add(ctx context.Context, userID, productID, qty int) error
	// Set inserts the row or overwrites its quantity with qty.
	Set(ctx context.Context, userID, productID, qty int) error
	Remove(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
	// order of first insertion per user, mirrors the serial id ordering in SQL
	order map[int][]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		carts: make(map[int]map[int]int),
		order: make(map[int][]int),
	}
}

func (r *InMemoryRepository) Lines(_ context.Context, userID int) ([]Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart := r.carts[userID]
	out := make([]Line, 0, len(cart))
	for _, pid := range r.order[userID] {
		if q, ok := cart[pid]; ok {
			out = append(out, Line{ProductID: pid, Quantity: q})
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Add(_ context.Context, userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[userID][productID]+qty > pricing.MaxQuantity {
		return ErrQuantityLimit
	}
	r.cartFor(userID, productID)[productID] += qty
	return nil
}

func (r *InMemoryRepository) Set(_ context.Context, userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartFor(userID, productID)[productID] = qty
	return nil
}

func (r *InMemoryRepository) Remove(_ context.Context, userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts[userID], productID)
	ids := r.order[userID]
	for i, pid := range ids {
		if pid == productID {
			r.order[userID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InMemoryRepository) Clear(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	delete(r.order, userID)
	return nil
}

// cartFor returns the user's cart, recording productID's position if new.
// Caller holds the write lock.
func (r *InMemoryRepository) cartFor(userID, productID int) map[int]int {
	cart, ok := r.carts[userID]
	if !ok {
		cart = make(map[int]int)
		r.carts[userID] = cart
	}
	if _, ok := cart[productID]; !ok {
		r.order[userID] = append(r.order[userID], productID)
	}
	return cart
}

// Snapshot returns a copy of every stored row, sorted by user then product.
func (r *InMemoryRepository) Snapshot() map[int][]Line {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int][]Line, len(r.carts))
	for uid, cart := range r.carts {
		lines := make([]Line, 0, len(cart))
		for pid, q := range cart {
			lines = append(lines, Line{ProductID: pid, Quantity: q})
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
		out[uid] = lines
	}
	return out
}
