package order

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateNumber means the generated order number is already taken.
	ErrDuplicateNumber = errors.New("order number already exists")
	// ErrStatusChanged means the order left the expected status before the update landed.
	ErrStatusChanged = errors.New("order status changed concurrently")
)

type Repository interface {
	// Create stores the header and its items atomically, filling in ids and timestamps.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int) (Order, error)
	ListByUser(ctx context.Context, userID int) ([]Order, error)
	// List returns every order, newest first; an empty status means all.
	List(ctx context.Context, status Status) ([]Order, error)
	// UpdateStatus moves the order from -> to only if it is still in from.
	// Entering delivered on cash-on-delivery also marks the payment paid.
	UpdateStatus(ctx context.Context, id int, from, to Status) (Order, error)
	UpdatePaymentStatus(ctx context.Context, id int, ps PaymentStatus) (Order, error)
}

// InMemoryRepository keeps orders in process; used by tests and STORE=memory.
type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     map[int]Order
	numbers    map[string]bool
	nextID     int
	nextItemID int
	now        func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orders:     make(map[int]Order),
		numbers:    make(map[string]bool),
		nextID:     1,
		nextItemID: 1,
		now:        time.Now,
	}
}

func (r *InMemoryRepository) Create(_ context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.numbers[o.OrderNumber] {
		return ErrDuplicateNumber
	}
	o.ID = r.nextID
	r.nextID++
	now := r.now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	items := make([]Item, len(o.Items))
	for i, it := range o.Items {
		it.ID = r.nextItemID
		r.nextItemID++
		it.OrderID = o.ID
		items[i] = it
	}
	o.Items = items
	r.numbers[o.OrderNumber] = true
	r.orders[o.ID] = clone(*o)
	return nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return clone(o), nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID int) ([]Order, error) {
	return r.filter(func(o Order) bool { return o.UserID == userID }), nil
}

func (r *InMemoryRepository) List(_ context.Context, status Status) ([]Order, error) {
	return r.filter(func(o Order) bool { return status == "" || o.Status == status }), nil
}

func (r *InMemoryRepository) UpdateStatus(_ context.Context, id int, from, to Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if o.Status != from {
		return Order{}, ErrStatusChanged
	}
	o.PaymentStatus = paymentAfter(o, to)
	o.Status = to
	o.UpdatedAt = r.now().UTC()
	r.orders[id] = o
	return clone(o), nil
}

func (r *InMemoryRepository) UpdatePaymentStatus(_ context.Context, id int, ps PaymentStatus) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.PaymentStatus = ps
	o.UpdatedAt = r.now().UTC()
	r.orders[id] = o
	return clone(o), nil
}

func (r *InMemoryRepository) filter(keep func(Order) bool) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, clone(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func clone(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}
