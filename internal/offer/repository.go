package offer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("offer not found")

type Repository interface {
	// ListLive returns active offers whose window contains now.
	ListLive(ctx context.Context, now time.Time, limit int) ([]Offer, error)
	Create(ctx context.Context, o Offer) (Offer, error)
	SetActive(ctx context.Context, id int, active bool) (Offer, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	offers map[int]Offer
	nextID int
}

func NewInMemoryRepository(seed []Offer) *InMemoryRepository {
	repo := &InMemoryRepository{offers: make(map[int]Offer, len(seed)), nextID: 1}
	for _, o := range seed {
		repo.offers[o.ID] = o
		if o.ID >= repo.nextID {
			repo.nextID = o.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) ListLive(_ context.Context, now time.Time, limit int) ([]Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Offer, 0)
	for _, o := range r.offers {
		if o.Live(now) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, o Offer) (Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.nextID
	r.nextID++
	o.CreatedAt = time.Now().UTC()
	r.offers[o.ID] = o
	return o, nil
}

func (r *InMemoryRepository) SetActive(_ context.Context, id int, active bool) (Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.offers[id]
	if !ok {
		return Offer{}, ErrNotFound
	}
	o.IsActive = active
	r.offers[id] = o
	return o, nil
}
