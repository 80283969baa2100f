package category

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrDuplicate = errors.New("category name taken")
)

// Repository provides access to category rows.
type Repository interface {
	// List returns categories ordered by sort order then id.
	List(ctx context.Context, limit int, includeInactive bool) ([]Category, error)
	Create(ctx context.Context, c Category) (Category, error)
	Update(ctx context.Context, id int, patch Patch) (Category, error)
}

type InMemoryRepository struct {
	mu      sync.RWMutex
	storage map[int]Category
	nextID  int
}

func NewInMemoryRepository(seed []Category) *InMemoryRepository {
	r := &InMemoryRepository{storage: make(map[int]Category, len(seed)), nextID: 1}
	for _, c := range seed {
		r.storage[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *InMemoryRepository) List(_ context.Context, limit int, includeInactive bool) ([]Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, 0, len(r.storage))
	for _, c := range r.storage {
		if !includeInactive && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Create(_ context.Context, c Category) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(c.Name, 0) {
		return Category{}, ErrDuplicate
	}
	c.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.storage[c.ID] = c
	return c, nil
}

func (r *InMemoryRepository) Update(_ context.Context, id int, patch Patch) (Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.storage[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	if patch.Name != nil {
		if r.nameTaken(*patch.Name, id) {
			return Category{}, ErrDuplicate
		}
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		c.ImageURL = *patch.ImageURL
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		c.SortOrder = *patch.SortOrder
	}
	c.UpdatedAt = time.Now().UTC()
	r.storage[id] = c
	return c, nil
}

func (r *InMemoryRepository) nameTaken(name string, except int) bool {
	for id, c := range r.storage {
		if id != except && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
