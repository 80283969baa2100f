package contact

import (
	"context"
	"sync"
	"time"
)

type Repository interface {
	Create(ctx context.Context, m Message) (Message, error)
	// List returns messages newest first.
	List(ctx context.Context, limit, offset int) ([]Message, error)
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	messages []Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(_ context.Context, m Message) (Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = len(r.messages) + 1
	m.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryRepository) List(_ context.Context, limit, offset int) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Message, 0, limit)
	for i := len(r.messages) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.messages[i])
	}
	return out, nil
}
