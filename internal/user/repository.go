package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already exists")
)

type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id int) (User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (User, error)
	UpdateProfile(ctx context.Context, id int, patch ProfilePatch) (User, error)
	SetActive(ctx context.Context, id int, active bool) (User, error)
	SetRole(ctx context.Context, id int, role string) (User, error)
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		users:  make(map[int]User, len(seed)),
		nextID: 1,
	}

	maxID := 0
	for _, user := range seed {
		repo.users[user.ID] = user
		if user.ID > maxID {
			maxID = user.ID
		}
	}

	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return User{}, ErrEmailExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = user
	return user, nil
}

func (r *InMemoryRepository) UpdateProfile(_ context.Context, id int, patch ProfilePatch) (User, error) {
	return r.mutate(id, func(u *User) {
		if patch.FullName != nil {
			u.FullName = *patch.FullName
		}
		if patch.Phone != nil {
			u.Phone = *patch.Phone
		}
	})
}

func (r *InMemoryRepository) SetActive(_ context.Context, id int, active bool) (User, error) {
	return r.mutate(id, func(u *User) { u.IsActive = active })
}

func (r *InMemoryRepository) SetRole(_ context.Context, id int, role string) (User, error) {
	return r.mutate(id, func(u *User) { u.Role = role })
}

func (r *InMemoryRepository) mutate(id int, fn func(*User)) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	fn(&user)
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return user, nil
}
