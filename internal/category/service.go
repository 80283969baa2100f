package category

import (
	"context"
	"errors"
	"strings"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// Service provides business logic for categories.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns up to limit active categories; limit <= 0 means the default.
func (s *Service) List(ctx context.Context, limit int) ([]Category, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	items, err := s.repo.List(ctx, limit, false)
	if err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	return items, nil
}

type CreateInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SortOrder   int    `json:"sortOrder"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Category{}, apperr.Invalid("name is required")
	}
	c, err := s.repo.Create(ctx, Category{
		Name:        name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    true,
		SortOrder:   in.SortOrder,
	})
	if err != nil {
		return Category{}, translate(err)
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int, patch Patch) (Category, error) {
	if patch.Empty() {
		return Category{}, apperr.Invalid("no fields to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Category{}, apperr.Invalid("name must not be empty")
		}
		patch.Name = &name
	}
	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Category{}, translate(err)
	}
	return c, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("category not found")
	case errors.Is(err, ErrDuplicate):
		return apperr.Conflict("category name already exists")
	default:
		return apperr.Persistence("category store", err)
	}
}
