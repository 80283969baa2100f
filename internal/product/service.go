package product

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/database"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the public catalog; retired products are never included.
func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	f.IncludeRetired = false
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("list products", err)
	}
	return products, nil
}

// Get returns a catalog product. Retired products read as missing.
func (s *Service) Get(ctx context.Context, id int) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, translate(err)
	}
	if p.Retired() {
		return Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

type CreateInput struct {
	CategoryID  int             `json:"categoryId" validate:"required,min=1"`
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	IsAvailable *bool           `json:"isAvailable"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Product{}, apperr.Invalid("name is required")
	}
	if in.Price.IsNegative() {
		return Product{}, apperr.Invalid("price must not be negative")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	p, err := s.repo.Create(ctx, Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		ImageURL:    in.ImageURL,
		IsAvailable: available,
		Lifecycle:   LifecycleActive,
	})
	if err != nil {
		return Product{}, translate(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int, patch Patch) (Product, error) {
	if patch.Empty() {
		return Product{}, apperr.Invalid("no fields to update")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Product{}, apperr.Invalid("name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return Product{}, apperr.Invalid("price must not be negative")
		}
		rounded := patch.Price.Round(2)
		patch.Price = &rounded
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Product{}, translate(err)
	}
	return p, nil
}

// Retire soft-deletes a product. Existing order items keep their snapshot.
func (s *Service) Retire(ctx context.Context, id int) error {
	if err := s.repo.Retire(ctx, id); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("product not found")
	case database.IsForeignKeyViolation(err):
		return apperr.Invalid("category does not exist")
	default:
		return apperr.Persistence("product store", err)
	}
}
