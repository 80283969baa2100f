package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/database"
	"github.com/wichananm65/food-order-backend/internal/pricing"
	"github.com/wichananm65/food-order-backend/internal/product"
)

// Catalog is the product read model the cart prices against.
type Catalog interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	log     *zap.Logger
}

func NewService(repo Repository, catalog Catalog, log *zap.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, log: log}
}

// Get returns the user's lines joined with live product attributes. Lines
// whose product no longer exists are omitted.
func (s *Service) Get(ctx context.Context, userID int) ([]Item, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("load cart", err)
	}
	if len(lines) == 0 {
		return []Item{}, nil
	}

	ids := make([]int, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("load cart products", err)
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		items = append(items, Item{
			ProductID:   p.ID,
			Name:        p.Name,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			IsAvailable: p.Orderable(),
			Quantity:    l.Quantity,
			LineTotal:   pricing.Line{Price: p.Price, Quantity: l.Quantity}.Total(),
		})
	}
	return items, nil
}

// View returns the priced cart for the given delivery type.
func (s *Service) View(ctx context.Context, userID int, delivery pricing.DeliveryType) (View, error) {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return View{Items: items, Summary: Summarize(items, delivery)}, nil
}

// Summary prices the user's available cart items.
func (s *Service) Summary(ctx context.Context, userID int, delivery pricing.DeliveryType) (pricing.Summary, error) {
	v, err := s.View(ctx, userID, delivery)
	if err != nil {
		return pricing.Summary{}, err
	}
	return v.Summary, nil
}

// Add accumulates quantity onto the user's line for productID.
// The accumulated quantity may not exceed pricing.MaxQuantity.
func (s *Service) Add(ctx context.Context, userID, productID, quantity int) error {
	if err := pricing.CheckQuantity(quantity); err != nil {
		return err
	}
	p, err := s.lookup(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsAvailable {
		return apperr.Invalid("product %d is not available", productID)
	}
	err = s.repo.Add(ctx, userID, productID, quantity)
	if errors.Is(err, ErrQuantityLimit) || database.IsOutOfRange(err) {
		return apperr.Invalid("quantity of product %d would exceed %d", productID, pricing.MaxQuantity)
	}
	if err != nil {
		return apperr.Persistence("add cart item", err)
	}
	return nil
}

// UpdateQuantity sets the line's quantity; quantity <= 0 removes it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	if err := pricing.CheckQuantity(quantity); err != nil {
		return err
	}
	if _, err := s.lookup(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, userID, productID, quantity); err != nil {
		return apperr.Persistence("update cart item", err)
	}
	return nil
}

// Remove deletes the line. Removing an absent line is not an error.
func (s *Service) Remove(ctx context.Context, userID, productID int) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return apperr.Persistence("remove cart item", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID int) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return apperr.Persistence("clear cart", err)
	}
	return nil
}

// MergeAnonymous adds each pre-login line to the user's cart. Failures are
// logged per line and never fail the call. It returns the number of lines merged.
func (s *Service) MergeAnonymous(ctx context.Context, userID int, lines []Line) int {
	merged := 0
	for _, l := range lines {
		if err := s.Add(ctx, userID, l.ProductID, l.Quantity); err != nil {
			s.log.Warn("anonymous cart line not merged",
				zap.Int("user_id", userID),
				zap.Int("product_id", l.ProductID),
				zap.Int("quantity", l.Quantity),
				zap.Error(err),
			)
			continue
		}
		merged++
	}
	if len(lines) > 0 {
		s.log.Info("anonymous cart merged",
			zap.Int("user_id", userID),
			zap.Int("merged", merged),
			zap.Int("submitted", len(lines)),
		)
	}
	return merged
}

// lookup returns the product if it exists and is not retired.
func (s *Service) lookup(ctx context.Context, productID int) (product.Product, error) {
	if productID <= 0 {
		return product.Product{}, apperr.Invalid("invalid productId")
	}
	p, err := s.catalog.GetByID(ctx, productID)
	if errors.Is(err, product.ErrNotFound) {
		return product.Product{}, apperr.NotFound("product %d not found", productID)
	}
	if err != nil {
		return product.Product{}, apperr.Persistence("load product", err)
	}
	if p.Retired() {
		return product.Product{}, apperr.NotFound("product %d not found", productID)
	}
	return p, nil
}
