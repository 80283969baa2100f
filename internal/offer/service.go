package offer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

type CreateInput struct {
	Title           string          `json:"title" validate:"required,max=255"`
	Description     string          `json:"description"`
	PromoCode       string          `json:"promoCode" validate:"max=64"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ImageURL        string          `json:"imageUrl"`
	IsActive        *bool           `json:"isActive"`
	ValidFrom       *time.Time      `json:"validFrom"`
	ValidUntil      *time.Time      `json:"validUntil"`
}

// List returns up to limit live offers, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Offer, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offers, err := s.repo.ListLive(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, apperr.Persistence("failed to list offers", err)
	}
	return offers, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Offer, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Offer{}, apperr.Invalid("title is required")
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return Offer{}, apperr.Invalid("discountPercent must be between 0 and 100")
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && !in.ValidUntil.After(*in.ValidFrom) {
		return Offer{}, apperr.Invalid("validUntil must be after validFrom")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	o, err := s.repo.Create(ctx, Offer{
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		PromoCode:       strings.ToUpper(strings.TrimSpace(in.PromoCode)),
		DiscountPercent: in.DiscountPercent.Round(2),
		ImageURL:        strings.TrimSpace(in.ImageURL),
		IsActive:        active,
		ValidFrom:       in.ValidFrom,
		ValidUntil:      in.ValidUntil,
	})
	if err != nil {
		return Offer{}, apperr.Persistence("failed to create offer", err)
	}
	return o, nil
}

func (s *Service) SetActive(ctx context.Context, id int, active bool) (Offer, error) {
	o, err := s.repo.SetActive(ctx, id, active)
	if errors.Is(err, ErrNotFound) {
		return Offer{}, apperr.NotFound("offer not found")
	}
	if err != nil {
		return Offer{}, apperr.Persistence("failed to update offer", err)
	}
	return o, nil
}
