package offer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer is a promotion shown on the storefront. Promo codes are displayed
// and stored on orders; discounts are not applied at checkout.
type Offer struct {
	ID              int             `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	PromoCode       string          `json:"promoCode"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	ImageURL        string          `json:"imageUrl"`
	IsActive        bool            `json:"isActive"`
	ValidFrom       *time.Time      `json:"validFrom,omitempty"`
	ValidUntil      *time.Time      `json:"validUntil,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Live reports whether the offer is active and t falls inside its window.
// A nil bound is open.
func (o Offer) Live(t time.Time) bool {
	if !o.IsActive {
		return false
	}
	if o.ValidFrom != nil && t.Before(*o.ValidFrom) {
		return false
	}
	if o.ValidUntil != nil && !t.Before(*o.ValidUntil) {
		return false
	}
	return true
}
