package product

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/pricing"
)

// Lifecycle is the soft-delete state of a product. It is independent of
// IsAvailable, which only hides a product temporarily.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "active"
	LifecycleRetired Lifecycle = "retired"
)

// Product maps to the `products` table.
type Product struct {
	ID          int             `json:"id"`
	CategoryID  int             `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	IsAvailable bool            `json:"isAvailable"`
	Lifecycle   Lifecycle       `json:"lifecycle"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price pricing.Money `json:"price"`
	}{product(p), pricing.Money(p.Price)})
}

func (p Product) Retired() bool { return p.Lifecycle == LifecycleRetired }

// Orderable reports whether the product may be put in a cart or an order.
func (p Product) Orderable() bool { return !p.Retired() && p.IsAvailable }

// Filter narrows List. Zero values mean "no constraint", except that retired
// products are skipped unless IncludeRetired is set.
type Filter struct {
	CategoryID     int
	Query          string
	AvailableOnly  bool
	IncludeRetired bool
}

// Patch lists the fields an update may change. Nil fields are left untouched.
type Patch struct {
	CategoryID  *int             `json:"categoryId" validate:"omitempty,min=1"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
	IsAvailable *bool            `json:"isAvailable"`
}

func (p Patch) Empty() bool {
	return p.CategoryID == nil && p.Name == nil && p.Description == nil &&
		p.Price == nil && p.ImageURL == nil && p.IsAvailable == nil
}
