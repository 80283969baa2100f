package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/pricing"
)

// Line is a stored cart row: the quantity a user holds of one product.
type Line struct {
	ProductID int `json:"productId" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=1000"`
}

// Item is a cart line joined with the live product attributes. Price is a
// quote, it is not locked until checkout.
type Item struct {
	ProductID   int             `json:"productId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	IsAvailable bool            `json:"isAvailable"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	type item Item
	return json.Marshal(struct {
		item
		Price     pricing.Money `json:"price"`
		LineTotal pricing.Money `json:"lineTotal"`
	}{item(it), pricing.Money(it.Price), pricing.Money(it.LineTotal)})
}

// View is the cart as rendered to its owner.
type View struct {
	Items   []Item          `json:"items"`
	Summary pricing.Summary `json:"summary"`
}

// Summarize prices the available items only; unavailable lines stay in the
// cart but are not charged.
func Summarize(items []Item, delivery pricing.DeliveryType) pricing.Summary {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		if !it.IsAvailable {
			continue
		}
		lines = append(lines, pricing.Line{Price: it.Price, Quantity: it.Quantity})
	}
	return pricing.Summarize(lines, delivery)
}
