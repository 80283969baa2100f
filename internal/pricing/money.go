package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

// Money renders an amount as a JSON string with exactly two decimal places,
// so "199" and "199.00" read the same whichever store produced them.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(m).StringFixed(2) + `"`), nil
}

// CheckQuantity rejects quantities outside 1..MaxQuantity.
func CheckQuantity(quantity int) error {
	if quantity < 1 {
		return apperr.Invalid("quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return apperr.Invalid("quantity must not exceed %d", MaxQuantity)
	}
	return nil
}
