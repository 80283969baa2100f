// Package pricing derives cart and order totals. Everything here is a pure
// function of its inputs.
package pricing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

type DeliveryType string

const (
	DeliveryHome   DeliveryType = "home"
	DeliveryPickup DeliveryType = "pickup"
)

var (
	// FreeDeliveryThreshold must be strictly exceeded for free home delivery.
	FreeDeliveryThreshold = decimal.NewFromInt(500)
	DeliveryFee           = decimal.NewFromInt(49)
	TaxRate               = decimal.RequireFromString("0.05")

	// MaxAmount is the largest amount a NUMERIC(10,2) column holds.
	MaxAmount = decimal.RequireFromString("99999999.99")
)

// MaxQuantity bounds a single cart or order line.
const MaxQuantity = 1000

// ParseDeliveryType accepts "home" and "pickup" case-insensitively; empty means home.
func ParseDeliveryType(s string) (DeliveryType, error) {
	switch DeliveryType(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeliveryHome:
		return DeliveryHome, nil
	case DeliveryPickup:
		return DeliveryPickup, nil
	default:
		return "", apperr.Invalid("deliveryType must be home or pickup")
	}
}

type Line struct {
	Price    decimal.Decimal
	Quantity int
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Summary struct {
	ItemCount      int             `json:"itemCount"`
	TotalQuantity  int             `json:"totalQuantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

func (s Summary) MarshalJSON() ([]byte, error) {
	type summary Summary
	return json.Marshal(struct {
		summary
		Subtotal       Money `json:"subtotal"`
		DeliveryCharge Money `json:"deliveryCharge"`
		Tax            Money `json:"tax"`
		Total          Money `json:"total"`
	}{summary(s), Money(s.Subtotal), Money(s.DeliveryCharge), Money(s.Tax), Money(s.Total)})
}

// Summarize prices lines for the given delivery type. Monetary fields are
// rounded half-up to 2 places and Total is the sum of the rounded parts.
// An empty input yields an all-zero summary.
func Summarize(lines []Line, delivery DeliveryType) Summary {
	s := Summary{
		Subtotal:       decimal.Zero,
		DeliveryCharge: decimal.Zero,
		Tax:            decimal.Zero,
		Total:          decimal.Zero,
	}
	if len(lines) == 0 {
		return s
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		s.ItemCount++
		s.TotalQuantity += l.Quantity
		subtotal = subtotal.Add(l.Total())
	}

	s.Subtotal = subtotal.Round(2)
	s.DeliveryCharge = DeliveryCharge(subtotal, delivery)
	s.Tax = Tax(subtotal)
	s.Total = s.Subtotal.Add(s.DeliveryCharge).Add(s.Tax)
	return s
}

func DeliveryCharge(subtotal decimal.Decimal, delivery DeliveryType) decimal.Decimal {
	if delivery == DeliveryPickup || subtotal.GreaterThan(FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return DeliveryFee
}

func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}
