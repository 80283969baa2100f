package order

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/food-order-backend/internal/pricing"
)

// Order is an immutable purchase record; only its status fields change after
// creation. Totals satisfy sum(LineTotal) + DeliveryCharge + Tax - Discount == FinalAmount.
type Order struct {
	ID              int                  `json:"orderId"`
	OrderNumber     string               `json:"orderNumber"`
	UserID          int                  `json:"userId"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Discount        decimal.Decimal      `json:"discount"`
	DeliveryCharge  decimal.Decimal      `json:"deliveryCharge"`
	Tax             decimal.Decimal      `json:"tax"`
	FinalAmount     decimal.Decimal      `json:"finalAmount"`
	Status          Status               `json:"orderStatus"`
	PaymentStatus   PaymentStatus        `json:"paymentStatus"`
	PaymentMethod   PaymentMethod        `json:"paymentMethod"`
	DeliveryType    pricing.DeliveryType `json:"deliveryType"`
	DeliveryAddress string               `json:"deliveryAddress"`
	PromoCode       string               `json:"promoCode,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	Items           []Item               `json:"items"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	return json.Marshal(struct {
		order
		Subtotal       pricing.Money `json:"subtotal"`
		Discount       pricing.Money `json:"discount"`
		DeliveryCharge pricing.Money `json:"deliveryCharge"`
		Tax            pricing.Money `json:"tax"`
		FinalAmount    pricing.Money `json:"finalAmount"`
	}{
		order:          order(o),
		Subtotal:       pricing.Money(o.Subtotal),
		Discount:       pricing.Money(o.Discount),
		DeliveryCharge: pricing.Money(o.DeliveryCharge),
		Tax:            pricing.Money(o.Tax),
		FinalAmount:    pricing.Money(o.FinalAmount),
	})
}

// Item is a snapshot of one ordered line. It does not follow later catalog changes.
type Item struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"orderId"`
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	type item Item
	return json.Marshal(struct {
		item
		UnitPrice pricing.Money `json:"unitPrice"`
		LineTotal pricing.Money `json:"lineTotal"`
	}{item(it), pricing.Money(it.UnitPrice), pricing.Money(it.LineTotal)})
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)
