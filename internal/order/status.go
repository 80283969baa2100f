package order

import (
	"strings"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// fulfilment chain, in order
var chain = []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered}

func (s Status) String() string { return string(s) }

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancellable reports whether the order may still be cancelled.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) position() int {
	for i, c := range chain {
		if c == s {
			return i
		}
	}
	return -1
}

// CheckTransition validates moving from one status to another: forward along
// the chain, or to cancelled while still cancellable.
func CheckTransition(from, to Status) error {
	switch {
	case from == to:
		return apperr.Invalid("order is already %s", from)
	case from.Terminal():
		return apperr.Invalid("order is %s and can no longer change", from)
	case to == StatusCancelled:
		if !from.Cancellable() {
			return apperr.Invalid("order cannot be cancelled once %s", from)
		}
		return nil
	case to.position() < from.position():
		return apperr.Invalid("order cannot move back from %s to %s", from, to)
	}
	return nil
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == StatusCancelled || st.position() >= 0 {
		return st, nil
	}
	return "", apperr.Invalid("unknown order status %q", s)
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch ps := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); ps {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return ps, nil
	}
	return "", apperr.Invalid("paymentStatus must be pending, paid or failed")
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); pm {
	case PaymentCOD, PaymentCard, PaymentUPI:
		return pm, nil
	}
	return "", apperr.Invalid("paymentMethod must be cod, card or upi")
}

// paymentAfter is the payment status once an order enters to. Entering
// delivered on cash-on-delivery means the cash was collected.
func paymentAfter(o Order, to Status) PaymentStatus {
	if to == StatusDelivered && o.PaymentMethod == PaymentCOD {
		return PaymentPaid
	}
	return o.PaymentStatus
}
