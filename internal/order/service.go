package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/database"
	"github.com/wichananm65/food-order-backend/internal/pricing"
	"github.com/wichananm65/food-order-backend/internal/product"
)

const numberAttempts = 3

// priceTolerance is how far a submitted price may drift from the catalog price.
var priceTolerance = decimal.RequireFromString("0.01")

// Catalog is the product read model used to re-price checkout lines.
type Catalog interface {
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

// CartClearer empties a user's server-side cart after checkout.
type CartClearer interface {
	Clear(ctx context.Context, userID int) error
}

type Config struct {
	// Reprice takes names and prices from the catalog instead of the client.
	Reprice bool
}

// Service provides business logic for orders.
type Service struct {
	repo      Repository
	catalog   Catalog
	carts     CartClearer
	log       *zap.Logger
	cfg       Config
	now       func() time.Time
	newNumber func(time.Time) string
}

func NewService(repo Repository, catalog Catalog, carts CartClearer, log *zap.Logger, cfg Config) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		carts:     carts,
		log:       log,
		cfg:       cfg,
		now:       time.Now,
		newNumber: NewNumber,
	}
}

// LineInput is one line of the cart snapshot submitted at checkout.
type LineInput struct {
	ProductID int             `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type PlaceInput struct {
	Items           []LineInput `json:"items"`
	DeliveryType    string      `json:"deliveryType"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	PromoCode       string      `json:"promoCode"`
	Notes           string      `json:"notes"`
}

// Place turns a cart snapshot into a durable order, then clears the cart.
// Either the order and every item are stored or nothing is. A failure to
// clear the cart afterwards is logged and does not affect the result.
func (s *Service) Place(ctx context.Context, userID int, in PlaceInput) (Order, error) {
	o, err := s.build(ctx, userID, in)
	if err != nil {
		return Order{}, err
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = s.newNumber(s.now())
		err = s.repo.Create(ctx, &o)
		if !errors.Is(err, ErrDuplicateNumber) || attempt == numberAttempts {
			break
		}
		s.log.Warn("order number collision, regenerating",
			zap.String("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}
	if database.IsOutOfRange(err) {
		return Order{}, apperr.Invalid("order amounts are out of range")
	}
	if err != nil {
		s.log.Error("order placement failed", zap.Int("user_id", userID), zap.Error(err))
		return Order{}, apperr.Persistence("place order", err)
	}

	s.log.Info("order placed",
		zap.Int("user_id", userID),
		zap.Int("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("final_amount", o.FinalAmount.StringFixed(2)),
	)

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.log.Warn("cart not cleared after order",
			zap.Int("user_id", userID),
			zap.Int("order_id", o.ID),
			zap.Error(err),
		)
	}
	return o, nil
}

// build validates the input and derives the order with server-side totals.
func (s *Service) build(ctx context.Context, userID int, in PlaceInput) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, apperr.Invalid("order must contain at least one item")
	}
	delivery, err := pricing.ParseDeliveryType(in.DeliveryType)
	if err != nil {
		return Order{}, err
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if delivery == pricing.DeliveryHome && address == "" {
		return Order{}, apperr.Invalid("deliveryAddress is required for home delivery")
	}
	method, err := ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return Order{}, err
	}
	for _, l := range in.Items {
		if l.ProductID <= 0 {
			return Order{}, apperr.Invalid("invalid productId")
		}
		if err := pricing.CheckQuantity(l.Quantity); err != nil {
			return Order{}, err
		}
		if l.Price.IsNegative() {
			return Order{}, apperr.Invalid("price must not be negative")
		}
	}

	lines := in.Items
	if s.cfg.Reprice {
		if lines, err = s.reprice(ctx, in.Items); err != nil {
			return Order{}, err
		}
	}

	items := make([]Item, len(lines))
	priced := make([]pricing.Line, len(lines))
	for i, l := range lines {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			return Order{}, apperr.Invalid("name is required for product %d", l.ProductID)
		}
		pl := pricing.Line{Price: l.Price.Round(2), Quantity: l.Quantity}
		priced[i] = pl
		items[i] = Item{
			ProductID:   l.ProductID,
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   pl.Price,
			LineTotal:   pl.Total().Round(2),
		}
	}

	sum := pricing.Summarize(priced, delivery)
	discount := decimal.Zero
	final := sum.Subtotal.Add(sum.DeliveryCharge).Add(sum.Tax).Sub(discount)
	if final.GreaterThan(pricing.MaxAmount) {
		return Order{}, apperr.Invalid("order total exceeds %s", pricing.MaxAmount.StringFixed(2))
	}
	return Order{
		UserID:          userID,
		Subtotal:        sum.Subtotal,
		Discount:        discount,
		DeliveryCharge:  sum.DeliveryCharge,
		Tax:             sum.Tax,
		FinalAmount:     final,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   method,
		DeliveryType:    delivery,
		DeliveryAddress: address,
		PromoCode:       strings.TrimSpace(in.PromoCode),
		Notes:           strings.TrimSpace(in.Notes),
		Items:           items,
	}, nil
}

// reprice replaces submitted names and prices with catalog values. A price
// that drifted from the catalog is rejected so the customer sees the change.
func (s *Service) reprice(ctx context.Context, lines []LineInput) ([]LineInput, error) {
	ids := make([]int, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("load products for checkout", err)
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]LineInput, len(lines))
	for i, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok || !p.Orderable() {
			return nil, apperr.Invalid("product %d is not available", l.ProductID)
		}
		if l.Price.Sub(p.Price).Abs().GreaterThan(priceTolerance) {
			return nil, apperr.Invalid("price of %s changed to %s", p.Name, p.Price.StringFixed(2))
		}
		out[i] = LineInput{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: l.Quantity}
	}
	return out, nil
}

// Get returns the order if caller owns it or is an admin. Other callers get NotFound.
func (s *Service) Get(ctx context.Context, caller auth.Identity, id int) (Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, translate(err)
	}
	if o.UserID != caller.UserID && !caller.IsAdmin() {
		return Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID int) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return orders, nil
}

// ListAll is the admin view; status "" lists every order.
func (s *Service) ListAll(ctx context.Context, status string) ([]Order, error) {
	var st Status
	if status != "" {
		var err error
		if st, err = ParseStatus(status); err != nil {
			return nil, err
		}
	}
	orders, err := s.repo.List(ctx, st)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return orders, nil
}

// Cancel is the customer-initiated cancellation, allowed while pending or confirmed.
func (s *Service) Cancel(ctx context.Context, userID, id int) (Order, error) {
	o, err := s.Get(ctx, auth.Identity{UserID: userID, Role: auth.RoleCustomer}, id)
	if err != nil {
		return Order{}, err
	}
	return s.transition(ctx, o, StatusCancelled)
}

// UpdateStatus is the admin status change.
func (s *Service) UpdateStatus(ctx context.Context, id int, status string) (Order, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Order{}, translate(err)
	}
	return s.transition(ctx, o, to)
}

func (s *Service) UpdatePaymentStatus(ctx context.Context, id int, status string) (Order, error) {
	ps, err := ParsePaymentStatus(status)
	if err != nil {
		return Order{}, err
	}
	o, err := s.repo.UpdatePaymentStatus(ctx, id, ps)
	if err != nil {
		return Order{}, translate(err)
	}
	return o, nil
}

func (s *Service) transition(ctx context.Context, o Order, to Status) (Order, error) {
	if err := CheckTransition(o.Status, to); err != nil {
		return Order{}, err
	}
	updated, err := s.repo.UpdateStatus(ctx, o.ID, o.Status, to)
	if err != nil {
		return Order{}, translate(err)
	}
	s.log.Info("order status changed",
		zap.Int("order_id", o.ID),
		zap.String("from", o.Status.String()),
		zap.String("to", to.String()),
		zap.String("payment_status", string(updated.PaymentStatus)),
	)
	return updated, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperr.NotFound("order not found")
	case errors.Is(err, ErrStatusChanged):
		return apperr.Conflict("order status changed, reload and retry")
	case database.IsOutOfRange(err):
		return apperr.Invalid("value out of range")
	default:
		return apperr.Persistence("order store", err)
	}
}
