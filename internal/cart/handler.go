package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/httpx"
	"github.com/wichananm65/food-order-backend/internal/pricing"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes expects r to be behind auth.Protected.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart", h.addToCart)
	r.Post("/cart/merge", h.mergeCart)
	r.Patch("/cart/:productId", h.updateQuantity)
	r.Delete("/cart/:productId", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

type addRequest struct {
	ProductID int `json:"productId" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=1000"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=1000"`
}

type mergeRequest struct {
	Items []Line `json:"items"`
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	delivery, err := pricing.ParseDeliveryType(c.Query("deliveryType"))
	if err != nil {
		return err
	}
	return h.respond(c, id.UserID, delivery)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	var req addRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	if err := h.service.Add(c.UserContext(), id.UserID, req.ProductID, req.Quantity); err != nil {
		return err
	}
	return h.respond(c, id.UserID, pricing.DeliveryHome)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	productID, err := httpx.ParamID(c, "productId")
	if err != nil {
		return err
	}
	var req quantityRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateQuantity(c.UserContext(), id.UserID, productID, *req.Quantity); err != nil {
		return err
	}
	return h.respond(c, id.UserID, pricing.DeliveryHome)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	productID, err := httpx.ParamID(c, "productId")
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.UserContext(), id.UserID, productID); err != nil {
		return err
	}
	return h.respond(c, id.UserID, pricing.DeliveryHome)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.UserContext(), id.UserID); err != nil {
		return err
	}
	return h.respond(c, id.UserID, pricing.DeliveryHome)
}

func (h *Handler) mergeCart(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	var req mergeRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	merged := h.service.MergeAnonymous(c.UserContext(), id.UserID, req.Items)
	view, err := h.service.View(c.UserContext(), id.UserID, pricing.DeliveryHome)
	if err != nil {
		return err
	}
	return httpx.OK(c, fiber.Map{"merged": merged, "cart": view})
}

func (h *Handler) respond(c *fiber.Ctx, userID int, delivery pricing.DeliveryType) error {
	view, err := h.service.View(c.UserContext(), userID, delivery)
	if err != nil {
		return err
	}
	return httpx.OK(c, view)
}
