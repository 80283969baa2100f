package order

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterProtectedRoutes expects r to be behind auth.Protected.
func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.getOrders)
	r.Get("/orders/:id", h.getOrder)
	r.Post("/orders/:id/cancel", h.cancelOrder)
}

// RegisterAdminRoutes expects r to be behind auth.Protected and auth.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/orders", h.listAll)
	r.Patch("/orders/:id/status", h.updateStatus)
	r.Patch("/orders/:id/payment", h.updatePayment)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	var in PlaceInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	o, err := h.service.Place(c.UserContext(), id.UserID, in)
	if err != nil {
		return err
	}
	return httpx.Created(c, o)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMine(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return httpx.OK(c, orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	caller, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	orderID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.Get(c.UserContext(), caller, orderID)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	caller, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	orderID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	o, err := h.service.Cancel(c.UserContext(), caller.UserID, orderID)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	orders, err := h.service.ListAll(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return httpx.OK(c, orders)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	orderID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	o, err := h.service.UpdateStatus(c.UserContext(), orderID, req.Status)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}

func (h *Handler) updatePayment(c *fiber.Ctx) error {
	orderID, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	o, err := h.service.UpdatePaymentStatus(c.UserContext(), orderID, req.PaymentStatus)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}
