package offer

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/offers", h.listOffers)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/offers", h.createOffer)
	r.Patch("/offers/:id/active", h.setActive)
}

type activeRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *Handler) listOffers(c *fiber.Ctx) error {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	offers, err := h.service.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return httpx.OK(c, offers)
}

func (h *Handler) createOffer(c *fiber.Ctx) error {
	var in CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	o, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpx.Created(c, o)
}

func (h *Handler) setActive(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req activeRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	o, err := h.service.SetActive(c.UserContext(), id, *req.IsActive)
	if err != nil {
		return err
	}
	return httpx.OK(c, o)
}
