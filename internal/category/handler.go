package category

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
	r.Get("/categories", h.getCategories)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/categories", h.createCategory)
	r.Patch("/categories/:id", h.updateCategory)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	items, err := h.service.List(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return httpx.OK(c, items)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var in CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	created, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpx.Created(c, created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var patch Patch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	updated, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, updated)
}
