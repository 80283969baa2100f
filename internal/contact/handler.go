package contact

import (
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
	r.Post("/contact", h.submit)
}

func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/contact-messages", h.list)
}

func (h *Handler) submit(c *fiber.Ctx) error {
	var in SubmitInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	m, err := h.service.Submit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpx.Created(c, m)
}

func (h *Handler) list(c *fiber.Ctx) error {
	msgs, err := h.service.List(c.UserContext(), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return err
	}
	return httpx.OK(c, msgs)
}
