package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/products", h.getProducts)
	r.Get("/products/:id", h.getProduct)
}

// RegisterAdminRoutes expects r to be behind auth.Protected and auth.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Post("/products", h.createProduct)
	r.Patch("/products/:id", h.updateProduct)
	r.Delete("/products/:id", h.retireProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	f := Filter{Query: strings.TrimSpace(c.Query("q"))}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return apperr.Invalid("invalid categoryId")
		}
		f.CategoryID = id
	}
	if raw := c.Query("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return apperr.Invalid("invalid available")
		}
		f.AvailableOnly = v
	}

	products, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return httpx.OK(c, products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return httpx.OK(c, p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var in CreateInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return httpx.Created(c, p)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var patch Patch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	p, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, p)
}

func (h *Handler) retireProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Retire(c.UserContext(), id); err != nil {
		return err
	}
	return httpx.OK(c, fiber.Map{"id": id, "lifecycle": LifecycleRetired})
}
