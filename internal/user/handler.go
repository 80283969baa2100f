package user

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/cart"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

// CartMerger folds a pre-login cart into the user's stored cart.
type CartMerger interface {
	MergeAnonymous(ctx context.Context, userID int, lines []cart.Line) int
}

type Handler struct {
	service *Service
	issuer  *auth.Issuer
	carts   CartMerger
}

func NewHandler(s *Service, issuer *auth.Issuer, carts CartMerger) *Handler {
	return &Handler{service: s, issuer: issuer, carts: carts}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/profile", h.getProfile)
	r.Patch("/profile", h.updateProfile)
}

// RegisterAdminRoutes expects r to be behind auth.Protected and auth.RequireAdmin.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/users", h.listUsers)
	r.Patch("/users/:id/status", h.setStatus)
	r.Patch("/users/:id/role", h.setRole)
}

type loginRequest struct {
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Cart     []cart.Line `json:"cart"`
}

type authResponse struct {
	Token           string `json:"token"`
	User            User   `json:"user"`
	MergedCartItems int    `json:"mergedCartItems"`
}

type statusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) register(c *fiber.Ctx) error {
	var in RegisterInput
	if err := httpx.Bind(c, &in); err != nil {
		return err
	}
	u, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		return err
	}
	token, err := h.issuer.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return err
	}
	return httpx.Created(c, authResponse{Token: token, User: u})
}

func (h *Handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := h.issuer.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return err
	}

	merged := 0
	if len(req.Cart) > 0 && h.carts != nil {
		merged = h.carts.MergeAnonymous(c.UserContext(), u.ID, req.Cart)
	}
	return httpx.OK(c, authResponse{Token: token, User: u, MergedCartItems: merged})
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	u, err := h.service.Profile(c.UserContext(), id.UserID)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	id, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	var patch ProfilePatch
	if err := httpx.Bind(c, &patch); err != nil {
		return err
	}
	u, err := h.service.UpdateProfile(c.UserContext(), id.UserID, patch)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return httpx.OK(c, users)
}

func (h *Handler) setStatus(c *fiber.Ctx) error {
	actor, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req statusRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.SetStatus(c.UserContext(), actor.UserID, id, *req.IsActive)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}

func (h *Handler) setRole(c *fiber.Ctx) error {
	actor, err := auth.FromCtx(c)
	if err != nil {
		return err
	}
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	var req roleRequest
	if err := httpx.Bind(c, &req); err != nil {
		return err
	}
	u, err := h.service.SetRole(c.UserContext(), actor.UserID, id, req.Role)
	if err != nil {
		return err
	}
	return httpx.OK(c, u)
}
