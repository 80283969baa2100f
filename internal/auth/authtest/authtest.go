// Package authtest injects identities into fiber apps under test without
// signing real tokens.
package authtest

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/food-order-backend/internal/auth"
)

const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-Role"
)

// Middleware turns X-User-ID / X-Role headers into the token auth.FromCtx reads.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v := c.Get(HeaderUserID); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				role := c.Get(HeaderRole)
				if role == "" {
					role = auth.RoleCustomer
				}
				claims := jwt.MapClaims{"user_id": id, "role": role}
				c.Locals(auth.ContextKey, &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	}
}
