// Package auth turns JWT claims into the identity every cart and order
// operation runs as.
package auth

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/food-order-backend/internal/apperr"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	// ContextKey is where the jwt middleware stores the parsed token.
	ContextKey = "user"

	identityKey = "identity"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID int
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Protected verifies the bearer token and stores it in c.Locals(ContextKey).
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ContextKey: ContextKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperr.Unauthorized("missing or invalid token")
		},
	})
}

// Lookup reads the stored role and active flag of a user.
type Lookup interface {
	Identity(ctx context.Context, userID int) (role string, active bool, err error)
}

// Current re-reads the caller from the store so a deactivation or role
// change applies to tokens that were issued before it. It runs after Protected.
func Current(lookup Lookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := FromCtx(c)
		if err != nil {
			return err
		}
		role, active, err := lookup.Identity(c.UserContext(), id.UserID)
		if err != nil {
			return err
		}
		if !active {
			return apperr.Unauthorized("account is deactivated")
		}
		c.Locals(identityKey, Identity{UserID: id.UserID, Role: role})
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	id, err := FromCtx(c)
	if err != nil {
		return err
	}
	if !id.IsAdmin() {
		return apperr.Forbidden("admin access required")
	}
	return c.Next()
}

// FromCtx returns the identity stored by Current, falling back to the
// claims of the token placed in locals by Protected.
func FromCtx(c *fiber.Ctx) (Identity, error) {
	if id, ok := c.Locals(identityKey).(Identity); ok {
		return id, nil
	}
	tok, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || tok == nil {
		return Identity{}, apperr.Unauthorized("unauthorized")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.Unauthorized("unauthorized")
	}
	id, ok := intClaim(claims["user_id"])
	if !ok || id <= 0 {
		return Identity{}, apperr.Unauthorized("unauthorized")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleCustomer
	}
	return Identity{UserID: id, Role: role}, nil
}

func intClaim(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		id, err := strconv.Atoi(v)
		return id, err == nil
	default:
		return 0, false
	}
}

// Issuer signs HS256 tokens carrying user_id and role.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(userID int, email, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"exp":     i.now().Add(i.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}
