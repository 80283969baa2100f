package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/apperr"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), false)})
	app.Use(Protected(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, err := FromCtx(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"userId": id.UserID, "role": id.Role})
	})
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	return res.StatusCode
}

func TestProtected_RejectsMissingToken(t *testing.T) {
	assert.Equal(t, fiber.StatusUnauthorized, get(t, newApp(), "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, newApp(), "/me", "garbage"))
}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer(secret, time.Hour)
	tok, err := iss.Issue(7, "a@b.c", RoleCustomer)
	require.NoError(t, err)

	app := newApp()
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", tok))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", tok))

	adminTok, err := iss.Issue(1, "admin@b.c", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", adminTok))
}

func TestIssuer_ExpiredToken(t *testing.T) {
	iss := NewIssuer(secret, time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := iss.Issue(7, "a@b.c", RoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, newApp(), "/me", tok))
}

func TestIntClaim(t *testing.T) {
	for _, raw := range []any{float64(5), 5, int64(5), "5"} {
		id, ok := intClaim(raw)
		assert.True(t, ok)
		assert.Equal(t, 5, id)
	}
	_, ok := intClaim(true)
	assert.False(t, ok)
}

type storedUser struct {
	role   string
	active bool
}

type fakeLookup map[int]storedUser

func (f fakeLookup) Identity(_ context.Context, userID int) (string, bool, error) {
	u, ok := f[userID]
	if !ok {
		return "", false, apperr.Unauthorized("unauthorized")
	}
	return u.role, u.active, nil
}

func TestCurrent_UsesStoredRoleAndStatus(t *testing.T) {
	users := fakeLookup{
		1: {role: RoleCustomer, active: true},
		2: {role: RoleAdmin, active: false},
		3: {role: RoleAdmin, active: true},
	}
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), false)})
	app.Use(Protected(secret), Current(users))
	app.Get("/me", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	iss := NewIssuer(secret, time.Hour)
	demoted, err := iss.Issue(1, "was-admin@b.c", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", demoted))
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", demoted))

	deactivated, err := iss.Issue(2, "off@b.c", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", deactivated))

	promoted, err := iss.Issue(3, "new-admin@b.c", RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", promoted))

	unknown, err := iss.Issue(99, "gone@b.c", RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", unknown))
}
