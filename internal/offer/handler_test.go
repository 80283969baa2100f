package offer

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/httpx"
)

func makeAppWithOfferHandler(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), false)})
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app.Group("/admin"))
	return app
}

func TestOfferRoutes(t *testing.T) {
	app := makeAppWithOfferHandler(NewHandler(newTestService(seedOffers())))

	res, _ := app.Test(httptest.NewRequest("GET", "/offers", nil))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var body struct {
		Data []Offer `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 live offers, got %d", len(body.Data))
	}

	req := httptest.NewRequest("POST", "/admin/offers", strings.NewReader(`{"title":"Free dessert","discountPercent":"5"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("PATCH", "/admin/offers/1/active", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without isActive, got %d", res.StatusCode)
	}

	req = httptest.NewRequest("PATCH", "/admin/offers/42/active", strings.NewReader(`{"isActive":false}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.StatusCode)
	}
}
