package category

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/httpx"
)

func newTestApp(repo Repository) *fiber.App {
	h := NewHandler(NewService(repo))
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), false)})
	h.RegisterPublicRoutes(app)
	h.RegisterAdminRoutes(app.Group("/admin"))
	return app
}

func TestGetCategories_ActiveOnlyInOrder(t *testing.T) {
	repo := NewInMemoryRepository([]Category{
		{ID: 1, Name: "Drinks", IsActive: true, SortOrder: 2},
		{ID: 2, Name: "Pizza", IsActive: true, SortOrder: 1},
		{ID: 3, Name: "Seasonal", IsActive: false},
	})
	app := newTestApp(repo)

	res, err := app.Test(httptest.NewRequest("GET", "/categories", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body struct {
		Data []Category `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 || body.Data[0].Name != "Pizza" || body.Data[1].Name != "Drinks" {
		t.Fatalf("unexpected categories: %+v", body.Data)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/categories?limit=1", nil))
	body.Data = nil
	_ = json.NewDecoder(res.Body).Decode(&body)
	if len(body.Data) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(body.Data))
	}
}

func TestAdminCategories(t *testing.T) {
	app := newTestApp(NewInMemoryRepository([]Category{{ID: 1, Name: "Pizza", IsActive: true}}))

	post := func(body string) int {
		req := httptest.NewRequest("POST", "/admin/categories", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		res, _ := app.Test(req)
		return res.StatusCode
	}
	if code := post(`{"name":"Desserts"}`); code != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", code)
	}
	if code := post(`{"name":"pizza"}`); code != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate name got %d", code)
	}
	if code := post(`{}`); code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", code)
	}

	req := httptest.NewRequest("PATCH", "/admin/categories/1", strings.NewReader(`{"isActive":false}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}

	req = httptest.NewRequest("PATCH", "/admin/categories/42", strings.NewReader(`{"name":"Ghost"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.StatusCode)
	}
}
