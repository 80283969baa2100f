package cart

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/auth/authtest"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

func makeAppWithCartHandler(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), false)})
	app.Use(authtest.Middleware())
	h.RegisterProtectedRoutes(app)
	return app
}

func request(method, path, body, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set(authtest.HeaderUserID, userID)
	}
	return req
}

type viewBody struct {
	Success bool `json:"success"`
	Data    View `json:"data"`
}

func decodeView(t *testing.T, res *http.Response) View {
	t.Helper()
	var body viewBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Data
}

func TestCartRoutes_Basic(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog(), zap.NewNop())
	app := makeAppWithCartHandler(NewHandler(svc))

	res, _ := app.Test(request("GET", "/cart", "", ""))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated GET, got %d", res.StatusCode)
	}

	res, _ = app.Test(request("POST", "/cart", `{"productId":1,"quantity":2}`, "42"))
	if res.StatusCode != fiber.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 200 for adding to cart, got %d: %s", res.StatusCode, b)
	}

	res, _ = app.Test(request("POST", "/cart", `{"productId":1,"quantity":1}`, "42"))
	view := decodeView(t, res)
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("expected one line with quantity 3, got %+v", view.Items)
	}

	res, _ = app.Test(request("PATCH", "/cart/1", `{"quantity":1}`, "42"))
	view = decodeView(t, res)
	if view.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity set to 1, got %d", view.Items[0].Quantity)
	}

	res, _ = app.Test(request("POST", "/cart", `{"productId":2,"quantity":1}`, "42"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	res, _ = app.Test(request("GET", "/cart?deliveryType=pickup", "", "42"))
	view = decodeView(t, res)
	if got := view.Summary.Total.StringFixed(2); got != "157.50" {
		t.Fatalf("expected pickup total 157.50, got %s", got)
	}

	res, _ = app.Test(request("PATCH", "/cart/2", `{"quantity":0}`, "42"))
	view = decodeView(t, res)
	if len(view.Items) != 1 {
		t.Fatalf("expected product 2 removed, got %+v", view.Items)
	}

	res, _ = app.Test(request("DELETE", "/cart/1", "", "42"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", res.StatusCode)
	}

	res, _ = app.Test(request("DELETE", "/cart", "", "42"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for clear cart, got %d", res.StatusCode)
	}
	view = decodeView(t, res)
	if len(view.Items) != 0 || !view.Summary.Total.IsZero() {
		t.Fatalf("expected empty cart in clear response, got %+v", view)
	}

	res, _ = app.Test(request("GET", "/cart", "", "42"))
	view = decodeView(t, res)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", view.Items)
	}
}

func TestCartRoutes_Errors(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog(), zap.NewNop())
	app := makeAppWithCartHandler(NewHandler(svc))

	cases := []struct {
		method, path, body string
		want               int
	}{
		{"POST", "/cart", `{"productId":1}`, fiber.StatusBadRequest},
		{"POST", "/cart", `{"productId":1,"quantity":-1}`, fiber.StatusBadRequest},
		{"POST", "/cart", `{"productId":99,"quantity":1}`, fiber.StatusNotFound},
		{"POST", "/cart", `{"productId":1,"quantity":1001}`, fiber.StatusBadRequest},
		{"POST", "/cart", `{"productId":1,"quantity":99999999999}`, fiber.StatusBadRequest},
		{"PATCH", "/cart/1", `{"quantity":5000}`, fiber.StatusBadRequest},
		{"POST", "/cart", `not json`, fiber.StatusBadRequest},
		{"PATCH", "/cart/1", `{}`, fiber.StatusBadRequest},
		{"PATCH", "/cart/abc", `{"quantity":1}`, fiber.StatusBadRequest},
		{"GET", "/cart?deliveryType=drone", "", fiber.StatusBadRequest},
	}
	for _, tc := range cases {
		res, _ := app.Test(request(tc.method, tc.path, tc.body, "42"))
		if res.StatusCode != tc.want {
			t.Fatalf("%s %s %s: expected %d got %d", tc.method, tc.path, tc.body, tc.want, res.StatusCode)
		}
	}
}

func TestCartRoutes_MoneyHasTwoPlaces(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog(), zap.NewNop())
	app := makeAppWithCartHandler(NewHandler(svc))

	res, _ := app.Test(request("POST", "/cart", `{"productId":1,"quantity":2}`, "42"))
	b, _ := io.ReadAll(res.Body)
	for _, want := range []string{`"price":"100.00"`, `"lineTotal":"200.00"`, `"tax":"10.00"`, `"total":"259.00"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %s in %s", want, b)
		}
	}
}

func TestCartMerge(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), testCatalog(), zap.NewNop())
	app := makeAppWithCartHandler(NewHandler(svc))

	res, _ := app.Test(request("POST", "/cart/merge", `{"items":[{"productId":1,"quantity":2},{"productId":99,"quantity":1}]}`, "42"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", res.StatusCode)
	}
	var body struct {
		Data struct {
			Merged int  `json:"merged"`
			Cart   View `json:"cart"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Merged != 1 || len(body.Data.Cart.Items) != 1 {
		t.Fatalf("unexpected merge result: %+v", body.Data)
	}
}
