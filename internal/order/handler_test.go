package order

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/food-order-backend/internal/auth"
	"github.com/wichananm65/food-order-backend/internal/auth/authtest"
	"github.com/wichananm65/food-order-backend/internal/httpx"
)

func setupApp(t *testing.T) (*fiber.App, fixture) {
	t.Helper()
	f := newFixture(t, Config{Reprice: true})
	h := NewHandler(f.service)
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(zap.NewNop(), true)})
	app.Use(authtest.Middleware())
	h.RegisterProtectedRoutes(app)
	h.RegisterAdminRoutes(app.Group("/admin", auth.RequireAdmin))
	return app, f
}

func send(method, path, body, userID, role string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(authtest.HeaderUserID, userID)
	}
	if role != "" {
		req.Header.Set(authtest.HeaderRole, role)
	}
	return req
}

const checkoutBody = `{
	"items": [
		{"productId": 1, "name": "Margherita", "price": "100", "quantity": 2},
		{"productId": 2, "name": "Iced Tea", "price": 50, "quantity": 1}
	],
	"deliveryType": "home",
	"deliveryAddress": "12 Sukhumvit Rd",
	"paymentMethod": "cod",
	"promoCode": "WELCOME10"
}`

type orderBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Order  `json:"data"`
}

func TestCreateOrder_Success(t *testing.T) {
	app, _ := setupApp(t)

	res, err := app.Test(send("POST", "/orders", checkoutBody, "7", ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201 got %d: %s", res.StatusCode, b)
	}
	var body orderBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.ID == 0 || body.Data.OrderNumber == "" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if got := body.Data.FinalAmount.StringFixed(2); got != "311.50" {
		t.Fatalf("expected final amount 311.50, got %s", got)
	}
	if body.Data.PromoCode != "WELCOME10" || !body.Data.Discount.IsZero() {
		t.Fatalf("promo code should be stored without discount: %+v", body.Data)
	}
	if len(body.Data.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Data.Items))
	}
}

func TestCreateOrder_Errors(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := app.Test(send("POST", "/orders", checkoutBody, "", ""))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.StatusCode)
	}

	res, _ = app.Test(send("POST", "/orders", `{"items":[],"paymentMethod":"cod","deliveryType":"pickup"}`, "7", ""))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty items got %d", res.StatusCode)
	}
	var body orderBody
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body.Success || body.Message == "" {
		t.Fatalf("expected error envelope, got %+v", body)
	}

	noAddress := strings.Replace(checkoutBody, `"deliveryAddress": "12 Sukhumvit Rd",`, "", 1)
	res, _ = app.Test(send("POST", "/orders", noAddress, "7", ""))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing address got %d", res.StatusCode)
	}
}

func TestCreateOrder_QuantityOverflowIsBadRequest(t *testing.T) {
	app, _ := setupApp(t)

	huge := strings.Replace(checkoutBody, `"price": "100", "quantity": 2`, `"price": "100", "quantity": 99999999999`, 1)
	res, _ := app.Test(send("POST", "/orders", huge, "7", ""))
	if res.StatusCode != fiber.StatusBadRequest {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 400 for oversized quantity got %d: %s", res.StatusCode, b)
	}
}

func TestCreateOrder_MoneyHasTwoPlaces(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := app.Test(send("POST", "/orders", checkoutBody, "7", ""))
	b, _ := io.ReadAll(res.Body)
	for _, want := range []string{
		`"subtotal":"250.00"`, `"discount":"0.00"`, `"deliveryCharge":"49.00"`,
		`"tax":"12.50"`, `"finalAmount":"311.50"`, `"unitPrice":"100.00"`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %s in %s", want, b)
		}
	}
}

func TestOrderReadAndCancel(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := app.Test(send("POST", "/orders", checkoutBody, "7", ""))
	var created orderBody
	_ = json.NewDecoder(res.Body).Decode(&created)
	path := "/orders/" + strconv.Itoa(created.Data.ID)

	res, _ = app.Test(send("GET", path, "", "8", ""))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for a stranger, got %d", res.StatusCode)
	}
	res, _ = app.Test(send("GET", path, "", "1", auth.RoleAdmin))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected admin to read any order, got %d", res.StatusCode)
	}

	res, _ = app.Test(send("GET", "/orders", "", "7", ""))
	var list struct {
		Data []Order `json:"data"`
	}
	_ = json.NewDecoder(res.Body).Decode(&list)
	if len(list.Data) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list.Data))
	}

	res, _ = app.Test(send("POST", path+"/cancel", "", "7", ""))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for cancel, got %d", res.StatusCode)
	}
	res, _ = app.Test(send("POST", path+"/cancel", "", "7", ""))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for second cancel, got %d", res.StatusCode)
	}
}

func TestAdminOrderRoutes(t *testing.T) {
	app, _ := setupApp(t)

	res, _ := app.Test(send("POST", "/orders", checkoutBody, "7", ""))
	var created orderBody
	_ = json.NewDecoder(res.Body).Decode(&created)
	base := "/admin/orders/" + strconv.Itoa(created.Data.ID)

	res, _ = app.Test(send("PATCH", base+"/status", `{"status":"confirmed"}`, "7", ""))
	if res.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", res.StatusCode)
	}

	for _, st := range []string{"confirmed", "preparing", "ready", "delivered"} {
		res, _ = app.Test(send("PATCH", base+"/status", `{"status":"`+st+`"}`, "1", auth.RoleAdmin))
		if res.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 moving to %s, got %d", st, res.StatusCode)
		}
	}
	var delivered orderBody
	_ = json.NewDecoder(res.Body).Decode(&delivered)
	if delivered.Data.PaymentStatus != PaymentPaid {
		t.Fatalf("expected cod order paid on delivery, got %s", delivered.Data.PaymentStatus)
	}

	res, _ = app.Test(send("PATCH", base+"/status", `{"status":"ready"}`, "1", auth.RoleAdmin))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 moving out of delivered, got %d", res.StatusCode)
	}

	res, _ = app.Test(send("PATCH", base+"/payment", `{"paymentStatus":"failed"}`, "1", auth.RoleAdmin))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for payment update, got %d", res.StatusCode)
	}
	res, _ = app.Test(send("PATCH", base+"/payment", `{}`, "1", auth.RoleAdmin))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing paymentStatus, got %d", res.StatusCode)
	}

	res, _ = app.Test(send("GET", "/admin/orders?status=delivered", "", "1", auth.RoleAdmin))
	var list struct {
		Data []Order `json:"data"`
	}
	_ = json.NewDecoder(res.Body).Decode(&list)
	if len(list.Data) != 1 {
		t.Fatalf("expected 1 delivered order, got %d", len(list.Data))
	}
}
