package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/clients"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/errors"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/money"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-pos-service/internal/service"
)

type fixture struct {
	router     *gin.Engine
	cartStore  *cart.Store
	settlement *clients.MockSettlementClient
	publisher  *events.MockPublisher
	catalog    *clients.MockCatalogClient
	history    *clients.MockTransactionClient
}

func newFixture() *fixture {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryCartRepository()
	cartStore := cart.NewStore(repo, logging.New("handlers-test"))
	settlement := clients.NewMockSettlementClient()
	publisher := events.NewMockPublisher()
	catalog := &clients.MockCatalogClient{}
	history := &clients.MockTransactionClient{}
	cfg := &config.Config{
		Features: config.FeatureFlags{EnablePOSEvents: true},
	}

	checkoutSvc := service.NewCheckoutService(cartStore, settlement, publisher, cfg)
	transactionSvc := service.NewTransactionService(history)

	h := NewHandlers(cartStore, checkoutSvc, transactionSvc, catalog, publisher, cfg)

	router := gin.New()
	router.GET("/api/products", h.ListProducts)
	router.GET("/api/cart", h.GetCart)
	router.POST("/api/cart/items", h.AddItem)
	router.POST("/api/cart/items/:name/increment", h.IncrementItem)
	router.POST("/api/cart/items/:name/decrement", h.DecrementItem)
	router.PUT("/api/cart/items/:name", h.SetItemQuantity)
	router.DELETE("/api/cart/items/:name", h.RemoveItem)
	router.DELETE("/api/cart", h.ClearCart)
	router.POST("/api/checkout", h.Checkout)
	router.GET("/api/transactions", h.ListTransactions)
	router.GET("/health", h.Health)

	return &fixture{
		router:     router,
		cartStore:  cartStore,
		settlement: settlement,
		publisher:  publisher,
		catalog:    catalog,
		history:    history,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response %s: %v", w.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["status"] != "healthy" {
		t.Errorf("status = %v", resp["status"])
	}
	if resp["service"] != "pos-service" {
		t.Errorf("service = %v", resp["service"])
	}
}

func TestAddItemAndGetCart(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	w = f.do(t, http.MethodGet, "/api/cart", nil)
	resp := decode(t, w)

	items := resp["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	line := items[0].(map[string]any)
	if line["quantity"].(float64) != 2 {
		t.Errorf("quantity = %v, want 2", line["quantity"])
	}
	if resp["subtotal"] != "$39.98" || resp["tax"] != "$3.40" || resp["total"] != "$43.38" {
		t.Errorf("unexpected totals: %v / %v / %v", resp["subtotal"], resp["tax"], resp["total"])
	}
	if resp["itemCount"].(float64) != 2 {
		t.Errorf("itemCount = %v, want 2", resp["itemCount"])
	}
}

func TestSetQuantityAcceptsFreeText(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	w := f.do(t, http.MethodPut, "/api/cart/items/Widget", gin.H{"quantity": "not-a-number"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode(t, w)
	line := resp["items"].([]any)[0].(map[string]any)
	if line["quantity"].(float64) != 1 {
		t.Errorf("unparseable quantity must become 1, got %v", line["quantity"])
	}
}

func TestAddItemRequiresName(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/cart/items", gin.H{"price": 5})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"paymentMethod": "CASH",
		"amountPaid":    "100.00",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if resp["code"] != "EMPTY_CART" {
		t.Errorf("code = %v, want EMPTY_CART", resp["code"])
	}
	if resp["error"] != "Add items to cart first." {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestCheckoutCashSuccessEndToEnd(t *testing.T) {
	f := newFixture()

	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	f.settlement.Response = &models.CheckoutResponse{TransactionID: "txn_99"}

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"paymentMethod": "CASH",
		"amountPaid":    "43.38",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode(t, w)
	if resp["transactionId"] != "txn_99" {
		t.Errorf("transactionId = %v", resp["transactionId"])
	}

	if !f.cartStore.IsEmpty() {
		t.Error("cart must be empty after a settled checkout")
	}

	w = f.do(t, http.MethodGet, "/api/cart", nil)
	cartResp := decode(t, w)
	if cartResp["total"] != "$0.00" {
		t.Errorf("post-checkout total = %v, want $0.00", cartResp["total"])
	}
}

func TestCheckoutCardValidationFailure(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"paymentMethod":  "CARD",
		"cardLast4":      "12a4",
		"cardHolderName": "J Doe",
		"cardExpiry":     "12/29",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["code"] != "INVALID_CARD_NUMBER" {
		t.Errorf("code = %v", resp["code"])
	}
	if f.settlement.SubmittedCount() != 0 {
		t.Error("invalid card must never reach settlement")
	}
}

func TestCheckoutUnknownMethod(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{"paymentMethod": "BARTER"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutSubmissionFailureSurfacesMessage(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	f.settlement.Err = errors.NewSubmissionError("register closed")

	w := f.do(t, http.MethodPost, "/api/checkout", gin.H{
		"paymentMethod": "CASH",
		"amountPaid":    "100.00",
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["error"] != "register closed" {
		t.Errorf("error = %v", resp["error"])
	}
	if f.cartStore.IsEmpty() {
		t.Error("failed checkout must not clear the cart")
	}
}

func TestClearCartPublishesEvent(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodPost, "/api/cart/items", gin.H{"name": "Widget", "price": 19.99})

	w := f.do(t, http.MethodDelete, "/api/cart", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if !f.cartStore.IsEmpty() {
		t.Error("cart must be empty after clear")
	}

	published := f.publisher.Published()
	if len(published) != 1 || published[0].Type != events.EventTypeCartCleared {
		t.Errorf("expected one cart_cleared event, got %+v", published)
	}
}

func TestListProductsFiltersByQuery(t *testing.T) {
	f := newFixture()
	f.catalog.Products = []models.Product{
		{Name: "Widget", Description: "A useful widget", Price: money.FromFloat(19.99)},
		{Name: "Gadget", Description: "Matches widget in the description", Price: money.FromFloat(5)},
		{Name: "Doohickey", Description: "Unrelated", Price: money.FromFloat(1)},
	}

	w := f.do(t, http.MethodGet, "/api/products?q=widget", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["count"].(float64) != 2 {
		t.Errorf("count = %v, want 2", resp["count"])
	}
}

func TestListTransactionsEmptyState(t *testing.T) {
	f := newFixture()

	w := f.do(t, http.MethodGet, "/api/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	resp := decode(t, w)
	if resp["count"].(float64) != 0 {
		t.Errorf("count = %v, want 0", resp["count"])
	}
	if _, ok := resp["transactions"].([]any); !ok {
		t.Errorf("transactions must be an empty list, got %v", resp["transactions"])
	}
}
