package cafeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chirayupatel9/palm-cafe-pos/pkg/config"
	pkgerrors "github.com/chirayupatel9/palm-cafe-pos/pkg/errors"
	"github.com/chirayupatel9/palm-cafe-pos/pkg/types"
	"github.com/google/uuid"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(config.ServerConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, nil)
	if err != nil {
		t.Fatalf("setup error: %v", err)
	}
	return client, server
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(config.ServerConfig{}, nil); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestCalculateTaxRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calculate-tax" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]float64
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["subtotal"] != 20 {
			t.Errorf("expected subtotal 20, got %v", body["subtotal"])
		}
		_ = json.NewEncoder(w).Encode(types.TaxQuote{Rate: 10, Name: "GST", Amount: 2})
	}))

	quote, err := client.CalculateTax(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Amount != 2 || quote.Name != "GST" {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestCalculateTaxServerErrorIsDependency(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.CalculateTax(context.Background(), 20)
	if err == nil {
		t.Fatalf("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestCustomerLoginFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(types.LoyaltyCustomer{Name: "Asha", Phone: "9876543210", LoyaltyPoints: 120})
	}))

	customer, err := client.CustomerLogin(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.LoyaltyPoints != 120 {
		t.Fatalf("unexpected customer %+v", customer)
	}
}

func TestCustomerLoginNotFoundIsCoded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.CustomerLogin(context.Background(), "9876543210")
	if err == nil {
		t.Fatalf("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestCreateOrderValidatesBeforeNetwork(t *testing.T) {
	var called bool
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.CreateOrder(context.Background(), types.OrderPayload{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	if called {
		t.Fatalf("invalid payload must not reach the wire")
	}
}

func TestCreateOrderRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload types.OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.CustomerName != "Asha" {
			t.Errorf("unexpected payload %+v", payload)
		}
		_ = json.NewEncoder(w).Encode(types.OrderReceipt{OrderNumber: "ORD-7", InvoiceNumber: "INV-7"})
	}))

	receipt, err := client.CreateOrder(context.Background(), types.OrderPayload{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		Items: []types.OrderItem{
			{ID: uuid.New(), Name: "Latte", UnitPrice: 4.5, Quantity: 2},
		},
		PaymentMethod: "cash",
		PickupOption:  "pickup",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.OrderNumber != "ORD-7" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestCreateOrderRequiresSplitMethodWhenSplit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := client.CreateOrder(context.Background(), types.OrderPayload{
		CustomerName: "Asha",
		Items: []types.OrderItem{
			{ID: uuid.New(), Name: "Latte", UnitPrice: 4.5, Quantity: 1},
		},
		SplitPayment:  true,
		PaymentMethod: "cash",
		PickupOption:  "pickup",
	})
	if err == nil {
		t.Fatalf("expected validation error for missing split method")
	}
}

func TestPaymentMethodsSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.PaymentOption{
			{Code: "cash", Name: "Cash"},
			{Code: "upi", Name: "UPI"},
			{Code: "card", Name: "Card"},
		})
	}))

	options := client.PaymentMethods(context.Background())
	if len(options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(options))
	}
}

func TestPaymentMethodsFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	options := client.PaymentMethods(context.Background())
	if len(options) != 2 {
		t.Fatalf("expected two fallback options, got %d", len(options))
	}
	if options[0].Code != "cash" || options[1].Code != "upi" {
		t.Fatalf("unexpected fallback set %+v", options)
	}
}

func TestPaymentMethodsEmptySetFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]types.PaymentOption{})
	}))

	options := client.PaymentMethods(context.Background())
	if len(options) != 2 {
		t.Fatalf("expected fallback for empty set, got %d", len(options))
	}
}
