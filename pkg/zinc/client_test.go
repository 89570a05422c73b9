package zinc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orderbridge/orderbridge-backend/pkg/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), config.ZincConfig{
		BaseURL:       server.URL,
		ClientToken:   "client-token",
		WebhookSecret: "hook-secret",
		PublicBaseURL: "https://orders.example.com/",
	}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), config.ZincConfig{
		WebhookSecret: "x",
		PublicBaseURL: "https://orders.example.com",
	}, nil)
	if err == nil {
		t.Fatal("expected error without client token")
	}
}

func TestSubmitOrderSendsAuthAndDecodes(t *testing.T) {
	var gotAuth string
	var gotBody OrderRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"request_id":"req-1"}`))
	}))

	ev, err := client.SubmitOrder(context.Background(), OrderRequest{
		IdempotencyKey: "key-1",
		Retailer:       "amazon",
		Products:       []Product{{ProductID: "B002YM4WME", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if gotAuth == "" {
		t.Fatal("expected basic auth header")
	}
	if gotBody.IdempotencyKey != "key-1" {
		t.Fatalf("body not serialized: %+v", gotBody)
	}
	if ev.RequestID != "req-1" || ev.Kind != KindUnknown {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestCallReturnsTypedAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"_type":"error","code":"max_price_exceeded"}`))
	}))

	_, err := client.GetOrder(context.Background(), "req-1")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestGetOrderDecodesVariants(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_type":"order_response","request_id":"req-2","merchant_order_id":"m-1","tracking":[{"carrier":"ups"}]}`))
	}))

	ev, err := client.GetOrder(context.Background(), "req-2")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if ev.Kind != KindOrderResponse || ev.MerchantOrderID != "m-1" || !ev.HasTracking() {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Raw.String("_type") != "order_response" {
		t.Fatalf("raw payload should be retained: %+v", ev.Raw)
	}
}

func TestRetryOrderWrapsVerificationCode(t *testing.T) {
	var got map[string]map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders/req-3/retry" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{}`))
	}))

	if _, err := client.RetryOrder(context.Background(), "req-3", "123456"); err != nil {
		t.Fatalf("RetryOrder: %v", err)
	}
	if got["retailer_credentials"]["verification_code"] != "123456" {
		t.Fatalf("verification code not embedded: %+v", got)
	}
}

func TestWebhookURLCarriesSecret(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	got := client.WebhookURL("succeeded")
	want := "https://orders.example.com/webhooks/succeeded?secret=hook-secret"
	if got != want {
		t.Fatalf("WebhookURL = %q, want %q", got, want)
	}
}

func TestDecodeEventTrackingError(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"_type":"error","code":"tracking_unavailable"}`))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if !ev.IsTrackingError() {
		t.Fatalf("expected tracking error, got %+v", ev)
	}

	ev, err = DecodeEvent([]byte(`{"_type":"error","code":"invalid_login"}`))
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if ev.IsTrackingError() {
		t.Fatalf("non-tracking code should not report tracking error: %+v", ev)
	}
}
