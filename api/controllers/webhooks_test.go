package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type testDeliveryHandler struct {
	channel string
	body    string
	calls   int
	err     error
}

func (h *testDeliveryHandler) HandleDelivery(ctx context.Context, channel string, body []byte) error {
	h.calls++
	h.channel = channel
	h.body = string(body)
	return h.err
}

func webhookRequest(channel, secret, body string) *http.Request {
	url := "/webhooks/" + channel
	if secret != "" {
		url += "?secret=" + secret
	}
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("channel", channel)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestWebhookAcceptsValidDelivery(t *testing.T) {
	handler := &testDeliveryHandler{}
	resp := httptest.NewRecorder()
	body := `{"_type": "order_response", "request_id": "req-1"}`
	Webhook(handler, "s3cret", testLogger())(resp, webhookRequest("succeeded", "s3cret", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if handler.calls != 1 || handler.channel != "succeeded" {
		t.Fatalf("handler not invoked correctly: %+v", handler)
	}
	if handler.body != body {
		t.Fatal("body must reach the handler untouched")
	}
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	handler := &testDeliveryHandler{}
	resp := httptest.NewRecorder()
	Webhook(handler, "s3cret", testLogger())(resp, webhookRequest("failed", "wrong", `{}`))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if handler.calls != 0 {
		t.Fatal("a rejected delivery must not reach the handler")
	}
}

func TestWebhookRejectsMissingSecret(t *testing.T) {
	handler := &testDeliveryHandler{}
	resp := httptest.NewRecorder()
	Webhook(handler, "s3cret", testLogger())(resp, webhookRequest("tracking", "", `{}`))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if handler.calls != 0 {
		t.Fatal("a rejected delivery must not reach the handler")
	}
}

func TestWebhookUnknownChannel(t *testing.T) {
	handler := &testDeliveryHandler{}
	resp := httptest.NewRecorder()
	Webhook(handler, "s3cret", testLogger())(resp, webhookRequest("mystery", "s3cret", `{}`))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if handler.calls != 0 {
		t.Fatal("unknown channels must not reach the handler")
	}
}

func TestWebhookAuditFailureIsServerError(t *testing.T) {
	handler := &testDeliveryHandler{err: errors.New("audit insert failed")}
	resp := httptest.NewRecorder()
	Webhook(handler, "s3cret", testLogger())(resp, webhookRequest("succeeded", "s3cret", `{}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
