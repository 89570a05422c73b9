package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/internal/orders"
	"github.com/orderbridge/orderbridge-backend/internal/recon"
	"github.com/orderbridge/orderbridge-backend/internal/returns"
	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
)

type noopOrdersService struct{}

func (noopOrdersService) Checkout(context.Context, orders.CheckoutInput) (*orders.CheckoutResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "unavailable")
}

func (noopOrdersService) Retry(context.Context, uuid.UUID, string) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) Get(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopOrdersService) List(context.Context, pagination.Params) (*orders.OrderPage, error) {
	return &orders.OrderPage{}, nil
}

type noopReturnsService struct{}

func (noopReturnsService) Create(context.Context, uuid.UUID, returns.CreateInput) (*models.Return, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (noopReturnsService) Get(context.Context, uuid.UUID) (*models.Return, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
}

func (noopReturnsService) GetByOrder(context.Context, uuid.UUID) (*models.Return, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
}

func (noopReturnsService) List(context.Context, pagination.Params) (*returns.ReturnPage, error) {
	return &returns.ReturnPage{}, nil
}

type noopDeliveryHandler struct{ calls int }

func (h *noopDeliveryHandler) HandleDelivery(context.Context, string, []byte) error {
	h.calls++
	return nil
}

type noopSweeper struct{}

func (noopSweeper) Sweep(context.Context) (recon.SweepResult, error) {
	return recon.SweepResult{}, nil
}

func newTestRouter(t *testing.T, handler *noopDeliveryHandler) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "dev"
	cfg.Zinc.WebhookSecret = "hook"
	cfg.Zinc.PollSecret = "poll"

	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		Orders:   noopOrdersService{},
		Returns:  noopReturnsService{},
		Webhooks: handler,
		Sweeper:  noopSweeper{},
	})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter(t, &noopDeliveryHandler{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if resp.Header().Get("X-OrderBridge-Env") != "dev" {
		t.Fatal("env header missing")
	}
}

func TestRouterWebhookSecretEnforced(t *testing.T) {
	handler := &noopDeliveryHandler{}
	router := newTestRouter(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/succeeded?secret=wrong", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if handler.calls != 0 {
		t.Fatal("handler must not run with a wrong secret")
	}
}

func TestRouterWebhookAccepted(t *testing.T) {
	handler := &noopDeliveryHandler{}
	router := newTestRouter(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/tracking?secret=hook", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if handler.calls != 1 {
		t.Fatal("handler should have run")
	}
}

func TestRouterPollRequiresBearer(t *testing.T) {
	router := newTestRouter(t, &noopDeliveryHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/poll", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t, &noopDeliveryHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
