package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/internal/returns"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
)

type testReturnsService struct {
	createFn func(ctx context.Context, orderID uuid.UUID, input returns.CreateInput) (*models.Return, error)
	getFn    func(ctx context.Context, returnID uuid.UUID) (*models.Return, error)
}

func (s *testReturnsService) Create(ctx context.Context, orderID uuid.UUID, input returns.CreateInput) (*models.Return, error) {
	if s.createFn != nil {
		return s.createFn(ctx, orderID, input)
	}
	return nil, nil
}

func (s *testReturnsService) Get(ctx context.Context, returnID uuid.UUID) (*models.Return, error) {
	if s.getFn != nil {
		return s.getFn(ctx, returnID)
	}
	return nil, nil
}

func (s *testReturnsService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*models.Return, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
}

func (s *testReturnsService) List(ctx context.Context, params pagination.Params) (*returns.ReturnPage, error) {
	return &returns.ReturnPage{}, nil
}

func returnRequest(orderID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID+"/return", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateReturnSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &testReturnsService{
		createFn: func(ctx context.Context, gotOrderID uuid.UUID, input returns.CreateInput) (*models.Return, error) {
			if gotOrderID != orderID {
				t.Fatalf("unexpected order id %s", gotOrderID)
			}
			if input.Quantity != 2 {
				t.Fatalf("unexpected quantity %d", input.Quantity)
			}
			if input.Reason != "damaged" {
				t.Fatalf("unexpected reason %q", input.Reason)
			}
			return &models.Return{
				ID:         uuid.New(),
				OrderID:    orderID,
				UpstreamID: "ret-1",
				Status:     enums.ReturnStatusPending,
			}, nil
		},
	}

	resp := httptest.NewRecorder()
	CreateReturn(svc, testLogger())(resp, returnRequest(orderID.String(), `{"quantity":2,"reason":"damaged"}`))

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateReturnMissingQuantity(t *testing.T) {
	called := false
	svc := &testReturnsService{
		createFn: func(ctx context.Context, orderID uuid.UUID, input returns.CreateInput) (*models.Return, error) {
			called = true
			return nil, nil
		},
	}

	resp := httptest.NewRecorder()
	CreateReturn(svc, testLogger())(resp, returnRequest(uuid.NewString(), `{"reason":"damaged"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if called {
		t.Fatal("service must not be called without a quantity")
	}
}

func TestCreateReturnConflict(t *testing.T) {
	svc := &testReturnsService{
		createFn: func(ctx context.Context, orderID uuid.UUID, input returns.CreateInput) (*models.Return, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a return already exists for this order")
		},
	}

	resp := httptest.NewRecorder()
	CreateReturn(svc, testLogger())(resp, returnRequest(uuid.NewString(), `{"quantity":1}`))

	if resp.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCreateReturnStateConflict(t *testing.T) {
	svc := &testReturnsService{
		createFn: func(ctx context.Context, orderID uuid.UUID, input returns.CreateInput) (*models.Return, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in a returnable state")
		},
	}

	resp := httptest.NewRecorder()
	CreateReturn(svc, testLogger())(resp, returnRequest(uuid.NewString(), `{"quantity":1}`))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestCreateReturnBadOrderID(t *testing.T) {
	resp := httptest.NewRecorder()
	CreateReturn(&testReturnsService{}, testLogger())(resp, returnRequest("not-a-uuid", `{"quantity":1}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
