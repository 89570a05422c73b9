package returns

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

type stubReturnsRepo struct {
	existing *models.Return
	created  *models.Return

	create func(ctx context.Context, ret *models.Return) (*models.Return, error)
}

func (s *stubReturnsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubReturnsRepo) Create(ctx context.Context, ret *models.Return) (*models.Return, error) {
	if s.create != nil {
		return s.create(ctx, ret)
	}
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	s.created = ret
	return ret, nil
}

func (s *stubReturnsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Return, error) {
	if s.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

func (s *stubReturnsRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Return, error) {
	if s.existing == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.existing, nil
}

func (s *stubReturnsRepo) FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Return, error) {
	panic("not implemented")
}

func (s *stubReturnsRepo) FindByStatuses(ctx context.Context, statuses []enums.ReturnStatus) ([]models.Return, error) {
	panic("not implemented")
}

func (s *stubReturnsRepo) List(ctx context.Context, params pagination.Params) ([]models.Return, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (s *stubReturnsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

type stubOrderStore struct {
	order *models.Order
}

func (s *stubOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

type stubReturnGateway struct {
	submitted *zinc.ReturnRequest
	requestID string

	submit func(ctx context.Context, requestID string, ret zinc.ReturnRequest) (zinc.Event, error)
}

func (s *stubReturnGateway) SubmitReturn(ctx context.Context, requestID string, ret zinc.ReturnRequest) (zinc.Event, error) {
	s.submitted = &ret
	s.requestID = requestID
	if s.submit != nil {
		return s.submit(ctx, requestID, ret)
	}
	return zinc.Event{RequestID: "ret-123", Raw: types.JSONMap{"request_id": "ret-123"}}, nil
}

func newReturnsTestService(t *testing.T, repo Repository, orders OrderStore, gateway Gateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:  logger.New(logger.Options{ServiceName: "returns-test"}),
		Repo:    repo,
		Orders:  orders,
		Gateway: gateway,
		Zinc:    config.ZincConfig{ProductID: "B002YM4WME"},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func completedOrder() *models.Order {
	return &models.Order{
		ID:         uuid.New(),
		UpstreamID: "req-9",
		Status:     enums.OrderStatusOrderResponse,
		Response:   types.JSONMap{"merchant_order_id": "111-2223334-555"},
	}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateReturnSubmitsAndPersists(t *testing.T) {
	repo := &stubReturnsRepo{}
	gateway := &stubReturnGateway{}
	order := completedOrder()
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, gateway)

	ret, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ret.Status != enums.ReturnStatusPending {
		t.Fatalf("expected pending, got %s", ret.Status)
	}
	if ret.UpstreamID != "ret-123" {
		t.Fatalf("expected upstream id, got %q", ret.UpstreamID)
	}
	if ret.OrderID != order.ID {
		t.Fatal("return must reference the order")
	}

	if gateway.requestID != "req-9" {
		t.Fatalf("expected submission against the order's upstream reference, got %q", gateway.requestID)
	}
	req := gateway.submitted
	if req.MerchantOrderID != "111-2223334-555" {
		t.Fatalf("unexpected merchant order id %q", req.MerchantOrderID)
	}
	if req.MethodCode != "ups_dropoff" {
		t.Fatalf("unexpected method %q", req.MethodCode)
	}
	if len(req.Products) != 1 || req.Products[0].ReasonCode != "defective" || req.Products[0].Quantity != 1 {
		t.Fatalf("unexpected products: %+v", req.Products)
	}
}

func TestCreateReturnUsesRequestedQuantityAndReason(t *testing.T) {
	gateway := &stubReturnGateway{}
	order := completedOrder()
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 3, Reason: "damaged"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	req := gateway.submitted
	if len(req.Products) != 1 {
		t.Fatalf("unexpected products: %+v", req.Products)
	}
	if req.Products[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", req.Products[0].Quantity)
	}
	if req.Products[0].ReasonCode != "damaged" {
		t.Fatalf("expected reason %q, got %q", "damaged", req.Products[0].ReasonCode)
	}
}

func TestCreateReturnDefaultsReason(t *testing.T) {
	gateway := &stubReturnGateway{}
	order := completedOrder()
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := gateway.submitted.Products[0].ReasonCode; got != "defective" {
		t.Fatalf("expected default reason, got %q", got)
	}
}

func TestCreateReturnRejectsNonPositiveQuantity(t *testing.T) {
	repo := &stubReturnsRepo{}
	gateway := &stubReturnGateway{}
	order := completedOrder()
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, gateway)

	for _, qty := range []int{0, -1} {
		_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: qty})
		expectCode(t, err, pkgerrors.CodeValidation)
	}
	if gateway.submitted != nil {
		t.Fatal("invalid quantity must not reach upstream")
	}
	if repo.created != nil {
		t.Fatal("invalid quantity must not write a row")
	}
}

func TestCreateReturnUnknownOrder(t *testing.T) {
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{}, &stubReturnGateway{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateReturnOrderNotCompleted(t *testing.T) {
	order := completedOrder()
	order.Status = enums.OrderStatusRequestProcessing
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{order: order}, &stubReturnGateway{})

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCreateReturnAlreadyExists(t *testing.T) {
	order := completedOrder()
	repo := &stubReturnsRepo{existing: &models.Return{ID: uuid.New(), OrderID: order.ID}}
	gateway := &stubReturnGateway{}
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeConflict)
	if gateway.submitted != nil {
		t.Fatal("duplicate return must not reach upstream")
	}
}

func TestCreateReturnMissingMerchantReference(t *testing.T) {
	order := completedOrder()
	order.Response = types.JSONMap{"_type": "order_response"}
	gateway := &stubReturnGateway{}
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if gateway.submitted != nil {
		t.Fatal("must not reach upstream without a merchant reference")
	}
}

func TestCreateReturnMissingUpstreamRequestID(t *testing.T) {
	order := completedOrder()
	repo := &stubReturnsRepo{}
	gateway := &stubReturnGateway{
		submit: func(ctx context.Context, requestID string, ret zinc.ReturnRequest) (zinc.Event, error) {
			return zinc.Event{Raw: types.JSONMap{"status": "accepted"}}, nil
		},
	}
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeDependency)
	if repo.created != nil {
		t.Fatal("no row may be written without an upstream request id")
	}
}

func TestCreateReturnUpstreamFailure(t *testing.T) {
	order := completedOrder()
	repo := &stubReturnsRepo{}
	gateway := &stubReturnGateway{
		submit: func(ctx context.Context, requestID string, ret zinc.ReturnRequest) (zinc.Event, error) {
			return zinc.Event{}, errors.New("gateway timeout")
		},
	}
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, gateway)

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeDependency)
	if repo.created != nil {
		t.Fatal("no row may be written after an upstream failure")
	}
}

func TestCreateReturnRacingInsertMapsToConflict(t *testing.T) {
	order := completedOrder()
	repo := &stubReturnsRepo{
		create: func(ctx context.Context, ret *models.Return) (*models.Return, error) {
			return nil, errors.New(`duplicate key value violates unique constraint "returns_order_id_key"`)
		},
	}
	svc := newReturnsTestService(t, repo, &stubOrderStore{order: order}, &stubReturnGateway{})

	_, err := svc.Create(context.Background(), order.ID, CreateInput{Quantity: 1})
	expectCode(t, err, pkgerrors.CodeConflict)
}

func TestGetReturnNotFound(t *testing.T) {
	svc := newReturnsTestService(t, &stubReturnsRepo{}, &stubOrderStore{}, &stubReturnGateway{})

	_, err := svc.Get(context.Background(), uuid.New())
	expectCode(t, err, pkgerrors.CodeNotFound)
}
