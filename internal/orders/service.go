package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

const (
	retailer     = "amazon"
	orderQty     = 1
	shipFree     = "free"
	shipCheapest = "cheapest"
)

// ServiceParams configure the orders service.
type ServiceParams struct {
	Logger     *logger.Logger
	Repo       Repository
	Gateway    Gateway
	Reconciler Reconciler
	Zinc       config.ZincConfig
}

type service struct {
	logg       *logger.Logger
	repo       Repository
	gateway    Gateway
	reconciler Reconciler
	cfg        config.ZincConfig
}

// NewService builds the orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("upstream gateway required")
	}
	return &service{
		logg:       params.Logger,
		repo:       params.Repo,
		gateway:    params.Gateway,
		reconciler: params.Reconciler,
		cfg:        params.Zinc,
	}, nil
}

// Checkout validates the purchase request, records the durable intent row,
// submits upstream, and commits the acknowledgment. Validation runs entirely
// before the insert so a rejected request leaves no orphan row.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if !input.Mode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown checkout mode %q", input.Mode))
	}

	switch input.Mode {
	case enums.CheckoutModeCredentials:
		if input.Credentials == nil || input.Payment == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "credentials and payment required for credentials mode")
		}
	case enums.CheckoutModeAddax:
		if !s.cfg.AddaxEnabled {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "addax checkout not enabled")
		}
	}

	idempotencyKey := uuid.NewString()

	order, err := s.repo.Create(ctx, &models.Order{
		Mode:           input.Mode,
		IdempotencyKey: idempotencyKey,
		Status:         enums.OrderStatusInitiated,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order record")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	submission := s.buildSubmission(idempotencyKey, input)

	ev, err := s.gateway.SubmitOrder(ctx, submission)
	if err != nil {
		// The initiated row survives as the durable record of intent; the
		// expiry job surfaces it if nothing ever comes back.
		s.logg.Error(ctx, "order submission failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order upstream")
	}
	if ev.RequestID == "" {
		s.logg.Warn(ctx, "order submission acknowledged without a request id")
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream acknowledgment missing request id")
	}

	updates := map[string]any{
		"status":      enums.OrderStatusRequestProcessing,
		"upstream_id": ev.RequestID,
		"response":    ev.Raw,
	}
	if err := s.repo.Update(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit upstream acknowledgment")
	}

	ctx = s.logg.WithUpstreamID(ctx, ev.RequestID)
	s.logg.Info(ctx, "order submitted upstream")

	return &CheckoutResult{
		OrderID:           order.ID,
		UpstreamRequestID: ev.RequestID,
		Status:            enums.OrderStatusRequestProcessing,
	}, nil
}

func (s *service) buildSubmission(idempotencyKey string, input CheckoutInput) zinc.OrderRequest {
	req := zinc.OrderRequest{
		IdempotencyKey: idempotencyKey,
		Retailer:       retailer,
		Products: []zinc.Product{
			{ProductID: s.cfg.ProductID, Quantity: orderQty},
		},
		MaxPrice:        s.cfg.MaxPriceCents,
		ShippingAddress: input.Address,
		Webhooks: zinc.Webhooks{
			RequestSucceeded: s.gateway.WebhookURL(zinc.ChannelSucceeded),
			RequestFailed:    s.gateway.WebhookURL(zinc.ChannelFailed),
			TrackingObtained: s.gateway.WebhookURL(zinc.ChannelTracking),
			TrackingUpdated:  s.gateway.WebhookURL(zinc.ChannelTracking),
		},
	}

	if input.Mode == enums.CheckoutModeCredentials {
		req.ShippingMethod = shipFree
		req.RetailerCredentials = input.Credentials
		payment := *input.Payment
		payment.UseGift = false
		req.PaymentMethod = &payment
		billing := input.Address
		req.BillingAddress = &billing
		return req
	}

	req.ShippingMethod = shipCheapest
	req.Addax = true
	return req
}

// Retry resubmits a challenged order with the buyer's verification code. Any
// successful upstream response optimistically moves the order back to
// request_processing; the real outcome arrives later via reconciliation.
func (s *service) Retry(ctx context.Context, orderID uuid.UUID, verificationCode string) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UpstreamID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no upstream reference")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	ctx = s.logg.WithUpstreamID(ctx, order.UpstreamID)

	ev, err := s.gateway.RetryOrder(ctx, order.UpstreamID, verificationCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retry order upstream")
	}

	updates := map[string]any{
		"status":   enums.OrderStatusRequestProcessing,
		"response": ev.Raw,
	}
	if err := s.repo.Update(ctx, order.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit retry acknowledgment")
	}

	s.logg.Info(ctx, "retry submitted upstream")

	order.Status = enums.OrderStatusRequestProcessing
	order.Response = ev.Raw
	return order, nil
}

// Get returns the order, refreshing it from upstream first when it is still
// awaiting a result. Reconcile failures degrade to serving the stored row.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if s.reconciler != nil && order.Status == enums.OrderStatusRequestProcessing && order.UpstreamID != "" {
		refreshed, recErr := s.reconciler.ReconcileOrder(ctx, order)
		if recErr != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "inline reconcile failed", recErr)
			return order, nil
		}
		return refreshed, nil
	}

	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*OrderPage, error) {
	orders, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := &OrderPage{Orders: orders}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}
