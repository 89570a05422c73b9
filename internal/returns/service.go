package returns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

const (
	defaultReturnReason = "defective"
	returnMethod        = "ups_dropoff"
	returnConstraint    = "returns_order_id_key"
)

// ServiceParams configure the returns service.
type ServiceParams struct {
	Logger  *logger.Logger
	Repo    Repository
	Orders  OrderStore
	Gateway Gateway
	Zinc    config.ZincConfig
}

type service struct {
	logg    *logger.Logger
	repo    Repository
	orders  OrderStore
	gateway Gateway
	cfg     config.ZincConfig
}

// NewService builds the returns service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("upstream gateway required")
	}
	return &service{
		logg:    params.Logger,
		repo:    params.Repo,
		orders:  params.Orders,
		gateway: params.Gateway,
		cfg:     params.Zinc,
	}, nil
}

// Create opens a return for a completed order with the requested quantity
// and reason. Preconditions run in a fixed order so the caller always sees
// the most specific failure: unknown order, order not completed, return
// already open, payload missing the merchant reference. No row is written
// until upstream hands back a request id.
func (s *service) Create(ctx context.Context, orderID uuid.UUID, input CreateInput) (*models.Return, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return quantity must be at least 1")
	}
	reason := input.Reason
	if reason == "" {
		reason = defaultReturnReason
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status != enums.OrderStatusOrderResponse {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in a returnable state")
	}

	if _, err := s.repo.FindByOrderID(ctx, orderID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a return already exists for this order")
	} else if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing return")
	}

	merchantOrderID := order.MerchantOrderID()
	if merchantOrderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order payload has no merchant order reference")
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	ev, err := s.gateway.SubmitReturn(ctx, order.UpstreamID, zinc.ReturnRequest{
		MerchantOrderID: merchantOrderID,
		Products: []zinc.ReturnProduct{
			{ProductID: s.cfg.ProductID, Quantity: input.Quantity, ReasonCode: reason},
		},
		MethodCode: returnMethod,
	})
	if err != nil {
		s.logg.Error(ctx, "return submission failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit return upstream")
	}
	if ev.RequestID == "" {
		s.logg.Warn(ctx, "return submission acknowledged without a request id")
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream acknowledgment missing request id")
	}

	ret, err := s.repo.Create(ctx, &models.Return{
		OrderID:    order.ID,
		UpstreamID: ev.RequestID,
		Status:     enums.ReturnStatusPending,
		Response:   ev.Raw,
	})
	if err != nil {
		if db.IsUniqueViolation(err, returnConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a return already exists for this order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create return record")
	}

	ctx = s.logg.WithReturnID(ctx, ret.ID.String())
	ctx = s.logg.WithUpstreamID(ctx, ev.RequestID)
	s.logg.Info(ctx, "return submitted upstream")

	return ret, nil
}

func (s *service) Get(ctx context.Context, returnID uuid.UUID) (*models.Return, error) {
	ret, err := s.repo.FindByID(ctx, returnID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return")
	}
	return ret, nil
}

func (s *service) GetByOrder(ctx context.Context, orderID uuid.UUID) (*models.Return, error) {
	ret, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return")
	}
	return ret, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ReturnPage, error) {
	rets, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	page := &ReturnPage{Returns: rets}
	if next != nil {
		page.Cursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}
