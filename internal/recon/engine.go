package recon

import (
	"context"
	"fmt"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/metrics"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// EngineParams configure the reconciliation engine.
type EngineParams struct {
	Logger  *logger.Logger
	Orders  OrderStore
	Returns ReturnStore
	Events  EventStore
	Gateway Gateway
	Metrics *metrics.SweepMetrics
}

// Engine applies upstream events to the local order and return rows. The
// webhook path, the poll sweep and the inline read-path refresh all funnel
// through the same transitions, so replaying any payload is a no-op.
type Engine struct {
	logg    *logger.Logger
	orders  OrderStore
	returns ReturnStore
	events  EventStore
	gateway Gateway
	metrics *metrics.SweepMetrics
}

// NewEngine builds the reconciliation engine with the required dependencies.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if params.Returns == nil {
		return nil, fmt.Errorf("return store required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("upstream gateway required")
	}
	return &Engine{
		logg:    params.Logger,
		orders:  params.Orders,
		returns: params.Returns,
		events:  params.Events,
		gateway: params.Gateway,
		metrics: params.Metrics,
	}, nil
}

// applyOrderEvent writes the computed status and the event payload onto the
// order row. The payload is overwritten wholesale on every event.
func (e *Engine) applyOrderEvent(ctx context.Context, order *models.Order, channel string, ev zinc.Event) (*models.Order, error) {
	next := NextOrderStatus(order.Status, channel, ev)
	updates := map[string]any{
		"status":   next,
		"response": ev.Raw,
	}
	if err := e.orders.Update(ctx, order.ID, updates); err != nil {
		return nil, err
	}

	refreshed := *order
	refreshed.Status = next
	refreshed.Response = ev.Raw
	return &refreshed, nil
}

// applyReturnEvent writes the computed state and the event payload onto the
// return row.
func (e *Engine) applyReturnEvent(ctx context.Context, ret *models.Return, ev zinc.Event) (*models.Return, error) {
	next, label := NextReturnState(ret.Status, ev)
	updates := map[string]any{
		"status":   next,
		"response": ev.Raw,
	}
	if label != nil {
		updates["label_url"] = *label
	}
	if err := e.returns.Update(ctx, ret.ID, updates); err != nil {
		return nil, err
	}

	refreshed := *ret
	refreshed.Status = next
	refreshed.Response = ev.Raw
	if label != nil {
		refreshed.LabelURL = label
	}
	return &refreshed, nil
}

// ReconcileOrder fetches the order's current upstream state and applies it.
// The read path uses this for orders still awaiting a result.
func (e *Engine) ReconcileOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.UpstreamID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no upstream reference")
	}

	ctx = e.logg.WithOrderID(ctx, order.ID.String())
	ctx = e.logg.WithUpstreamID(ctx, order.UpstreamID)

	ev, err := e.gateway.GetOrder(ctx, order.UpstreamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "poll order upstream")
	}

	refreshed, err := e.applyOrderEvent(ctx, order, zinc.ChannelPoll, ev)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit polled order state")
	}
	return refreshed, nil
}

// ReconcileReturn fetches the return's current upstream state and applies it.
func (e *Engine) ReconcileReturn(ctx context.Context, ret *models.Return) (*models.Return, error) {
	if ret.UpstreamID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "return has no upstream reference")
	}

	ctx = e.logg.WithReturnID(ctx, ret.ID.String())
	ctx = e.logg.WithUpstreamID(ctx, ret.UpstreamID)

	ev, err := e.gateway.GetReturn(ctx, ret.UpstreamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "poll return upstream")
	}

	refreshed, err := e.applyReturnEvent(ctx, ret, ev)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "commit polled return state")
	}
	return refreshed, nil
}
