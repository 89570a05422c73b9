package recon

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/orderbridge/orderbridge-backend/pkg/enums"
)

// SweepResult counts every entity a sweep selected, failed attempts and
// rows skipped for a missing upstream reference included.
type SweepResult struct {
	OrdersExamined  int `json:"orders_examined"`
	ReturnsExamined int `json:"returns_examined"`
}

// Sweep polls every order and return still awaiting an upstream result and
// applies whatever upstream reports. One failing entity never aborts the
// rest; per-entity errors are aggregated and returned alongside the counts.
func (e *Engine) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	var errs error

	orders, err := e.orders.FindByStatuses(ctx, enums.PollableOrderStatuses())
	if err != nil {
		return result, fmt.Errorf("list pollable orders: %w", err)
	}
	for i := range orders {
		order := orders[i]
		result.OrdersExamined++
		e.metrics.AddExamined("order", 1)
		if order.UpstreamID == "" {
			continue
		}
		if _, err := e.ReconcileOrder(ctx, &order); err != nil {
			e.metrics.IncFailure("order")
			e.logg.Error(e.logg.WithOrderID(ctx, order.ID.String()), "order sweep entity failed", err)
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
		}
	}

	returns, err := e.returns.FindByStatuses(ctx, enums.PollableReturnStatuses())
	if err != nil {
		return result, multierr.Append(errs, fmt.Errorf("list pollable returns: %w", err))
	}
	for i := range returns {
		ret := returns[i]
		result.ReturnsExamined++
		e.metrics.AddExamined("return", 1)
		if ret.UpstreamID == "" {
			continue
		}
		if _, err := e.ReconcileReturn(ctx, &ret); err != nil {
			e.metrics.IncFailure("return")
			e.logg.Error(e.logg.WithReturnID(ctx, ret.ID.String()), "return sweep entity failed", err)
			errs = multierr.Append(errs, fmt.Errorf("return %s: %w", ret.ID, err))
		}
	}

	return result, errs
}
