package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

const defaultInitiatedTTL = 24 * time.Hour

// expiryStore is the slice of order persistence the expiry job needs.
type expiryStore interface {
	FindInitiatedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// OrderExpiryJob resolves orders that never made it upstream. An order still
// initiated with no upstream reference after the TTL will never be touched
// by a webhook or the poll sweep, so it is marked failed with a synthetic
// payload instead of sitting invisible forever.
type OrderExpiryJob struct {
	logg  *logger.Logger
	store expiryStore
	ttl   time.Duration
	now   func() time.Time
}

// OrderExpiryJobParams configure the order expiry job.
type OrderExpiryJobParams struct {
	Logger *logger.Logger
	Store  expiryStore
	TTL    time.Duration
	Now    func() time.Time
}

// NewOrderExpiryJob builds the order expiry job.
func NewOrderExpiryJob(params OrderExpiryJobParams) (*OrderExpiryJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("order store required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultInitiatedTTL
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &OrderExpiryJob{logg: params.Logger, store: params.Store, ttl: ttl, now: now}, nil
}

// Name implements Job.
func (j *OrderExpiryJob) Name() string { return "order-expiry" }

// Run implements Job.
func (j *OrderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.store.FindInitiatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list stale orders: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	var errs error
	expired := 0
	for i := range stale {
		order := stale[i]
		updates := map[string]any{
			"status": enums.OrderStatusError,
			"response": types.JSONMap{
				"_type":   "error",
				"code":    "submission_expired",
				"message": fmt.Sprintf("order not submitted upstream within %s", j.ttl),
			},
		}
		if err := j.store.Update(ctx, order.ID, updates); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		expired++
	}

	ctx = j.logg.WithField(ctx, "expired", expired)
	if errs != nil {
		j.logg.Error(ctx, "order expiry finished with failures", errs)
		return errs
	}
	j.logg.Info(ctx, "stale initiated orders expired")
	return nil
}
