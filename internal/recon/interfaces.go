package recon

import (
	"context"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// OrderStore is the slice of order persistence reconciliation needs.
// internal/orders.Repository satisfies it.
type OrderStore interface {
	FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Order, error)
	FindByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// ReturnStore is the slice of return persistence reconciliation needs.
// internal/returns.Repository satisfies it.
type ReturnStore interface {
	FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Return, error)
	FindByStatuses(ctx context.Context, statuses []enums.ReturnStatus) ([]models.Return, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// EventStore persists the append-only webhook audit log.
type EventStore interface {
	Create(ctx context.Context, event *models.WebhookEvent) (*models.WebhookEvent, error)
}

// Gateway is the slice of the upstream client the poll paths use.
type Gateway interface {
	GetOrder(ctx context.Context, requestID string) (zinc.Event, error)
	GetReturn(ctx context.Context, requestID string) (zinc.Event, error)
}
