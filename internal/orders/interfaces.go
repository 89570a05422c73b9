package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Order, error)
	FindByStatuses(ctx context.Context, statuses []enums.OrderStatus) ([]models.Order, error)
	FindInitiatedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	List(ctx context.Context, params pagination.Params) ([]models.Order, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Gateway is the slice of the upstream client the order flows use.
type Gateway interface {
	SubmitOrder(ctx context.Context, order zinc.OrderRequest) (zinc.Event, error)
	RetryOrder(ctx context.Context, requestID, verificationCode string) (zinc.Event, error)
	WebhookURL(channel string) string
}

// Reconciler refreshes a single order from upstream; the read path uses it
// opportunistically for orders still awaiting a result.
type Reconciler interface {
	ReconcileOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// Service defines the synchronous order operations.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	Retry(ctx context.Context, orderID uuid.UUID, verificationCode string) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params) (*OrderPage, error)
}

// OrderPage is one page of orders plus the cursor for the next page, if any.
type OrderPage struct {
	Orders []models.Order
	Cursor string
}
