package returns

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// Repository defines persistence operations for the returns table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ret *models.Return) (*models.Return, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Return, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Return, error)
	FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Return, error)
	FindByStatuses(ctx context.Context, statuses []enums.ReturnStatus) ([]models.Return, error)
	List(ctx context.Context, params pagination.Params) ([]models.Return, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// OrderStore is the slice of order persistence the return flow needs.
type OrderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Gateway is the slice of the upstream client the return flows use.
type Gateway interface {
	SubmitReturn(ctx context.Context, requestID string, ret zinc.ReturnRequest) (zinc.Event, error)
}

// CreateInput carries the buyer-supplied details of a return request. An
// empty Reason falls back to the default reason code.
type CreateInput struct {
	Quantity int
	Reason   string
}

// Service defines the synchronous return operations.
type Service interface {
	Create(ctx context.Context, orderID uuid.UUID, input CreateInput) (*models.Return, error)
	Get(ctx context.Context, returnID uuid.UUID) (*models.Return, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*models.Return, error)
	List(ctx context.Context, params pagination.Params) (*ReturnPage, error)
}

// ReturnPage is one page of returns plus the cursor for the next page, if any.
type ReturnPage struct {
	Returns []models.Return
	Cursor  string
}
