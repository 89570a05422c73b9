package returns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a returns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ret *models.Return) (*models.Return, error) {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(ret).Error; err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Return, error) {
	var ret models.Return
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ret).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Return, error) {
	var ret models.Return
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&ret).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) FindByUpstreamID(ctx context.Context, upstreamID string) (*models.Return, error) {
	var ret models.Return
	err := r.db.WithContext(ctx).
		Where("upstream_id = ?", upstreamID).
		First(&ret).Error
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *repository) FindByStatuses(ctx context.Context, statuses []enums.ReturnStatus) ([]models.Return, error) {
	var rets []models.Return
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at ASC").
		Find(&rets).Error
	if err != nil {
		return nil, err
	}
	return rets, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params) ([]models.Return, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Return{})

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rets []models.Return
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rets).Error; err != nil {
		return nil, nil, err
	}

	if len(rets) > normalized {
		next := rets[normalized]
		rets = rets[:normalized]
		return rets, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rets, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.Return{}).
		Where("id = ?", id).
		Updates(updates).Error
}
