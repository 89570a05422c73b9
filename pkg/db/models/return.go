package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// Return tracks a single return request for an order. The unique index on
// OrderID enforces at most one return per order even when two requests race
// past the service-level precondition check.
type Return struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID          `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UpstreamID string             `gorm:"column:upstream_id;not null;index"`
	Status     enums.ReturnStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	LabelURL   *string            `gorm:"column:label_url"`
	Response   types.JSONMap      `gorm:"column:response;type:jsonb"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
