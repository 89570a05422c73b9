package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// Order is the durable record of one checkout submission against the
// upstream fulfillment API.
//
// UpstreamID stays empty until upstream accepts the submission and never
// changes afterwards. Response always holds the raw payload of the most
// recent reconciling event, replaced wholesale on every write.
type Order struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UpstreamID     string             `gorm:"column:upstream_id;not null;default:'';index"`
	Mode           enums.CheckoutMode `gorm:"column:mode;type:text;not null"`
	IdempotencyKey string             `gorm:"column:idempotency_key;not null;uniqueIndex"`
	Status         enums.OrderStatus  `gorm:"column:status;type:text;not null;default:'initiated'"`
	Response       types.JSONMap      `gorm:"column:response;type:jsonb"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// MerchantOrderID extracts the merchant order reference from the stored
// upstream payload. Empty when the order has no usable payload yet.
func (o *Order) MerchantOrderID() string {
	if o == nil {
		return ""
	}
	return o.Response.String("merchant_order_id")
}
