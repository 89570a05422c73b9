package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// WebhookEvent is the append-only audit log of accepted webhook deliveries.
// Rows are never updated or deleted and are not consulted for business logic.
type WebhookEvent struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Source    string        `gorm:"column:source;not null"`
	Payload   types.JSONMap `gorm:"column:payload;type:jsonb;not null"`
	HandledAt time.Time     `gorm:"column:handled_at;autoCreateTime"`
}
