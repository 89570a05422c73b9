package recon

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds the append-only webhook audit store.
func NewEventRepository(db *gorm.DB) EventStore {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.WebhookEvent) (*models.WebhookEvent, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}
