package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

type stubExpiryStore struct {
	stale   []models.Order
	cutoff  time.Time
	updates map[uuid.UUID]map[string]any

	update func(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

func (s *stubExpiryStore) FindInitiatedBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	s.cutoff = cutoff
	return s.stale, nil
}

func (s *stubExpiryStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.update != nil {
		return s.update(ctx, id, updates)
	}
	if s.updates == nil {
		s.updates = make(map[uuid.UUID]map[string]any)
	}
	s.updates[id] = updates
	return nil
}

func newExpiryJob(t *testing.T, store expiryStore, ttl time.Duration, now time.Time) *OrderExpiryJob {
	t.Helper()
	job, err := NewOrderExpiryJob(OrderExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Store:  store,
		TTL:    ttl,
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewOrderExpiryJob: %v", err)
	}
	return job
}

func TestOrderExpiryMarksStaleOrdersFailed(t *testing.T) {
	stale := models.Order{ID: uuid.New(), Status: enums.OrderStatusInitiated}
	store := &stubExpiryStore{stale: []models.Order{stale}}
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	job := newExpiryJob(t, store, 24*time.Hour, now)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantCutoff := now.Add(-24 * time.Hour)
	if !store.cutoff.Equal(wantCutoff) {
		t.Fatalf("expected cutoff %s, got %s", wantCutoff, store.cutoff)
	}

	updates := store.updates[stale.ID]
	if updates == nil {
		t.Fatal("expected the stale order to be updated")
	}
	if updates["status"] != enums.OrderStatusError {
		t.Fatalf("expected error status, got %v", updates["status"])
	}
	payload, ok := updates["response"].(types.JSONMap)
	if !ok || payload.String("code") != "submission_expired" {
		t.Fatalf("expected synthetic error payload, got %v", updates["response"])
	}
}

func TestOrderExpiryNoStaleOrders(t *testing.T) {
	store := &stubExpiryStore{}
	job := newExpiryJob(t, store, 24*time.Hour, time.Now())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(store.updates) != 0 {
		t.Fatal("no updates expected")
	}
}

func TestOrderExpiryIsolatesFailures(t *testing.T) {
	first := models.Order{ID: uuid.New(), Status: enums.OrderStatusInitiated}
	second := models.Order{ID: uuid.New(), Status: enums.OrderStatusInitiated}
	applied := make(map[uuid.UUID]bool)
	store := &stubExpiryStore{
		stale: []models.Order{first, second},
		update: func(ctx context.Context, id uuid.UUID, updates map[string]any) error {
			if id == first.ID {
				return errors.New("write failed")
			}
			applied[id] = true
			return nil
		},
	}

	job := newExpiryJob(t, store, time.Hour, time.Now())
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected the aggregated failure")
	}
	if !applied[second.ID] {
		t.Fatal("failure on one order must not stop the rest")
	}
}
