package cron

import (
	"context"
	"fmt"

	"github.com/orderbridge/orderbridge-backend/internal/recon"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
)

// sweeper is the slice of the reconciliation engine the poll job drives.
type sweeper interface {
	Sweep(ctx context.Context) (recon.SweepResult, error)
}

// PollJob runs the reconciliation sweep on the cron cadence, covering any
// webhook deliveries that never arrived.
type PollJob struct {
	logg   *logger.Logger
	engine sweeper
}

// PollJobParams configure the poll job.
type PollJobParams struct {
	Logger *logger.Logger
	Engine sweeper
}

// NewPollJob builds the poll job.
func NewPollJob(params PollJobParams) (*PollJob, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Engine == nil {
		return nil, fmt.Errorf("reconciliation engine required")
	}
	return &PollJob{logg: params.Logger, engine: params.Engine}, nil
}

// Name implements Job.
func (j *PollJob) Name() string { return "poll" }

// Run implements Job. Partial sweep failures are surfaced so the run is
// recorded as failed, but the sweep itself already reconciled everything it
// could.
func (j *PollJob) Run(ctx context.Context) error {
	result, err := j.engine.Sweep(ctx)
	ctx = j.logg.WithFields(ctx, map[string]any{
		"orders_examined":  result.OrdersExamined,
		"returns_examined": result.ReturnsExamined,
	})
	if err != nil {
		j.logg.Error(ctx, "poll sweep finished with entity failures", err)
		return err
	}
	j.logg.Info(ctx, "poll sweep complete")
	return nil
}
