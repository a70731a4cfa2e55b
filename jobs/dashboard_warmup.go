package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/atlas-stays/atlas-stays/internal/dashboard"
)

// DashboardWarmupJob precomputes every dashboard aggregate so the first
// request after an invalidation does not pay the query cost.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(svc *dashboard.Service, logger *slog.Logger) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard: svc,
		Logger:    logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	started := j.clock()
	j.Logger.Info("starting dashboard warmup")

	g, gctx := errgroup.WithContext(ctx)
	loaders := []func(context.Context) (int64, error){
		j.Dashboard.TotalCities,
		j.Dashboard.TotalHotels,
		j.Dashboard.TotalTrips,
		j.Dashboard.ActiveTrips,
		j.Dashboard.TotalReservations,
		j.Dashboard.PendingReservations,
	}
	for _, loader := range loaders {
		g.Go(func() error {
			_, err := loader(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		j.Logger.Error("dashboard warmup", slog.Any("error", err))
		return err
	}

	j.Logger.Info("dashboard warmup complete",
		slog.Duration("took", j.clock().Sub(started)))
	return nil
}
