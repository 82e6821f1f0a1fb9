package jobs

import (
	"context"
	"log/slog"

	"orderservice/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// OrderStatsJob periodically logs the number of orders per status.
// Gives operators a heartbeat of order flow without reaching for the database.
type OrderStatsJob struct {
	handler queries.GetOrderStatsQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOrderStatsJob creates a job that reports order counts by status.
// Uses GetOrderStatsQueryHandler to read the counts every 30 seconds.
func NewOrderStatsJob(handler queries.GetOrderStatsQueryHandler, logger *slog.Logger) *OrderStatsJob {
	return &OrderStatsJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "order_stats_job"),
	}
}

// Start begins the stats job on a 30-second cadence.
func (j *OrderStatsJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		query := queries.NewGetOrderStatsQuery()

		counts, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Order stats job failed", "error", err)
			return
		}

		attrs := make([]any, 0, len(counts)*2)
		for _, count := range counts {
			attrs = append(attrs, count.Status, count.Count)
		}
		j.logger.InfoContext(ctx, "Order counts by status", attrs...)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order stats job started (running every 30 seconds)")
	return nil
}

// Stop stops the stats job.
func (j *OrderStatsJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order stats job stopped")
}
