package cronrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"eventtrader/internal/repository"
)

// DailyStatsJob logs how many events were committed over the past day.
func DailyStatsJob(store repository.EventStore, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		count, err := store.CountSince(ctx, time.Now().Add(-24*time.Hour))
		if err != nil {
			logger.Warn("daily stats failed", zap.Error(err))
			return
		}
		logger.Info("daily stats", zap.Int64("events_24h", count))
	}
}

// PruneJob deletes events older than the retention window. Fingerprints of
// pruned events become insertable again, which is acceptable: the sources
// only surface recent items, so an expired headline no longer recurs.
func PruneJob(store repository.EventStore, retention time.Duration, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		deleted, err := store.DeleteOlderThan(ctx, time.Now().Add(-retention))
		if err != nil {
			logger.Warn("event prune failed", zap.Error(err))
			return
		}
		if deleted > 0 {
			logger.Info("events pruned", zap.Int64("deleted", deleted))
		}
	}
}
