package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventtrader/internal/config"
	"eventtrader/internal/notify"
	"eventtrader/internal/pipeline"
)

// TraderService drives the pipeline on a fixed interval until the context is
// cancelled. After HeartbeatEvery consecutive cycles without an accepted
// event it reports liveness through the notifier, so a quiet market is
// distinguishable from a dead process.
type TraderService struct {
	Pipeline *pipeline.Pipeline
	Notifier notify.Notifier
	Logger   *zap.Logger
	Config   config.LoopConfig
}

func (s *TraderService) Run(ctx context.Context) error {
	interval := s.Config.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	s.Logger.Info("trader loop started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quietCycles := 0
	for {
		accepted := s.runCycle(ctx)
		if ctx.Err() != nil {
			s.Logger.Info("trader loop stopped")
			return nil
		}

		if accepted > 0 {
			quietCycles = 0
		} else {
			quietCycles++
		}
		if s.Config.HeartbeatEvery > 0 && quietCycles >= s.Config.HeartbeatEvery {
			s.heartbeat(ctx)
			quietCycles = 0
		}

		select {
		case <-ctx.Done():
			s.Logger.Info("trader loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *TraderService) runCycle(ctx context.Context) int {
	runID := uuid.NewString()
	start := time.Now()
	accepted, err := s.Pipeline.RunCycle(ctx)
	if err != nil && ctx.Err() == nil {
		s.Logger.Error("cycle failed", zap.String("run_id", runID), zap.Error(err))
		return accepted
	}
	s.Logger.Info("cycle finished",
		zap.String("run_id", runID),
		zap.Int("accepted", accepted),
		zap.Duration("elapsed", time.Since(start)),
	)
	return accepted
}

func (s *TraderService) heartbeat(ctx context.Context) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(ctx, "✅ *EventTrader heartbeat*: no signals found, system OK."); err != nil {
		s.Logger.Warn("heartbeat notification failed", zap.Error(err))
	}
}
