package services

import (
	"context"
	"log/slog"
	"time"
)

// RunPeriodically calls task every interval until ctx is done. Task errors are
// logged and the loop continues.
func RunPeriodically(ctx context.Context, name string, interval time.Duration, task func(context.Context) (int, error)) {
	logger := slog.Default().With(slog.String("worker", name))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Background worker started", slog.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Background worker stopped")
			return
		case <-ticker.C:
			n, err := task(ctx)
			if err != nil {
				logger.Error("Background worker pass failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				logger.Debug("Background worker pass done", slog.Int("processed", n))
			}
		}
	}
}
