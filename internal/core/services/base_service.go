package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/middleware"
	"github.com/SscSPs/fx_exchange_engine/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock   func() time.Time
	metrics *metrics.Metrics
}

// Option configures the BaseService embedded in every service.
type Option func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithMetrics attaches the Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) {
		s.metrics = m
	}
}

func newBaseService(opts []Option) BaseService {
	var b BaseService
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Now returns the current UTC time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// Metrics returns the collectors; the result may be nil, which is safe to use.
func (s *BaseService) Metrics() *metrics.Metrics {
	return s.metrics
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recovered failure with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}
