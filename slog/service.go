package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingService implements distill.Service.
var _ distill.Service = (*LoggingService)(nil)

// LoggingService wraps a Service with per-request logging.
type LoggingService struct {
	next   distill.Service
	logger *slog.Logger
}

// NewLoggingService creates a new LoggingService.
func NewLoggingService(next distill.Service, logger *slog.Logger) *LoggingService {
	return &LoggingService{next: next, logger: logger}
}

// Extract delegates to the wrapped service and logs the outcome.
func (s *LoggingService) Extract(ctx context.Context, req distill.Request) (ex *distill.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.URL,
			"html_bytes", len(req.HTML),
			"render", req.RequiresRender,
			"status", distill.StatusFromError(err),
			"duration", time.Since(begin),
			"err", err,
		}
		if ex != nil {
			attrs = append(attrs, "markdown_bytes", len(ex.Markdown), "rendered", ex.Rendered)
		}
		s.logger.Info("extraction", attrs...)
	}(time.Now())
	return s.next.Extract(ctx, req)
}
