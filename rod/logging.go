package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
)

// Ensure LoggingPool implements distill.SessionPool.
var _ distill.SessionPool = (*LoggingPool)(nil)

// LoggingPool wraps a SessionPool with debug logging of acquires,
// releases, and renders.
type LoggingPool struct {
	next   distill.SessionPool
	logger *slog.Logger
}

// NewLoggingPool creates a new LoggingPool.
func NewLoggingPool(next distill.SessionPool, logger *slog.Logger) *LoggingPool {
	return &LoggingPool{next: next, logger: logger}
}

// Acquire logs the wait duration and delegates to the wrapped pool.
func (p *LoggingPool) Acquire(ctx context.Context) (s distill.Session, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("session acquire",
			"waited", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	s, err = p.next.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{next: s, logger: p.logger}, nil
}

// Release unwraps the logging session and delegates to the wrapped pool.
func (p *LoggingPool) Release(s distill.Session, healthy bool) error {
	if ls, ok := s.(*loggingSession); ok {
		s = ls.next
	}
	p.logger.Debug("session release", "healthy", healthy)
	return p.next.Release(s, healthy)
}

// Stats delegates to the wrapped pool.
func (p *LoggingPool) Stats() distill.PoolStats {
	return p.next.Stats()
}

// Close delegates to the wrapped pool.
func (p *LoggingPool) Close() error {
	return p.next.Close()
}

type loggingSession struct {
	next   distill.Session
	logger *slog.Logger
}

// Render logs the render duration and delegates to the wrapped session.
// Inline documents are logged by size rather than content.
func (s *loggingSession) Render(ctx context.Context, target string) (html string, err error) {
	desc := slog.Int("target_bytes", len(target))
	if isURL(target) {
		desc = slog.String("url", target)
	}
	defer func(begin time.Time) {
		s.logger.Info("render",
			desc,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Render(ctx, target)
}
