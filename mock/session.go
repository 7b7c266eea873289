package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Session = (*Session)(nil)

// Session is a mock implementation of distill.Session.
type Session struct {
	RenderFn func(ctx context.Context, target string) (string, error)
}

func (s *Session) Render(ctx context.Context, target string) (string, error) {
	return s.RenderFn(ctx, target)
}

var _ distill.SessionPool = (*SessionPool)(nil)

// SessionPool is a mock implementation of distill.SessionPool.
type SessionPool struct {
	AcquireFn func(ctx context.Context) (distill.Session, error)
	ReleaseFn func(s distill.Session, healthy bool) error
	StatsFn   func() distill.PoolStats
	CloseFn   func() error
}

func (p *SessionPool) Acquire(ctx context.Context) (distill.Session, error) {
	return p.AcquireFn(ctx)
}

func (p *SessionPool) Release(s distill.Session, healthy bool) error {
	return p.ReleaseFn(s, healthy)
}

func (p *SessionPool) Stats() distill.PoolStats {
	return p.StatsFn()
}

func (p *SessionPool) Close() error {
	return p.CloseFn()
}
