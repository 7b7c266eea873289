package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.Service = (*Service)(nil)

// Service is a mock implementation of distill.Service.
type Service struct {
	ExtractFn func(ctx context.Context, req distill.Request) (*distill.Extraction, error)
}

func (s *Service) Extract(ctx context.Context, req distill.Request) (*distill.Extraction, error) {
	return s.ExtractFn(ctx, req)
}
