package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.ExtractionCache = (*ExtractionCache)(nil)

// ExtractionCache is a mock implementation of distill.ExtractionCache.
type ExtractionCache struct {
	FindExtractionFn func(ctx context.Context, key string) (*distill.Extraction, error)
	SaveExtractionFn func(ctx context.Context, key string, e *distill.Extraction) error
}

func (c *ExtractionCache) FindExtraction(ctx context.Context, key string) (*distill.Extraction, error) {
	return c.FindExtractionFn(ctx, key)
}

func (c *ExtractionCache) SaveExtraction(ctx context.Context, key string, e *distill.Extraction) error {
	return c.SaveExtractionFn(ctx, key, e)
}
