package store

import (
	"context"

	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
)

// CachedEngine wraps an engine with the fragment cache. On a full batch hit
// the inner engine is not invoked at all; on any miss the whole batch runs
// and the results are stored for next time.
type CachedEngine struct {
	Inner engine.Engine
	Store *Store
}

var _ engine.Engine = (*CachedEngine)(nil)

func (c *CachedEngine) Simplify(ctx context.Context, batch *engine.Batch) ([]ir.Program, error) {
	programs, hit, err := c.Store.Lookup(ctx, batch)
	if err != nil {
		return nil, err
	}
	if hit {
		return programs, nil
	}
	programs, err = c.Inner.Simplify(ctx, batch)
	if err != nil {
		return nil, err
	}
	if err := c.Store.StoreBatch(ctx, batch, programs); err != nil {
		return nil, err
	}
	return programs, nil
}
