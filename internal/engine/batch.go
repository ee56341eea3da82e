package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

// AnalyzeBatch analyses texts in parallel, bounded by Config.BatchWorkers.
// Results are in input order. The first error cancels the remaining work.
func (e *Engine) AnalyzeBatch(ctx context.Context, texts []string, tone suggest.Tone, identities coref.IdentityMap) ([]*Result, error) {
	results := make([]*Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.BatchWorkers)

	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.Analyze(gctx, text, tone, identities)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
