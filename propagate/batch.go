// SPDX-License-Identifier: MIT

package propagate

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/waveprop/field"
)

// PropagateBatch propagates independent fields (for example one per
// wavelength) by the same distance on at most WithWorkers goroutines.
// out[i] corresponds to fields[i]. The first failure cancels the remaining
// work and is returned with the index of the failing field; ctx
// cancellation returns ctx.Err().
func (p *Propagator) PropagateBatch(ctx context.Context, fields []*field.Field, z float64, call ...CallOption) ([]*field.Field, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	start := time.Now()
	out := make([]*field.Field, len(fields))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.workers)
	for i, f := range fields {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Propagate(f, z, call...)
			if err != nil {
				return fmt.Errorf("field %d: %w", i, err)
			}
			out[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.log.Warn("batch aborted", "fields", len(fields), "error", err)
		return nil, propErrorf(ctxBatch, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, propErrorf(ctxBatch, err)
	}

	p.log.Debug("batch complete",
		"fields", len(fields),
		"workers", p.opts.workers,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return out, nil
}
