package dashboard

import (
	"context"

	"github.com/lachiem1/monthlens/internal/widget"
	"golang.org/x/sync/errgroup"
)

// Load runs reqs with at most the configured number of concurrent fetches,
// then delivers the results in request order and returns them. Failures are
// carried in each result, so one failed fetch does not stop the others.
func (p *Page) Load(ctx context.Context, reqs []widget.Request) []widget.Result {
	results := make([]widget.Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(p.workers, len(reqs)))
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = p.Run(gctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		p.Deliver(res)
	}
	return results
}
