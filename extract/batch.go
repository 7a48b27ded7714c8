package extract

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/doraemoncito/tap2bin/types"
)

// Result is the outcome of one file in a batch.
type Result struct {
	Path    string
	Summary *types.Summary
	Err     error
}

// DecodeAll decodes paths concurrently, at most jobs at a time (jobs <= 0
// means GOMAXPROCS). optsFor supplies the options of the i-th file; every
// file is an independent decode with its own counters and observer.
//
// Results are returned in input order. The first failure cancels files that
// have not started yet and is returned; their results carry the
// cancellation error.
func DecodeAll(ctx context.Context, paths []string, jobs int, optsFor func(i int, path string) FileOptions) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		results[i].Path = path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			summary, err := DecodeFile(gctx, path, optsFor(i, path))
			results[i].Summary = summary
			results[i].Err = err
			if err != nil && !isCanceled(err) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
