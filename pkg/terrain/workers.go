package terrain

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker splits the rows finer than the worker count so uneven
// rows (dense zone overlap) balance out.
const bandsPerWorker = 4

// forEachRow runs fn for every row in [0, rows) on a bounded pool. Each row is
// handled by exactly one goroutine; fn must only write its own row. The
// call returns after every started band has finished.
func forEachRow(ctx context.Context, rows, workers int, progress ProgressFunc, fn func(y int)) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	band := max(1, (rows+workers*bandsPerWorker-1)/(workers*bandsPerWorker))

	var mu sync.Mutex
	done := 0

	for start := 0; start < rows; start += band {
		if gctx.Err() != nil {
			break
		}
		end := min(start+band, rows)
		g.Go(func() error {
			for y := start; y < end; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(y)
			}
			if progress != nil {
				mu.Lock()
				done += end - start
				progress(done, rows)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
