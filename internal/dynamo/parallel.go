package dynamo

import "golang.org/x/sync/errgroup"

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs
// fn on each. With one worker fn runs on the caller's goroutine. It returns
// after every chunk has finished, with the first error any chunk returned.
func ParallelFor(n, workers int, fn func(start, end int) error) error {
	if workers <= 1 || n < 2 {
		return fn(0, n)
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}
