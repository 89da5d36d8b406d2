package concurrency

import (
	"context"
	"sync"
)

// Options bounds a parallel run.
type Options struct {
	MaxWorkers int
}

func DefaultOptions() Options {
	return Options{MaxWorkers: 4}
}

// ForEach runs itemFunc for every item with at most MaxWorkers
// goroutines in flight and returns the collected errors. Items that
// fail do not stop the others; a canceled context stops workers from
// picking up further items.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = DefaultOptions().MaxWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int)
	errCh := make(chan error, len(items))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					errCh <- ctx.Err()
					continue
				}
				if err := itemFunc(ctx, i, items[i]); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
