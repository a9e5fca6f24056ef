package docpdf

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent conversions; each one may run a TeX engine
	// or a browser tab.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for the child processes.
	cpuDivisor = 2
)

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// runPool calls work for every index in [0, n) on up to size goroutines.
// Once ctx is done, remaining indices go to cancelled instead.
func runPool(ctx context.Context, size, n int, work func(ctx context.Context, idx int), cancelled func(idx int, err error)) {
	if n == 0 {
		return
	}
	if size > n {
		size = n
	}
	if size < MinPoolSize {
		size = MinPoolSize
	}

	var wg sync.WaitGroup
	jobs := make(chan int, n)

	for w := 0; w < size; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					cancelled(idx, err)
					continue
				}
				work(ctx, idx)
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
}
