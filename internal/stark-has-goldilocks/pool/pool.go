// Package pool provides the process-wide parallel-dispatch pool used by
// row-parallel field operations (folding, DEEP quotients, the DEEP-ALI
// merge's per-point kernels); the NTT does not use it. It mirrors
// a work-stealing thread pool in spirit: goroutines pull fixed chunks of an
// index range and run them to completion, with no cross-chunk
// synchronization beyond the final join.
package pool

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelThreshold is the minimum element count below which parallel
// dispatch is skipped in favor of a sequential loop; below this the
// goroutine overhead dominates.
const ParallelThreshold = 4096

var (
	once     sync.Once
	poolSize int
	mu       sync.Mutex
)

// SetSize overrides the pool's worker count. It has effect only if called
// before the first parallel operation; later calls are no-ops, matching the
// "lazily initialized singleton" resource policy.
func SetSize(n int) {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		poolSize = n
	})
}

func size() int {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		if poolSize == 0 {
			poolSize = runtime.GOMAXPROCS(0)
		}
	})
	return poolSize
}

// Run splits [0, n) into contiguous chunks, one per worker, and runs fn
// over each chunk concurrently. For n below ParallelThreshold, fn runs
// sequentially over the whole range on the calling goroutine. fn must only
// touch the [start, end) slice of its owned data: there is no
// synchronization between chunks other than the final join performed here.
func Run(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if n < ParallelThreshold {
		fn(0, n)
		return
	}

	workers := size()
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
