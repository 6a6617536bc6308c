package grid

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ParallelRows calls fn over contiguous row ranges covering [0, n). With
// workers <= 1 the whole range runs on the calling goroutine. A panic in fn
// is turned into an error so one bad range cannot take the process down.
func ParallelRows(n, workers int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	workers = min(workers, n)
	if workers <= 1 {
		fn(0, n)
		return nil
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("rows %d-%d: %v", start, end, r)
				}
			}()
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}
