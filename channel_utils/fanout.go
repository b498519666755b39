package channel_utils

import (
	"fmt"
	"sync"

	"github.com/mzkki25/ai-video-automation/application/ports/outbound"
)

// FanOut launches n independent units of work concurrently on the worker
// pool and waits for all of them to settle. The returned slice keeps input
// order regardless of completion order. If any slot fails, the lowest
// failing slot's error is returned wrapped with its 1-based slot number;
// there is no partial-success result.
func FanOut[T any](workerPool outbound.TaskDispatcher, n int, work func(slot int) (T, error)) ([]T, error) {
	results := make([]T, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		slot := i
		err := workerPool.Submit(func() {
			defer wg.Done()
			results[slot], errs[slot] = work(slot)
		})
		if err != nil {
			errs[slot] = err
			wg.Done()
		}
	}
	wg.Wait()

	for slot, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot+1, err)
		}
	}

	return results, nil
}
