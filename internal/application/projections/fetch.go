package projections

import (
	"context"
	"log/slog"
	"sync"
)

// fetchPair runs two independent list fetches concurrently and waits for both.
// A failed fetch is logged and yields an empty list; ok is false if either failed.
func fetchPair[A, B any](
	ctx context.Context,
	nameA string, fetchA func(context.Context) ([]A, error),
	nameB string, fetchB func(context.Context) ([]B, error),
) (as []A, bs []B, ok bool) {
	var errA, errB error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		as, errA = fetchA(ctx)
	}()
	go func() {
		defer wg.Done()
		bs, errB = fetchB(ctx)
	}()
	wg.Wait()

	ok = true
	if errA != nil {
		slog.Error("fetch_failed", "source", nameA, "error", errA)
		as, ok = nil, false
	}
	if errB != nil {
		slog.Error("fetch_failed", "source", nameB, "error", errB)
		bs, ok = nil, false
	}
	if as == nil {
		as = []A{}
	}
	if bs == nil {
		bs = []B{}
	}
	return as, bs, ok
}
