package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Aggregate fetches and summarizes every location concurrently. A failing
// location is recorded as a Failure and never affects the others. Entries
// follow the order of locations regardless of completion order.
func Aggregate(ctx context.Context, locations []Location, provider Provider, now time.Time, days int) FleetResult {
	entries := make([]FleetEntry, len(locations))

	var wg sync.WaitGroup
	for i, loc := range locations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries[i] = summarize(ctx, loc, provider, now, days)
		}()
	}
	wg.Wait()

	return FleetResult{
		CycleID:     uuid.NewString(),
		CompletedAt: time.Now().UTC(),
		Entries:     entries,
	}
}

func summarize(ctx context.Context, loc Location, provider Provider, now time.Time, days int) FleetEntry {
	payload, err := provider.Fetch(ctx, loc)
	if err != nil {
		if !errors.Is(err, ErrFetchFailure) {
			err = fmt.Errorf("%w: %w", ErrFetchFailure, err)
		}
		return failed(loc, err)
	}

	summary, err := BuildSummary(loc, payload, now, days)
	if err != nil {
		return failed(loc, err)
	}
	return FleetEntry{Location: loc, Summary: &summary}
}

func failed(loc Location, err error) FleetEntry {
	return FleetEntry{
		Location: loc,
		Failure: &Failure{
			Location: loc,
			Cause:    err.Error(),
			Err:      err,
		},
	}
}
