package weather

import "errors"

var (
	// ErrEmptySeries is returned when a time series has no samples to resolve.
	ErrEmptySeries = errors.New("empty time series")

	// ErrMissingCurrentConditions is returned when a payload lacks the instantaneous block.
	ErrMissingCurrentConditions = errors.New("missing current conditions")

	// ErrFetchFailure wraps transport and status failures of a provider.
	ErrFetchFailure = errors.New("fetch failed")
)
