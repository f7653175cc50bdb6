package weather

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/i474232898/ski-conditions/internal/log"
)

// ErrNoCycle is returned before the first refresh cycle has completed.
var ErrNoCycle = errors.New("no refresh cycle completed yet")

// Service owns the configured locations and the most recent FleetResult.
type Service struct {
	provider     Provider
	locations    []Location
	forecastDays int
	now          func() time.Time

	latest atomic.Pointer[FleetResult]
}

// NewService creates a new Service.
func NewService(provider Provider, locations []Location, forecastDays int) *Service {
	return &Service{
		provider:     provider,
		locations:    locations,
		forecastDays: forecastDays,
		now:          time.Now,
	}
}

// WithClock overrides the reference clock used to resolve current samples.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Refresh runs one cycle across all locations and publishes the result as a
// whole, replacing the previous one.
func (s *Service) Refresh(ctx context.Context) FleetResult {
	log.Debugf("Refresh called for %d locations with provider %s", len(s.locations), s.provider.Name())

	result := Aggregate(ctx, s.locations, s.provider, s.now(), s.forecastDays)
	for _, e := range result.Entries {
		if e.Failure != nil {
			log.Warnw("location refresh failed", "location", e.Location.Key(), "cause", e.Failure.Cause)
		}
	}

	s.latest.Store(&result)
	return result
}

// Latest returns the last published FleetResult.
func (s *Service) Latest() (FleetResult, error) {
	r := s.latest.Load()
	if r == nil {
		return FleetResult{}, ErrNoCycle
	}
	return *r, nil
}

// Locations returns the configured locations in order.
func (s *Service) Locations() []Location {
	return s.locations
}

// Location finds a configured location by key.
func (s *Service) Location(key string) (Location, bool) {
	for _, l := range s.locations {
		if l.Key() == key {
			return l, true
		}
	}
	return Location{}, false
}
