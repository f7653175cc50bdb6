package weather

import (
	"strings"
	"time"
	"unicode"
)

// Location represents a ski resort we track forecasts for.
// Locations are defined at startup and never change while the process runs.
type Location struct {
	Name      string  `json:"name" mapstructure:"name" validate:"required"`
	Country   string  `json:"country" mapstructure:"country" validate:"required"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" mapstructure:"longitude" validate:"gte=-180,lte=180"`
	AltitudeM float64 `json:"altitudeM" mapstructure:"altitude" validate:"gte=0"`
}

// Key returns the canonical identifier used in URLs, selections and lookups:
// the lower-cased name with spaces turned into dashes and punctuation dropped.
func (l Location) Key() string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '-':
			return '-'
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, strings.TrimSpace(l.Name))
}

// Sample is a single timestamped value. Value is nil when the source had no reading.
type Sample[T any] struct {
	At    time.Time
	Value *T
}

// TimeSeries is ordered by strictly increasing timestamps.
type TimeSeries[T any] []Sample[T]

// CurrentConditions is the instantaneous reading of a forecast payload.
type CurrentConditions struct {
	WeatherCode  int
	TemperatureC float64
	WindKmh      float64
}

// HourlyBlock holds index-aligned hourly arrays. Any array may be missing.
type HourlyBlock struct {
	Times        []time.Time
	SnowDepthM   []*float64
	SnowfallCm   []*float64
	TemperatureC []*float64
	WindKmh      []*float64
	WeatherCode  []*int
}

// SnowDepth zips the hourly timestamps with the snow depth readings.
func (h *HourlyBlock) SnowDepth() TimeSeries[float64] {
	if h == nil {
		return nil
	}
	return zip(h.Times, h.SnowDepthM)
}

// DailyBlock holds index-aligned daily arrays, first entry is today.
type DailyBlock struct {
	Dates         []time.Time
	WeatherCode   []*int
	TempMinC      []*float64
	TempMaxC      []*float64
	SnowfallSumCm []*float64
	WindMaxKmh    []*float64
}

// ForecastPayload is one fetch worth of forecast data for a location.
type ForecastPayload struct {
	Current *CurrentConditions
	Hourly  *HourlyBlock
	Daily   *DailyBlock
}

// TempRange is a min/max pair in whole degrees Celsius.
type TempRange struct {
	MinC int `json:"minC"`
	MaxC int `json:"maxC"`
}

// DaySummary is the per-day part of a multi-day forecast.
type DaySummary struct {
	Date       time.Time     `json:"date"`
	Tier       ConditionTier `json:"tier"`
	Temp       *TempRange    `json:"temp,omitempty"`
	SnowfallCm float64       `json:"snowfallCm"`
	WindMaxKmh *int          `json:"windMaxKmh,omitempty"`
}

// LocationSummary is the normalized, immutable view of one location for one cycle.
type LocationSummary struct {
	Location        Location      `json:"location"`
	WeatherCode     int           `json:"weatherCode"`
	Weather         string        `json:"weather"`
	TemperatureC    int           `json:"temperatureC"`
	WindKmh         int           `json:"windKmh"`
	SnowDepthCm     *int          `json:"snowDepthCm"`
	Today           *TempRange    `json:"today"`
	TodaySnowfallCm float64       `json:"todaySnowfallCm"`
	Tier            ConditionTier `json:"tier"`
	Days            []DaySummary  `json:"days,omitempty"`
}

// Failure marks a location whose fetch or build failed in a cycle.
type Failure struct {
	Location Location `json:"location"`
	Cause    string   `json:"cause"`
	Err      error    `json:"-"`
}

// FleetEntry holds either a Summary or a Failure, never both.
type FleetEntry struct {
	Location Location         `json:"location"`
	Summary  *LocationSummary `json:"summary,omitempty"`
	Failure  *Failure         `json:"failure,omitempty"`
}

// OK reports whether the entry carries a summary.
func (e FleetEntry) OK() bool {
	return e.Summary != nil
}

// FleetResult is the outcome of one refresh cycle, in configured location order.
type FleetResult struct {
	CycleID     string       `json:"cycleId"`
	CompletedAt time.Time    `json:"completedAt"`
	Entries     []FleetEntry `json:"entries"`
}

// Failures returns the number of failed entries.
func (r FleetResult) Failures() int {
	n := 0
	for _, e := range r.Entries {
		if !e.OK() {
			n++
		}
	}
	return n
}

// Lookup finds the entry for a location key.
func (r FleetResult) Lookup(key string) (FleetEntry, bool) {
	for _, e := range r.Entries {
		if e.Location.Key() == key {
			return e, true
		}
	}
	return FleetEntry{}, false
}

func zip[T any](times []time.Time, values []*T) TimeSeries[T] {
	n := min(len(times), len(values))
	if n == 0 {
		return nil
	}
	series := make(TimeSeries[T], n)
	for i := 0; i < n; i++ {
		series[i] = Sample[T]{At: times[i], Value: values[i]}
	}
	return series
}
