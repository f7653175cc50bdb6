package weather

import (
	"time"

	"github.com/i474232898/ski-conditions/internal/common"
)

// NearestIndex returns the index of the sample closest in time to ref.
// On equal distances the earliest sample wins.
func NearestIndex[T any](series TimeSeries[T], ref time.Time) (int, error) {
	if len(series) == 0 {
		return 0, ErrEmptySeries
	}

	best := 0
	bestDiff := absDuration(series[0].At.Sub(ref))
	for i := 1; i < len(series); i++ {
		d := absDuration(series[i].At.Sub(ref))
		if d < bestDiff {
			best = i
			bestDiff = d
		}
	}
	return best, nil
}

// Nearest returns the value of the sample closest to ref. The value is nil
// when that sample had no reading.
func Nearest[T any](series TimeSeries[T], ref time.Time) (*T, error) {
	i, err := NearestIndex(series, ref)
	if err != nil {
		return nil, err
	}
	return series[i].Value, nil
}

// CurrentSnowDepthCm resolves the snow depth closest to now, converted from
// metres to whole centimetres. It returns nil when there is nothing to resolve.
func CurrentSnowDepthCm(series TimeSeries[float64], now time.Time) *int {
	v, err := Nearest(series, now)
	if err != nil || v == nil {
		return nil
	}
	cm := common.RoundInt(*v * 100)
	return &cm
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

