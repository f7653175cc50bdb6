package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/ski-conditions/internal/common"
)

// MaxForecastDays bounds the number of DaySummary records per location.
const MaxForecastDays = 7

// noWeatherCode classifies as "none of the special code sets".
const noWeatherCode = -1

// BuildSummary derives a LocationSummary from a payload. days controls how many
// daily forecast entries are summarized (0 disables, capped at MaxForecastDays).
//
// Forecast days are rated with the current snow depth because the payload has
// no per-day snow depth forecast.
func BuildSummary(loc Location, payload ForecastPayload, now time.Time, days int) (LocationSummary, error) {
	if payload.Current == nil {
		return LocationSummary{}, fmt.Errorf("%w for %s", ErrMissingCurrentConditions, loc.Key())
	}
	cur := payload.Current

	depth := CurrentSnowDepthCm(payload.Hourly.SnowDepth(), now)
	snowpack := 0.0
	if depth != nil {
		snowpack = float64(*depth)
	}

	wind := common.RoundInt(cur.WindKmh)
	summary := LocationSummary{
		Location:     loc,
		WeatherCode:  cur.WeatherCode,
		Weather:      Describe(cur.WeatherCode),
		TemperatureC: common.RoundInt(cur.TemperatureC),
		WindKmh:      wind,
		SnowDepthCm:  depth,
		Tier:         Classify(cur.WeatherCode, float64(wind), snowpack),
	}

	daily := payload.Daily
	if daily == nil || len(daily.Dates) == 0 {
		return summary, nil
	}

	summary.Today = tempRangeAt(daily, 0)
	summary.TodaySnowfallCm = valueOr(daily.SnowfallSumCm, 0, 0)

	n := min(days, len(daily.Dates), MaxForecastDays)
	for i := 0; i < n; i++ {
		summary.Days = append(summary.Days, buildDay(daily, i, snowpack))
	}
	return summary, nil
}

func buildDay(daily *DailyBlock, i int, snowpack float64) DaySummary {
	day := DaySummary{
		Date:       daily.Dates[i],
		Temp:       tempRangeAt(daily, i),
		SnowfallCm: valueOr(daily.SnowfallSumCm, i, 0),
	}

	code := noWeatherCode
	if c := at(daily.WeatherCode, i); c != nil {
		code = *c
	}
	wind := 0
	if w := at(daily.WindMaxKmh, i); w != nil {
		wind = common.RoundInt(*w)
		day.WindMaxKmh = &wind
	}
	day.Tier = Classify(code, float64(wind), snowpack)
	return day
}

func tempRangeAt(daily *DailyBlock, i int) *TempRange {
	lo, hi := at(daily.TempMinC, i), at(daily.TempMaxC, i)
	if lo == nil || hi == nil {
		return nil
	}
	return &TempRange{MinC: common.RoundInt(*lo), MaxC: common.RoundInt(*hi)}
}

func at[T any](values []*T, i int) *T {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func valueOr(values []*float64, i int, def float64) float64 {
	if v := at(values, i); v != nil {
		return *v
	}
	return def
}
