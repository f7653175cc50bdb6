package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/i474232898/ski-conditions/internal/log"
	"github.com/i474232898/ski-conditions/internal/weather"
)

const (
	openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

	hourLayout = "2006-01-02T15:04"
	dayLayout  = "2006-01-02"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name         string
	baseURL      string
	forecastDays int
	client       *http.Client
	circuits     *breakers
}

// NewOpenMeteoProvider creates a provider. An empty baseURL selects the public API.
func NewOpenMeteoProvider(client *http.Client, baseURL string, forecastDays int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	if forecastDays <= 0 || forecastDays > weather.MaxForecastDays {
		forecastDays = weather.MaxForecastDays
	}

	return &OpenMeteoProvider{
		name:         "openmeteo",
		baseURL:      baseURL,
		forecastDays: forecastDays,
		client:       client,
		circuits:     newBreakers("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.ForecastPayload, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	if loc.AltitudeM > 0 {
		values.Set("elevation", strconv.FormatFloat(loc.AltitudeM, 'f', 0, 64))
	}
	values.Set("current", "weather_code,temperature_2m,wind_speed_10m")
	values.Set("hourly", "snow_depth,snowfall,temperature_2m,wind_speed_10m,weather_code")
	values.Set("daily", "weather_code,temperature_2m_min,temperature_2m_max,snowfall_sum,wind_speed_10m_max")
	values.Set("wind_speed_unit", "kmh")
	values.Set("timezone", "auto")
	values.Set("forecast_days", strconv.Itoa(p.forecastDays))

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()), nil)
	if err != nil {
		return weather.ForecastPayload{}, fmt.Errorf("%w: %w", weather.ErrFetchFailure, err)
	}

	resp, err := doRequest(ctx, p.client, p.circuits.get(loc.Key()), req)
	if err != nil {
		return weather.ForecastPayload{}, err
	}
	defer resp.Body.Close()

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.ForecastPayload{}, fmt.Errorf("%w: decode response: %w", weather.ErrFetchFailure, err)
	}

	payload, err := body.toPayload()
	if err != nil {
		return weather.ForecastPayload{}, fmt.Errorf("%w: %w", weather.ErrFetchFailure, err)
	}

	log.Debugf("openmeteo: fetched forecast for %s", loc.Key())
	return payload, nil
}

type openMeteoResponse struct {
	UTCOffsetSeconds int `json:"utc_offset_seconds"`

	Current *struct {
		WeatherCode  *int     `json:"weather_code"`
		Temperature  *float64 `json:"temperature_2m"`
		WindSpeedKmh *float64 `json:"wind_speed_10m"`
	} `json:"current"`

	Hourly *struct {
		Time         []string   `json:"time"`
		SnowDepth    []*float64 `json:"snow_depth"`
		Snowfall     []*float64 `json:"snowfall"`
		Temperature  []*float64 `json:"temperature_2m"`
		WindSpeedKmh []*float64 `json:"wind_speed_10m"`
		WeatherCode  []*int     `json:"weather_code"`
	} `json:"hourly"`

	Daily *struct {
		Time           []string   `json:"time"`
		WeatherCode    []*int     `json:"weather_code"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		SnowfallSum    []*float64 `json:"snowfall_sum"`
		WindSpeedMax   []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// toPayload converts the wire format. Timestamps are local to the resort and
// are anchored with the reported UTC offset.
func (r openMeteoResponse) toPayload() (weather.ForecastPayload, error) {
	zone := time.FixedZone("", r.UTCOffsetSeconds)
	var payload weather.ForecastPayload

	if c := r.Current; c != nil && c.WeatherCode != nil {
		payload.Current = &weather.CurrentConditions{
			WeatherCode:  *c.WeatherCode,
			TemperatureC: deref(c.Temperature),
			WindKmh:      deref(c.WindSpeedKmh),
		}
	}

	if h := r.Hourly; h != nil {
		times, err := parseTimes(h.Time, hourLayout, zone)
		if err != nil {
			return payload, fmt.Errorf("hourly time: %w", err)
		}
		payload.Hourly = &weather.HourlyBlock{
			Times:        times,
			SnowDepthM:   h.SnowDepth,
			SnowfallCm:   h.Snowfall,
			TemperatureC: h.Temperature,
			WindKmh:      h.WindSpeedKmh,
			WeatherCode:  h.WeatherCode,
		}
	}

	if d := r.Daily; d != nil {
		dates, err := parseTimes(d.Time, dayLayout, zone)
		if err != nil {
			return payload, fmt.Errorf("daily time: %w", err)
		}
		payload.Daily = &weather.DailyBlock{
			Dates:         dates,
			WeatherCode:   d.WeatherCode,
			TempMinC:      d.TemperatureMin,
			TempMaxC:      d.TemperatureMax,
			SnowfallSumCm: d.SnowfallSum,
			WindMaxKmh:    d.WindSpeedMax,
		}
	}

	return payload, nil
}

func parseTimes(raw []string, layout string, zone *time.Location) ([]time.Time, error) {
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		ts, err := time.ParseInLocation(layout, s, zone)
		if err != nil {
			return nil, err
		}
		out[i] = ts
	}
	return out, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
