package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/ski-conditions/internal/weather"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, weather.MaxForecastDays, cfg.ForecastDays)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.Debug)
	assert.Equal(t, DefaultResorts(), cfg.Resorts)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_INTERVAL", "30m")
	t.Setenv("FORECAST_DAYS", "3")
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 3, cfg.ForecastDays)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FORECAST_DAYS=5\n"), 0o644))
	t.Setenv("FORECAST_DAYS", "")
	os.Unsetenv("FORECAST_DAYS")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ForecastDays)
}

func TestLoad_ResortsFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "resorts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`resorts:
  - name: Zermatt
    country: CH
    latitude: 46.0207
    longitude: 7.7491
    altitude: 1608
  - name: Whistler
    country: CA
    latitude: 50.1163
    longitude: -122.9574
    altitude: 675
`), 0o644))
	t.Setenv("RESORTS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []weather.Location{
		{Name: "Zermatt", Country: "CH", Latitude: 46.0207, Longitude: 7.7491, AltitudeM: 1608},
		{Name: "Whistler", Country: "CA", Latitude: 50.1163, Longitude: -122.9574, AltitudeM: 675},
	}, cfg.Resorts)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"interval too short", map[string]string{"FETCH_INTERVAL": "10s"}},
		{"too many forecast days", map[string]string{"FORECAST_DAYS": "8"}},
		{"non numeric port", map[string]string{"PORT": "http"}},
		{"missing resorts file", map[string]string{"RESORTS_FILE": "/nonexistent/resorts.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_Resorts(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Port:          "8080",
			FetchInterval: 15 * time.Minute,
			HTTPTimeout:   time.Second,
			CycleTimeout:  time.Second,
			ForecastDays:  7,
			Resorts:       DefaultResorts(),
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Resorts = nil
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Resorts = append(cfg.Resorts, cfg.Resorts[0])
	assert.Error(t, cfg.Validate(), "duplicate names")

	cfg = valid()
	cfg.Resorts = append(cfg.Resorts, weather.Location{Name: "St Anton", Country: "AT", Latitude: 47.13, Longitude: 10.27})
	err := cfg.Validate()
	require.Error(t, err, "names colliding on key")
	assert.Contains(t, err.Error(), "st-anton")

	cfg = valid()
	cfg.Resorts[0].Name = "?!"
	assert.Error(t, cfg.Validate(), "empty key")

	cfg = valid()
	cfg.Resorts[0].Latitude = 91
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Resorts[1].Country = ""
	assert.Error(t, cfg.Validate())
}
