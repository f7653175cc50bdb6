package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/ski-conditions/internal/log"
	"github.com/i474232898/ski-conditions/internal/weather"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// FetchInterval controls how often all resorts are refreshed.
	FetchInterval time.Duration `validate:"gte=1m"`
	HTTPTimeout   time.Duration `validate:"gt=0"`
	CycleTimeout  time.Duration `validate:"gt=0"`

	// ForecastDays is the number of daily summaries per resort.
	ForecastDays int `validate:"gte=0,lte=7"`

	OpenMeteoBaseURL string `validate:"omitempty,url"`

	Debug          bool
	MetricsEnabled bool
	CacheSizeMB    int           `validate:"gte=0"`
	SelectionTTL   time.Duration `validate:"gte=0"`

	// Resorts to track, in display order.
	Resorts []weather.Location `validate:"required,min=1,unique=Name,dive"`
}

var validate = validator.New()

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults. The resort list comes from RESORTS_FILE when set.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Infof("config: no .env file found or error loading it: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &AppConfig{
		Port:             v.GetString("PORT"),
		FetchInterval:    v.GetDuration("FETCH_INTERVAL"),
		HTTPTimeout:      v.GetDuration("HTTP_TIMEOUT"),
		CycleTimeout:     v.GetDuration("CYCLE_TIMEOUT"),
		ForecastDays:     v.GetInt("FORECAST_DAYS"),
		OpenMeteoBaseURL: v.GetString("OPENMETEO_BASE_URL"),
		Debug:            v.GetBool("LOG_DEBUG"),
		MetricsEnabled:   v.GetBool("METRICS_ENABLED"),
		CacheSizeMB:      v.GetInt("CACHE_SIZE_MB"),
		SelectionTTL:     v.GetDuration("SELECTION_TTL"),
		Resorts:          DefaultResorts(),
	}

	if path := v.GetString("RESORTS_FILE"); path != "" {
		resorts, err := loadResorts(path)
		if err != nil {
			return nil, err
		}
		cfg.Resorts = resorts
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. Resort names must also map to distinct,
// non-empty keys since every lookup goes through Location.Key.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]string, len(c.Resorts))
	for _, r := range c.Resorts {
		key := r.Key()
		if key == "" {
			return fmt.Errorf("invalid config: resort %q has no usable key", r.Name)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("invalid config: resorts %q and %q share key %q", other, r.Name, key)
		}
		seen[key] = r.Name
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("FETCH_INTERVAL", "15m")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("CYCLE_TIMEOUT", "30s")
	v.SetDefault("FORECAST_DAYS", weather.MaxForecastDays)
	v.SetDefault("LOG_DEBUG", false)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("CACHE_SIZE_MB", 8)
	v.SetDefault("SELECTION_TTL", "24h")
}

// loadResorts reads a YAML (or any viper supported format) file of the form
//
//	resorts:
//	  - name: Zermatt
//	    country: CH
//	    latitude: 46.0207
//	    longitude: 7.7491
//	    altitude: 1608
func loadResorts(path string) ([]weather.Location, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read resorts file %s: %w", path, err)
	}

	var file struct {
		Resorts []weather.Location `mapstructure:"resorts"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode resorts file %s: %w", path, err)
	}
	return file.Resorts, nil
}

// DefaultResorts is the built-in set of Alpine resorts.
func DefaultResorts() []weather.Location {
	return []weather.Location{
		{Name: "Chamonix", Country: "FR", Latitude: 45.9237, Longitude: 6.8694, AltitudeM: 1035},
		{Name: "Val d'Isère", Country: "FR", Latitude: 45.4481, Longitude: 6.9806, AltitudeM: 1850},
		{Name: "Zermatt", Country: "CH", Latitude: 46.0207, Longitude: 7.7491, AltitudeM: 1608},
		{Name: "Verbier", Country: "CH", Latitude: 46.0961, Longitude: 7.2286, AltitudeM: 1500},
		{Name: "St. Anton", Country: "AT", Latitude: 47.1296, Longitude: 10.2681, AltitudeM: 1304},
		{Name: "Kitzbühel", Country: "AT", Latitude: 47.4467, Longitude: 12.3917, AltitudeM: 762},
		{Name: "Cortina d'Ampezzo", Country: "IT", Latitude: 46.5405, Longitude: 12.1357, AltitudeM: 1224},
		{Name: "Garmisch-Partenkirchen", Country: "DE", Latitude: 47.4921, Longitude: 11.0958, AltitudeM: 708},
	}
}
