package weather

import "context"

// Provider abstracts a forecast data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (ForecastPayload, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, loc Location) (ForecastPayload, error)

func (f ProviderFunc) Name() string {
	return "func"
}

func (f ProviderFunc) Fetch(ctx context.Context, loc Location) (ForecastPayload, error) {
	return f(ctx, loc)
}
