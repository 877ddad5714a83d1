// Package openweather adapts the OpenWeatherMap current weather API to the
// weather operation. An API key is mandatory.
package openweather

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
	"github.com/upb/travel-gateway/services/providers"
)

const (
	DefaultEndpoint = "https://api.openweathermap.org/data/2.5/weather"

	// APIKeySetting names the environment variable holding the key
	APIKeySetting = "OPENWEATHER_API_KEY"
)

// Config configures the adapter
type Config struct {
	providers.HTTPConfig
	Endpoint string
	APIKey   string
	Units    string // metric by default
}

// New creates an OpenWeatherMap adapter. A missing key is reported by
// Preflight, not here, so the rest of the service still starts.
func New(cfg Config) *providers.HTTPAdapter[models.WeatherInput, models.Weather] {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}
	cfg.Secret = cfg.APIKey

	build := func(ctx context.Context, in models.WeatherInput) (*http.Request, error) {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("lat", strconv.FormatFloat(in.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(in.Lon, 'f', -1, 64))
		q.Set("appid", cfg.APIKey)
		q.Set("units", cfg.Units)
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	parse := func(_ models.WeatherInput, body []byte) (models.Weather, error) {
		return normalize.WeatherReport(body)
	}

	adapter := providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
	return adapter.WithPreflight(func() error {
		if cfg.APIKey == "" {
			return &providers.ConfigurationError{Provider: cfg.Name, Setting: APIKeySetting}
		}
		return nil
	})
}
