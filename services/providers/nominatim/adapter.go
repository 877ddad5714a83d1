// Package nominatim adapts the OpenStreetMap Nominatim search API to the
// geocode operation. The public instance allows one request per second and
// requires an identifying User-Agent.
package nominatim

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
	DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

	// DefaultRateLimitRPS follows the public usage policy
	DefaultRateLimitRPS = 1.0
)

// Config configures the adapter
type Config struct {
	providers.HTTPConfig
	Endpoint string
}

// New creates a Nominatim adapter
func New(cfg Config) *providers.HTTPAdapter[models.GeocodeInput, []models.Place] {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	build := func(ctx context.Context, in models.GeocodeInput) (*http.Request, error) {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("q", in.Query)
		q.Set("format", "json")
		q.Set("limit", strconv.Itoa(in.Limit))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	parse := func(in models.GeocodeInput, body []byte) ([]models.Place, error) {
		return normalize.NominatimPlaces(body, in.Limit)
	}

	return providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
}
