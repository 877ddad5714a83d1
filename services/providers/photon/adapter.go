// Package photon adapts the komoot Photon geocoder to the geocode operation
package photon

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
	"github.com/upb/travel-gateway/services/providers"
)

const DefaultEndpoint = "https://photon.komoot.io/api/"

// Config configures the adapter
type Config struct {
	providers.HTTPConfig
	Endpoint string
}

// New creates a Photon adapter
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
		q.Set("limit", strconv.Itoa(in.Limit))
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	parse := func(in models.GeocodeInput, body []byte) ([]models.Place, error) {
		return normalize.PhotonPlaces(body, in.Limit)
	}

	return providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
}
