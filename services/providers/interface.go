package providers

import (
	"context"
	"time"

	"github.com/upb/travel-gateway/models"
)

// Adapter is one upstream endpoint able to serve a single operation
type Adapter[In, Out any] interface {
	// Name returns the provider name (e.g., "nominatim", "overpass-kumi")
	Name() string

	// Attempt performs exactly one bounded call. A non-nil error is always a *ProviderError.
	Attempt(ctx context.Context, in In) (Out, error)
}

// Preflighter is implemented by adapters that need configuration checked
// before any network traffic, such as a required API key.
type Preflighter interface {
	Preflight() error
}

// Kind identifies the wire protocol family of a provider. Several named
// providers may share a kind (two LibreTranslate instances, two Overpass mirrors).
type Kind string

const (
	KindLibreTranslate Kind = "libretranslate"
	KindGoogleGTX      Kind = "google-gtx"
	KindNominatim      Kind = "nominatim"
	KindPhoton         Kind = "photon"
	KindOverpass       Kind = "overpass"
	KindOpenWeatherMap Kind = "openweathermap"
)

// Operation returns the operation a kind serves
func (k Kind) Operation() (models.Operation, bool) {
	switch k {
	case KindLibreTranslate, KindGoogleGTX:
		return models.OperationTranslate, true
	case KindNominatim, KindPhoton:
		return models.OperationGeocode, true
	case KindOverpass:
		return models.OperationPOI, true
	case KindOpenWeatherMap:
		return models.OperationWeather, true
	default:
		return "", false
	}
}

// Descriptor is the read-only description of a configured provider
type Descriptor struct {
	Name         string           `json:"name"`
	Kind         Kind             `json:"kind"`
	Operation    models.Operation `json:"operation"`
	BaseURL      string           `json:"base_url"`
	Timeout      time.Duration    `json:"timeout"`
	RateLimitRPS float64          `json:"rate_limit_rps,omitempty"`
}
