package app

import (
	"fmt"
	"net/http"

	"github.com/upb/travel-gateway/config"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/gateway"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/services/providers/googletranslate"
	"github.com/upb/travel-gateway/services/providers/libretranslate"
	"github.com/upb/travel-gateway/services/providers/nominatim"
	"github.com/upb/travel-gateway/services/providers/openweather"
	"github.com/upb/travel-gateway/services/providers/overpass"
	"github.com/upb/travel-gateway/services/providers/photon"
	"github.com/upb/travel-gateway/services/routing"
	"go.uber.org/zap"
)

// builder constructs one adapter of a given kind from its settings
type builder[In, Out any] func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[In, Out]

var translateBuilders = map[providers.Kind]builder[models.TranslateInput, models.Translation]{
	providers.KindLibreTranslate: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.TranslateInput, models.Translation] {
		return libretranslate.New(libretranslate.Config{HTTPConfig: base, Endpoint: p.BaseURL, APIKey: p.APIKey})
	},
	providers.KindGoogleGTX: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.TranslateInput, models.Translation] {
		return googletranslate.New(googletranslate.Config{HTTPConfig: base, Endpoint: p.BaseURL})
	},
}

var geocodeBuilders = map[providers.Kind]builder[models.GeocodeInput, []models.Place]{
	providers.KindNominatim: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.GeocodeInput, []models.Place] {
		return nominatim.New(nominatim.Config{HTTPConfig: base, Endpoint: p.BaseURL})
	},
	providers.KindPhoton: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.GeocodeInput, []models.Place] {
		return photon.New(photon.Config{HTTPConfig: base, Endpoint: p.BaseURL})
	},
}

var poiBuilders = map[providers.Kind]builder[models.POIInput, []models.POI]{
	providers.KindOverpass: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.POIInput, []models.POI] {
		return overpass.New(overpass.Config{HTTPConfig: base, Endpoint: p.BaseURL})
	},
}

var weatherBuilders = map[providers.Kind]builder[models.WeatherInput, models.Weather]{
	providers.KindOpenWeatherMap: func(base providers.HTTPConfig, p config.ProviderConfig) providers.Adapter[models.WeatherInput, models.Weather] {
		return openweather.New(openweather.Config{HTTPConfig: base, Endpoint: p.BaseURL, APIKey: p.APIKey})
	},
}

// chainBuilder carries what every chain needs besides its builders
type chainBuilder struct {
	cfg      *config.Config
	client   *http.Client
	recorder routing.Recorder
	logger   *zap.Logger
}

func (b *chainBuilder) buildAll() (gateway.Chains, error) {
	var (
		chains gateway.Chains
		err    error
	)
	if chains.Translate, err = buildChain(b, models.OperationTranslate, translateBuilders); err != nil {
		return chains, err
	}
	if chains.Geocode, err = buildChain(b, models.OperationGeocode, geocodeBuilders); err != nil {
		return chains, err
	}
	if chains.POI, err = buildChain(b, models.OperationPOI, poiBuilders); err != nil {
		return chains, err
	}
	if chains.Weather, err = buildChain(b, models.OperationWeather, weatherBuilders); err != nil {
		return chains, err
	}
	return chains, nil
}

func buildChain[In, Out any](b *chainBuilder, op models.Operation, builders map[providers.Kind]builder[In, Out]) (*routing.Chain[In, Out], error) {
	names := b.cfg.Chains[op]
	adapters := make([]providers.Adapter[In, Out], 0, len(names))

	for _, name := range names {
		p, ok := b.cfg.Providers[name]
		if !ok {
			return nil, fmt.Errorf("%s chain: %w: %s", op, providers.ErrProviderNotFound, name)
		}
		build, ok := builders[p.Kind]
		if !ok {
			return nil, fmt.Errorf("%s chain: provider %s: %w: %s", op, name, providers.ErrKindNotSupported, p.Kind)
		}
		adapters = append(adapters, build(providers.HTTPConfig{
			Name:         name,
			Timeout:      p.Timeout,
			RateLimitRPS: p.RateLimitRPS,
			UserAgent:    b.cfg.UserAgent,
			Client:       b.client,
		}, p))
	}

	chain, err := routing.NewChain(op, b.logger, adapters...)
	if err != nil {
		return nil, err
	}
	if b.recorder != nil {
		chain.WithRecorder(b.recorder)
	}

	b.logger.Info("provider chain configured",
		zap.String("operation", string(op)),
		zap.Strings("providers", chain.Providers()))
	return chain, nil
}

// newRegistry describes every configured provider for the status endpoint
func newRegistry(cfg *config.Config) (*providers.Registry, error) {
	registry := providers.NewRegistry()
	for _, name := range cfg.ProviderNames() {
		p := cfg.Providers[name]
		if err := registry.RegisterProvider(providers.Descriptor{
			Name:         name,
			Kind:         p.Kind,
			BaseURL:      p.BaseURL,
			Timeout:      p.Timeout,
			RateLimitRPS: p.RateLimitRPS,
		}); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
