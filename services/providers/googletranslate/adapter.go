// Package googletranslate adapts the public translate.googleapis.com
// "gtx" endpoint to the translate operation.
package googletranslate

import (
	"context"
	"net/http"
	"net/url"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
	"github.com/upb/travel-gateway/services/providers"
)

// DefaultEndpoint is the public single-translation endpoint
const DefaultEndpoint = "https://translate.googleapis.com/translate_a/single"

// Config configures the adapter
type Config struct {
	providers.HTTPConfig
	Endpoint string
}

// New creates a Google gtx adapter
func New(cfg Config) *providers.HTTPAdapter[models.TranslateInput, models.Translation] {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	build := func(ctx context.Context, in models.TranslateInput) (*http.Request, error) {
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		q.Set("client", "gtx")
		q.Set("sl", in.Source)
		q.Set("tl", in.Target)
		q.Set("dt", "t")
		q.Set("q", in.Text)
		u.RawQuery = q.Encode()
		return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}

	parse := func(in models.TranslateInput, body []byte) (models.Translation, error) {
		text, err := normalize.SegmentedTranslation(body)
		if err != nil {
			return models.Translation{}, err
		}
		return models.Translation{TranslatedText: text, Source: in.Source, Target: in.Target}, nil
	}

	return providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
}
