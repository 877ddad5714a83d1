// Package libretranslate adapts LibreTranslate-compatible instances
// (libretranslate.com, argosopentech mirrors, self-hosted) to the translate operation.
package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
	"github.com/upb/travel-gateway/services/providers"
)

const (
	// DefaultEndpoint is the public LibreTranslate instance
	DefaultEndpoint = "https://libretranslate.com/translate"

	// ArgosEndpoint is the argosopentech community mirror
	ArgosEndpoint = "https://translate.argosopentech.com/translate"
)

// Config configures one LibreTranslate instance
type Config struct {
	providers.HTTPConfig
	Endpoint string
	APIKey   string // optional on most instances
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// New creates a LibreTranslate adapter
func New(cfg Config) *providers.HTTPAdapter[models.TranslateInput, models.Translation] {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	cfg.Secret = cfg.APIKey

	build := func(ctx context.Context, in models.TranslateInput) (*http.Request, error) {
		body, err := json.Marshal(translateRequest{
			Q:      in.Text,
			Source: in.Source,
			Target: in.Target,
			Format: "text",
			APIKey: cfg.APIKey,
		})
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	parse := func(in models.TranslateInput, body []byte) (models.Translation, error) {
		text, err := normalize.TranslatedText(body)
		if err != nil {
			return models.Translation{}, err
		}
		return models.Translation{TranslatedText: text, Source: in.Source, Target: in.Target}, nil
	}

	return providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
}
