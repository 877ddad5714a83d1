// Package overpass adapts Overpass API mirrors to the POI search operation
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
	"github.com/upb/travel-gateway/services/providers"
)

const (
	DefaultEndpoint = "https://overpass-api.de/api/interpreter"
	KumiEndpoint    = "https://overpass.kumi.systems/api/interpreter"

	// serverTimeout is the [timeout:] sent to Overpass, in seconds
	serverTimeout = 25
)

// defaultAmenities narrows the amenity tag when no category is requested
const defaultAmenities = "restaurant|cafe|bar|marketplace|place_of_worship|theatre|arts_centre"

var qlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Config configures one Overpass mirror
type Config struct {
	providers.HTTPConfig
	Endpoint string
}

// New creates an Overpass adapter
func New(cfg Config) *providers.HTTPAdapter[models.POIInput, []models.POI] {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	build := func(ctx context.Context, in models.POIInput) (*http.Request, error) {
		form := url.Values{}
		form.Set("data", BuildQuery(in))
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	parse := func(in models.POIInput, body []byte) ([]models.POI, error) {
		return normalize.OverpassPOIs(body, in)
	}

	return providers.NewHTTPAdapter(cfg.HTTPConfig, build, parse)
}

// BuildQuery renders the Overpass QL for a radius search. With a category,
// any of the type tags may match it exactly; without one, the common
// tourism, historic and amenity features are returned. Only named elements
// are requested.
func BuildQuery(in models.POIInput) string {
	around := fmt.Sprintf("(around:%d,%f,%f)", in.Radius, in.Lat, in.Lon)

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", serverTimeout)
	if in.Category != "" {
		cat := qlEscaper.Replace(in.Category)
		for _, key := range normalize.TypeTags {
			fmt.Fprintf(&b, "  nwr%s[\"%s\"=\"%s\"][name];\n", around, key, cat)
		}
	} else {
		fmt.Fprintf(&b, "  nwr%s[tourism][name];\n", around)
		fmt.Fprintf(&b, "  nwr%s[historic][name];\n", around)
		fmt.Fprintf(&b, "  nwr%s[amenity~\"^(%s)$\"][name];\n", around, defaultAmenities)
	}
	fmt.Fprintf(&b, ");\nout center %d;\n", in.Limit)
	return b.String()
}
