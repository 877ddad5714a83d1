// Package fallback synthesizes degraded answers for operations whose callers
// prefer a rough result to an error. Only POI search has one.
package fallback

import (
	"fmt"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/normalize"
)

// PlaceholderOffset is the distance in degrees between the search centre and each placeholder
const PlaceholderOffset = 0.002

// compass order is fixed so the output is deterministic
var placeholderBearings = []struct {
	label string
	dLat  float64
	dLon  float64
}{
	{"north", PlaceholderOffset, 0},
	{"east", 0, PlaceholderOffset},
	{"south", -PlaceholderOffset, 0},
	{"west", 0, -PlaceholderOffset},
}

// PlaceholderPOIs builds a degraded POI result around the search centre.
// It never touches the network.
func PlaceholderPOIs(in models.POIInput) models.POIResult {
	label := normalize.HumanizeLabel(in.CategoryOrDefault())

	pois := make([]models.POI, 0, len(placeholderBearings))
	for i, b := range placeholderBearings {
		pois = append(pois, models.POI{
			Name:        fmt.Sprintf("%s %d", label, i+1),
			Type:        label,
			Lat:         clampLat(in.Lat + b.dLat),
			Lon:         wrapLon(in.Lon + b.dLon),
			Description: fmt.Sprintf("Approximate location %s of the search point; live data unavailable", b.label),
			Degraded:    true,
		})
	}

	return models.POIResult{POIs: pois, Degraded: true}
}

func clampLat(lat float64) float64 {
	switch {
	case lat > 90:
		return 90
	case lat < -90:
		return -90
	}
	return lat
}

func wrapLon(lon float64) float64 {
	switch {
	case lon > 180:
		return lon - 360
	case lon < -180:
		return lon + 360
	}
	return lon
}
