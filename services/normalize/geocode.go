package normalize

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/upb/travel-gateway/models"
)

// NominatimPlaces normalizes a Nominatim /search response (JSON array with
// string-typed lat/lon). Records with unusable coordinates are dropped.
func NominatimPlaces(body []byte, limit int) ([]models.Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, unparseable("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, unparseable("expected JSON array, got %s", root.Type)
	}

	places := make([]models.Place, 0)
	for _, rec := range root.Array() {
		lat, okLat := coordinate(rec.Get("lat"))
		lon, okLon := coordinate(rec.Get("lon"))
		if !okLat || !okLon || !models.ValidCoordinates(lat, lon) {
			continue
		}
		places = append(places, models.Place{
			DisplayName: rec.Get("display_name").String(),
			Lat:         lat,
			Lon:         lon,
		})
	}

	return capPlaces(places, limit)
}

// PhotonPlaces normalizes a Photon GeoJSON FeatureCollection. Coordinates are
// [lon, lat]; the display name is assembled from the feature properties.
func PhotonPlaces(body []byte, limit int) ([]models.Place, error) {
	if !gjson.ValidBytes(body) {
		return nil, unparseable("invalid JSON")
	}
	features := gjson.GetBytes(body, "features")
	if !features.IsArray() {
		return nil, unparseable("missing features array")
	}

	places := make([]models.Place, 0)
	for _, f := range features.Array() {
		lon, okLon := coordinate(f.Get("geometry.coordinates.0"))
		lat, okLat := coordinate(f.Get("geometry.coordinates.1"))
		if !okLat || !okLon || !models.ValidCoordinates(lat, lon) {
			continue
		}
		name := joinNonEmpty(", ",
			f.Get("properties.name").String(),
			f.Get("properties.city").String(),
			f.Get("properties.state").String(),
			f.Get("properties.country").String(),
		)
		if name == "" {
			continue
		}
		places = append(places, models.Place{DisplayName: name, Lat: lat, Lon: lon})
	}

	return capPlaces(places, limit)
}

func capPlaces(places []models.Place, limit int) ([]models.Place, error) {
	if len(places) == 0 {
		return places, empty("no usable places")
	}
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}
	return places, nil
}

// coordinate accepts numbers and numeric strings
func coordinate(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
