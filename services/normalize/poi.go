package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/upb/travel-gateway/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeTags are the OSM keys consulted, in order, to label a POI
var TypeTags = []string{"tourism", "historic", "amenity", "leisure"}

// OverpassPOIs normalizes an Overpass API JSON response. Unnamed elements and
// elements without coordinates are dropped. Ways and relations use their
// center point.
func OverpassPOIs(body []byte, in models.POIInput) ([]models.POI, error) {
	if !gjson.ValidBytes(body) {
		return nil, unparseable("invalid JSON")
	}
	elements := gjson.GetBytes(body, "elements")
	if !elements.IsArray() {
		return nil, unparseable("missing elements array")
	}

	pois := make([]models.POI, 0)
	for _, el := range elements.Array() {
		tags := el.Get("tags")
		name := strings.TrimSpace(tags.Get("name").String())
		if name == "" {
			continue
		}

		lat, lon, ok := elementPosition(el)
		if !ok {
			continue
		}

		pois = append(pois, models.POI{
			Name:        name,
			Type:        POIType(tags, in.CategoryOrDefault()),
			Lat:         lat,
			Lon:         lon,
			Description: poiDescription(tags),
		})
		if in.Limit > 0 && len(pois) == in.Limit {
			break
		}
	}

	if len(pois) == 0 {
		return pois, empty("no named elements")
	}
	return pois, nil
}

// POIType derives a human-readable type from the first matched tag, falling
// back to the search category.
func POIType(tags gjson.Result, category string) string {
	label := category
	for _, key := range TypeTags {
		v := strings.TrimSpace(tags.Get(gjson.Escape(key)).String())
		if v == "" {
			continue
		}
		if v == "yes" {
			v = key
		}
		label = v
		break
	}
	return HumanizeLabel(label)
}

// HumanizeLabel turns an OSM value such as "place_of_worship" into "Place Of Worship".
// Only the first letter of each word changes; "ATM" stays "ATM".
func HumanizeLabel(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
	if s == "" {
		return ""
	}
	return cases.Title(language.English, cases.NoLower).String(s)
}

func elementPosition(el gjson.Result) (float64, float64, bool) {
	pos := el
	if !el.Get("lat").Exists() {
		pos = el.Get("center")
	}
	lat, okLat := coordinate(pos.Get("lat"))
	lon, okLon := coordinate(pos.Get("lon"))
	if !okLat || !okLon || !models.ValidCoordinates(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

func poiDescription(tags gjson.Result) string {
	if d := strings.TrimSpace(tags.Get("description").String()); d != "" {
		return d
	}
	street := joinNonEmpty(" ",
		tags.Get(gjson.Escape("addr:housenumber")).String(),
		tags.Get(gjson.Escape("addr:street")).String(),
	)
	return joinNonEmpty(", ", street, tags.Get(gjson.Escape("addr:city")).String())
}
