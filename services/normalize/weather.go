package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/upb/travel-gateway/models"
)

// WeatherReport validates an OpenWeatherMap current-weather body and keeps
// it verbatim alongside the promoted temp and conditions.
func WeatherReport(body []byte) (models.Weather, error) {
	if !gjson.ValidBytes(body) {
		return models.Weather{}, unparseable("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return models.Weather{}, unparseable("expected JSON object, got %s", root.Type)
	}

	temp := root.Get("main.temp")
	if temp.Type != gjson.Number {
		return models.Weather{}, unparseable("missing numeric main.temp")
	}
	conditions := root.Get("weather.0.description")
	if conditions.Type != gjson.String || strings.TrimSpace(conditions.Str) == "" {
		return models.Weather{}, unparseable("missing weather description")
	}

	raw := make([]byte, len(body))
	copy(raw, body)

	return models.Weather{
		Temp:       temp.Num,
		Conditions: conditions.Str,
		Raw:        raw,
	}, nil
}
