package models

const (
	DefaultGeocodeLimit = 1
	MaxGeocodeLimit     = 40
)

// GeocodeInput is the request for the geocode operation
type GeocodeInput struct {
	Query string `json:"query" validate:"required,max=512"`
	Limit int    `json:"limit" validate:"gte=1,lte=40"`
}

// ApplyDefaults fills in the default result limit
func (in *GeocodeInput) ApplyDefaults() {
	if in.Limit == 0 {
		in.Limit = DefaultGeocodeLimit
	}
}

// Place is a single normalized geocoding result
type Place struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// ValidCoordinates reports whether lat/lon fall inside WGS84 bounds
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
