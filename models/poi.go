package models

const (
	DefaultPOIRadius = 3000
	MaxPOIRadius     = 50000
	DefaultPOILimit  = 50
	MaxPOILimit      = 200

	// DefaultPOICategory labels results that carry no recognised type tag
	DefaultPOICategory = "place"
)

// POIInput is the request for the points-of-interest search
type POIInput struct {
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"lon" validate:"gte=-180,lte=180"`
	Radius   int     `json:"radius" validate:"gte=1,lte=50000"`
	Category string  `json:"category,omitempty" validate:"omitempty,max=64"`
	Limit    int     `json:"limit" validate:"gte=1,lte=200"`
}

// ApplyDefaults fills in radius and limit
func (in *POIInput) ApplyDefaults() {
	if in.Radius == 0 {
		in.Radius = DefaultPOIRadius
	}
	if in.Limit == 0 {
		in.Limit = DefaultPOILimit
	}
}

// CategoryOrDefault returns the requested category or the generic label
func (in POIInput) CategoryOrDefault() string {
	if in.Category == "" {
		return DefaultPOICategory
	}
	return in.Category
}

// POI is a single normalized point of interest
type POI struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Description string  `json:"description"`
	Degraded    bool    `json:"degraded,omitempty"`
}

// POIResult is the normalized POI payload
type POIResult struct {
	POIs     []POI `json:"pois"`
	Degraded bool  `json:"degraded"`
}
