package models

import "encoding/json"

// WeatherInput is the request for the weather operation
type WeatherInput struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Weather is the normalized weather payload. Raw holds the upstream object
// verbatim; Temp and Conditions are promoted to the top level on encoding.
type Weather struct {
	Temp       float64
	Conditions string
	Raw        json.RawMessage
}

// MarshalJSON flattens the raw upstream fields together with temp and conditions
func (w Weather) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage)
	if len(w.Raw) > 0 {
		if err := json.Unmarshal(w.Raw, &out); err != nil {
			return nil, err
		}
	}

	temp, err := json.Marshal(w.Temp)
	if err != nil {
		return nil, err
	}
	conditions, err := json.Marshal(w.Conditions)
	if err != nil {
		return nil, err
	}
	out["temp"] = temp
	out["conditions"] = conditions

	return json.Marshal(out)
}
