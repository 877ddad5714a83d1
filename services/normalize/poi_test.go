package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/upb/travel-gateway/models"
)

func TestOverpassPOIs(t *testing.T) {
	in := models.POIInput{Lat: 21.03, Lon: 105.85, Radius: 3000, Limit: 10}

	t.Run("maps tagged elements", func(t *testing.T) {
		body := `{"elements":[
			{"type":"node","id":1,"lat":21.0287,"lon":105.8522,
			 "tags":{"name":"Temple of Literature","historic":"temple","description":"First national university"}},
			{"type":"node","id":2,"lat":21.031,"lon":105.85,
			 "tags":{"name":"Pho 10","amenity":"restaurant","addr:housenumber":"10","addr:street":"Ly Quoc Su","addr:city":"Hanoi"}},
			{"type":"way","id":3,"center":{"lat":21.02,"lon":105.84},
			 "tags":{"name":"Hanoi Opera House","tourism":"attraction"}}
		]}`

		pois, err := OverpassPOIs([]byte(body), in)
		require.NoError(t, err)
		require.Len(t, pois, 3)

		assert.Equal(t, "Temple of Literature", pois[0].Name)
		assert.Equal(t, "Temple", pois[0].Type)
		assert.Equal(t, "First national university", pois[0].Description)

		assert.Equal(t, "Restaurant", pois[1].Type)
		assert.Equal(t, "10 Ly Quoc Su, Hanoi", pois[1].Description)

		assert.Equal(t, "Attraction", pois[2].Type)
		assert.InDelta(t, 21.02, pois[2].Lat, 1e-9)
		assert.False(t, pois[2].Degraded)
	})

	t.Run("name-only node takes the search category", func(t *testing.T) {
		body := `{"elements":[{"type":"node","lat":21,"lon":105,"tags":{"name":"Corner"}}]}`
		withCategory := in
		withCategory.Category = "street_food"

		pois, err := OverpassPOIs([]byte(body), withCategory)
		require.NoError(t, err)
		require.Len(t, pois, 1)
		assert.Equal(t, "Street Food", pois[0].Type)
	})

	t.Run("unnamed elements are dropped", func(t *testing.T) {
		body := `{"elements":[{"type":"node","lat":21,"lon":105,"tags":{"amenity":"bench"}}]}`
		pois, err := OverpassPOIs([]byte(body), in)
		assert.ErrorIs(t, err, ErrEmpty)
		assert.Empty(t, pois)
	})

	t.Run("caps at limit", func(t *testing.T) {
		body := `{"elements":[
			{"lat":1,"lon":1,"tags":{"name":"a"}},
			{"lat":1,"lon":1,"tags":{"name":"b"}},
			{"lat":1,"lon":1,"tags":{"name":"c"}}
		]}`
		limited := in
		limited.Limit = 2
		pois, err := OverpassPOIs([]byte(body), limited)
		require.NoError(t, err)
		assert.Len(t, pois, 2)
	})

	t.Run("html error page", func(t *testing.T) {
		_, err := OverpassPOIs([]byte(`<html><body>rate limited</body></html>`), in)
		assert.ErrorIs(t, err, ErrUnparseable)
	})
}

func TestPOIType(t *testing.T) {
	tests := []struct {
		name     string
		tags     string
		category string
		want     string
	}{
		{"tourism before amenity", `{"amenity":"cafe","tourism":"museum"}`, "place", "Museum"},
		{"historic before amenity", `{"amenity":"place_of_worship","historic":"monument"}`, "place", "Monument"},
		{"underscores", `{"amenity":"place_of_worship"}`, "place", "Place Of Worship"},
		{"yes value uses key", `{"historic":"yes"}`, "place", "Historic"},
		{"no tags", `{}`, "place", "Place"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, POIType(gjson.Parse(tt.tags), tt.category))
		})
	}
}

func TestHumanizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"museum", "Museum"},
		{"place_of_worship", "Place Of Worship"},
		{"ATM", "ATM"},
		{"bank_ATM", "Bank ATM"},
		{"fast_food_KFC", "Fast Food KFC"},
		{"  _ ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanizeLabel(tt.in))
		})
	}
}
