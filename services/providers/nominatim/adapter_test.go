package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
)

func TestAdapter_Attempt(t *testing.T) {
	t.Run("search query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "Hoi An", q.Get("q"))
			assert.Equal(t, "json", q.Get("format"))
			assert.Equal(t, "2", q.Get("limit"))
			assert.Equal(t, "travel-gateway-test/1.0", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`[
				{"display_name":"Hội An, Quảng Nam, Việt Nam","lat":"15.8794","lon":"108.3350"},
				{"display_name":"Hoi An Ancient Town","lat":"15.8772","lon":"108.3280"}
			]`))
		}))
		defer server.Close()

		adapter := New(Config{
			HTTPConfig: providers.HTTPConfig{Name: "nominatim", UserAgent: "travel-gateway-test/1.0"},
			Endpoint:   server.URL,
		})
		places, err := adapter.Attempt(context.Background(), models.GeocodeInput{Query: "Hoi An", Limit: 2})
		require.NoError(t, err)
		require.Len(t, places, 2)
		assert.Equal(t, "Hội An, Quảng Nam, Việt Nam", places[0].DisplayName)
		assert.InDelta(t, 15.8794, places[0].Lat, 1e-9)
	})

	t.Run("non-numeric latitude is an empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"display_name":"X","lat":"n/a","lon":"108.3"}]`))
		}))
		defer server.Close()

		adapter := New(Config{HTTPConfig: providers.HTTPConfig{Name: "nominatim"}, Endpoint: server.URL})
		_, err := adapter.Attempt(context.Background(), models.GeocodeInput{Query: "X", Limit: 1})

		provErr, ok := providers.AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, providers.FailureEmptyResult, provErr.Kind)
	})
}
