package openweather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
)

func TestAdapter_Attempt(t *testing.T) {
	t.Run("metric query with key", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "10.8231", q.Get("lat"))
			assert.Equal(t, "106.6297", q.Get("lon"))
			assert.Equal(t, "k3y", q.Get("appid"))
			assert.Equal(t, "metric", q.Get("units"))
			_, _ = w.Write([]byte(`{"name":"Ho Chi Minh City","main":{"temp":33.5},"weather":[{"main":"Clouds","description":"broken clouds"}]}`))
		}))
		defer server.Close()

		adapter := New(Config{HTTPConfig: providers.HTTPConfig{Name: "openweathermap"}, Endpoint: server.URL, APIKey: "k3y"})
		require.NoError(t, adapter.Preflight())

		w, err := adapter.Attempt(context.Background(), models.WeatherInput{Lat: 10.8231, Lon: 106.6297})
		require.NoError(t, err)
		assert.InDelta(t, 33.5, w.Temp, 1e-9)
		assert.Equal(t, "broken clouds", w.Conditions)

		encoded, err := json.Marshal(w)
		require.NoError(t, err)
		assert.Contains(t, string(encoded), `"name":"Ho Chi Minh City"`)
	})

	t.Run("missing key fails preflight without network", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer server.Close()

		adapter := New(Config{HTTPConfig: providers.HTTPConfig{Name: "openweathermap"}, Endpoint: server.URL})
		err := adapter.Preflight()
		require.Error(t, err)
		assert.True(t, providers.IsConfigurationError(err))
		assert.Contains(t, err.Error(), APIKeySetting)
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})

	t.Run("invalid key response is redacted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key bad-key"}`))
		}))
		defer server.Close()

		adapter := New(Config{HTTPConfig: providers.HTTPConfig{Name: "openweathermap"}, Endpoint: server.URL, APIKey: "bad-key"})
		_, err := adapter.Attempt(context.Background(), models.WeatherInput{Lat: 1, Lon: 1})

		provErr, ok := providers.AsProviderError(err)
		require.True(t, ok)
		assert.Equal(t, providers.FailureUpstreamStatus, provErr.Kind)
		assert.NotContains(t, provErr.Body, "bad-key")
	})
}
