package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/app"
	"github.com/upb/travel-gateway/config"
	"github.com/upb/travel-gateway/internal/observability"
	"github.com/upb/travel-gateway/services/gateway"
	"github.com/upb/travel-gateway/services/providers"
	"go.uber.org/zap"
)

func statusDeps(t *testing.T) *app.Dependencies {
	t.Helper()

	registry := providers.NewRegistry()
	require.NoError(t, registry.RegisterProvider(providers.Descriptor{
		Name:    "nominatim",
		Kind:    providers.KindNominatim,
		BaseURL: "https://nominatim.openstreetmap.org/search",
		Timeout: 15 * time.Second,
	}))
	require.NoError(t, registry.RegisterProvider(providers.Descriptor{
		Name:    "openweathermap",
		Kind:    providers.KindOpenWeatherMap,
		BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		Timeout: 10 * time.Second,
	}))

	metrics := observability.NewProviderMetrics()
	metrics.RecordAttempt("nominatim", 120*time.Millisecond, nil)

	return &app.Dependencies{
		Config:   &config.Config{Environment: "test", Version: "1.2.3"},
		Logger:   zap.NewNop(),
		Gateway:  gateway.NewService(gateway.Chains{}, nil, zap.NewNop()),
		Registry: registry,
		Metrics:  metrics,
	}
}

func TestStatusHandler(t *testing.T) {
	handler := StatusHandler(statusDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	data := response.Data
	assert.Equal(t, "1.2.3", data["version"])
	assert.Equal(t, "test", data["environment"])
	assert.NotContains(t, data, "audit")

	provs := data["providers"].(map[string]interface{})
	assert.Contains(t, provs, "geocode")
	assert.Contains(t, provs, "weather")
	assert.NotContains(t, provs, "translate")

	metrics := data["metrics"].([]interface{})
	require.Len(t, metrics, 1)
	assert.Equal(t, "nominatim", metrics[0].(map[string]interface{})["provider"])
}

func TestRootHandler(t *testing.T) {
	handler := RootHandler(statusDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ok", response.Data["status"])
	assert.Len(t, response.Data["operations"], 4)
}
