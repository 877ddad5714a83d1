package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Error(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		err := NewStatusError("libretranslate", 503, []byte("Service Unavailable"))
		assert.Equal(t, "libretranslate: upstream_status (status 503): unexpected upstream status", err.Error())
		assert.Equal(t, "Service Unavailable", err.Body)
	})

	t.Run("with cause", func(t *testing.T) {
		err := NewProviderError("photon", FailureTimeout, "request failed", context.DeadlineExceeded)
		assert.Equal(t, "photon: timeout: request failed: context deadline exceeded", err.Error())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestAsProviderError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewProviderError("overpass", FailureEmptyResult, "none", nil))

	provErr, ok := AsProviderError(wrapped)
	require.True(t, ok)
	assert.Equal(t, FailureEmptyResult, provErr.Kind)

	_, ok = AsProviderError(errors.New("plain"))
	assert.False(t, ok)
}

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("preflight: %w", &ConfigurationError{Provider: "openweathermap", Setting: "OPENWEATHER_API_KEY"})
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "OPENWEATHER_API_KEY is required")
	assert.False(t, IsConfigurationError(errors.New("other")))
}

func TestSnippet(t *testing.T) {
	t.Run("short body unchanged apart from whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", Snippet([]byte("a\n  b\tc"), 10))
	})

	t.Run("long body truncated", func(t *testing.T) {
		s := Snippet([]byte(strings.Repeat("x", 300)), MaxBodySnippet)
		assert.Equal(t, MaxBodySnippet+3, len(s))
		assert.True(t, strings.HasSuffix(s, "..."))
	})

	t.Run("cut inside multibyte rune", func(t *testing.T) {
		body := []byte("aà") // 'à' is two bytes
		s := Snippet(body, 2)
		assert.Equal(t, "a...", s)
	})
}

func TestRedact(t *testing.T) {
	err := errors.New(`Get "https://api.example.com/weather?appid=s3cret": dial tcp: refused`)
	red := Redact(err, "s3cret")
	assert.NotContains(t, red.Error(), "s3cret")
	assert.Contains(t, red.Error(), "REDACTED")
	assert.ErrorIs(t, red, err)

	assert.Same(t, err, Redact(err, ""))
	assert.Nil(t, Redact(nil, "s3cret"))
}
