package providers

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/upb/travel-gateway/services/normalize"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 2 << 20
	defaultUserAgent    = "travel-gateway/0.1"
)

// RequestBuilder builds the upstream request for one attempt
type RequestBuilder[In any] func(ctx context.Context, in In) (*http.Request, error)

// ResponseParser turns a successful body into the normalized payload.
// Errors wrapping normalize.ErrEmpty become empty_result failures; any other
// error becomes unparseable_body.
type ResponseParser[In, Out any] func(in In, body []byte) (Out, error)

// HTTPConfig holds common configuration for HTTP-backed adapters
type HTTPConfig struct {
	// Name identifies the provider in errors, logs and metrics
	Name string

	// Timeout bounds a single attempt, including rate limiter wait
	Timeout time.Duration

	// RateLimitRPS throttles outbound calls; zero disables throttling
	RateLimitRPS float64

	// UserAgent sent on every request
	UserAgent string

	// MaxBodyBytes caps how much of a response body is read
	MaxBodyBytes int64

	// Secret is redacted from error messages (e.g. an API key sent in the query)
	Secret string

	// Client overrides the HTTP client, mainly for tests
	Client *http.Client
}

// HTTPAdapter is a generic Adapter that performs one HTTP round trip per attempt
type HTTPAdapter[In, Out any] struct {
	name      string
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
	maxBody   int64
	secret    string
	client    *http.Client
	build     RequestBuilder[In]
	parse     ResponseParser[In, Out]
	preflight func() error
}

// NewHTTPAdapter creates a new HTTP adapter
func NewHTTPAdapter[In, Out any](cfg HTTPConfig, build RequestBuilder[In], parse ResponseParser[In, Out]) *HTTPAdapter[In, Out] {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Client == nil {
		// per-attempt deadlines come from the context
		cfg.Client = &http.Client{}
	}

	a := &HTTPAdapter[In, Out]{
		name:      cfg.Name,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		secret:    cfg.Secret,
		client:    cfg.Client,
		build:     build,
		parse:     parse,
	}
	if cfg.RateLimitRPS > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	return a
}

// WithPreflight installs a configuration check run before the chain starts
func (a *HTTPAdapter[In, Out]) WithPreflight(check func() error) *HTTPAdapter[In, Out] {
	a.preflight = check
	return a
}

// Name returns the provider name
func (a *HTTPAdapter[In, Out]) Name() string {
	return a.name
}

// Timeout returns the per-attempt timeout
func (a *HTTPAdapter[In, Out]) Timeout() time.Duration {
	return a.timeout
}

// Preflight implements Preflighter
func (a *HTTPAdapter[In, Out]) Preflight() error {
	if a.preflight == nil {
		return nil
	}
	return a.preflight()
}

// Attempt performs a single bounded request
func (a *HTTPAdapter[In, Out]) Attempt(ctx context.Context, in In) (Out, error) {
	var zero Out

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return zero, NewProviderError(a.name, FailureTimeout, "rate limit wait exceeded deadline", err)
		}
	}

	req, err := a.build(ctx, in)
	if err != nil {
		return zero, NewProviderError(a.name, FailureNetwork, "failed to build request", Redact(err, a.secret))
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return zero, a.transportError(ctx, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBody))
	if err != nil {
		return zero, a.transportError(ctx, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		provErr := NewStatusError(a.name, resp.StatusCode, body)
		if a.secret != "" {
			provErr.Body = Redact(errors.New(provErr.Body), a.secret).Error()
		}
		return zero, provErr
	}

	out, err := a.parse(in, body)
	if err != nil {
		kind := FailureUnparseable
		if errors.Is(err, normalize.ErrEmpty) {
			kind = FailureEmptyResult
		}
		return zero, NewProviderError(a.name, kind, err.Error(), nil)
	}

	return out, nil
}

// transportError classifies client and body-read errors. Any deadline or
// cancellation, ours or the caller's, is a timeout.
func (a *HTTPAdapter[In, Out]) transportError(ctx context.Context, message string, err error) *ProviderError {
	kind := FailureNetwork

	var netErr net.Error
	switch {
	case ctx.Err() != nil,
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		kind = FailureTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = FailureTimeout
	}
	return NewProviderError(a.name, kind, message, Redact(err, a.secret))
}
