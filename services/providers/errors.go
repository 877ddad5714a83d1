package providers

import (
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a single provider attempt failed
type FailureKind string

const (
	FailureNetwork        FailureKind = "network_failure"
	FailureTimeout        FailureKind = "timeout"
	FailureUpstreamStatus FailureKind = "upstream_status"
	FailureUnparseable    FailureKind = "unparseable_body"
	FailureEmptyResult    FailureKind = "empty_result"
)

// MaxBodySnippet bounds the upstream body kept on an upstream_status failure
const MaxBodySnippet = 256

// ProviderError represents one failed attempt against one provider
type ProviderError struct {
	// Provider that generated the error
	Provider string `json:"provider"`

	// Kind is the failure classification
	Kind FailureKind `json:"kind"`

	// StatusCode is the HTTP status code (upstream_status only)
	StatusCode int `json:"status_code,omitempty"`

	// Body is a truncated, redacted snippet of the upstream response
	Body string `json:"body,omitempty"`

	// Message is a short human-readable description
	Message string `json:"message"`

	// Cause is the underlying error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider string, kind FailureKind, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     kind,
		Message:  message,
		Cause:    cause,
	}
}

// NewStatusError creates an upstream_status error carrying a body snippet
func NewStatusError(provider string, statusCode int, body []byte) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Kind:       FailureUpstreamStatus,
		StatusCode: statusCode,
		Body:       Snippet(body, MaxBodySnippet),
		Message:    "unexpected upstream status",
	}
}

// AsProviderError extracts a *ProviderError from err
func AsProviderError(err error) (*ProviderError, bool) {
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr, true
	}
	return nil, false
}

// ConfigurationError reports a provider that cannot be used because a
// required setting is missing. It is raised before any network call.
type ConfigurationError struct {
	Provider string
	Setting  string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provider %s is not configured: %s is required", e.Provider, e.Setting)
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Snippet returns at most max bytes of body as valid, single-line UTF-8
func Snippet(body []byte, max int) string {
	truncated := false
	if len(body) > max {
		body = body[:max]
		truncated = true
	}
	// a cut inside a multi-byte rune leaves invalid bytes; drop them
	s := strings.Join(strings.Fields(strings.ToValidUTF8(string(body), "")), " ")
	if truncated {
		s += "..."
	}
	return s
}

// redactedError hides a secret in an error message while keeping the chain
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// Redact replaces every occurrence of secret in err's message
func Redact(err error, secret string) error {
	if err == nil || secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "REDACTED"), err: err}
}
