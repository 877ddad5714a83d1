package observability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/upb/travel-gateway/services/providers"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope of the provider instruments
const MeterName = "github.com/upb/travel-gateway/providers"

const outcomeSuccess = "success"

// ProviderStats is a point-in-time view of one provider's counters
type ProviderStats struct {
	Provider       string                          `json:"provider"`
	Attempts       int64                           `json:"attempts"`
	Successes      int64                           `json:"successes"`
	Failures       map[providers.FailureKind]int64 `json:"failures"`
	AverageLatency time.Duration                   `json:"-"`
	AverageMs      float64                         `json:"avg_latency_ms"`
	LastFailure    string                          `json:"last_failure,omitempty"`
	LastAttemptAt  time.Time                       `json:"last_attempt_at"`
}

type providerCounters struct {
	attempts      int64
	successes     int64
	failures      map[providers.FailureKind]int64
	totalLatency  time.Duration
	lastFailure   string
	lastAttemptAt time.Time
}

// ProviderMetrics counts attempts per provider. It satisfies the chain
// executor's Recorder interface and is safe for concurrent use.
//
// Every attempt is kept in process for the status endpoint and also
// exported through OpenTelemetry instruments.
type ProviderMetrics struct {
	mu    sync.Mutex
	stats map[string]*providerCounters
	now   func() time.Time

	attempts metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewProviderMetrics creates an empty collector exporting to the global
// meter provider, which is a no-op until one is installed.
func NewProviderMetrics() *ProviderMetrics {
	m, err := NewProviderMetricsWithMeter(otel.Meter(MeterName))
	if err != nil {
		m, _ = NewProviderMetricsWithMeter(noop.NewMeterProvider().Meter(MeterName))
	}
	return m
}

// NewProviderMetricsWithMeter creates an empty collector exporting to meter
func NewProviderMetricsWithMeter(meter metric.Meter) (*ProviderMetrics, error) {
	attempts, err := meter.Int64Counter("travel_gateway.provider.attempts",
		metric.WithDescription("Upstream provider attempts by outcome"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("travel_gateway.provider.latency",
		metric.WithDescription("Upstream provider attempt latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	return &ProviderMetrics{
		stats:    make(map[string]*providerCounters),
		now:      time.Now,
		attempts: attempts,
		latency:  latency,
	}, nil
}

// RecordAttempt records one provider attempt; failure is nil on success
func (m *ProviderMetrics) RecordAttempt(provider string, latency time.Duration, failure *providers.ProviderError) {
	outcome := outcomeSuccess
	if failure != nil {
		outcome = string(failure.Kind)
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome))
	m.attempts.Add(context.Background(), 1, attrs)
	m.latency.Record(context.Background(), float64(latency)/float64(time.Millisecond), attrs)

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.stats[provider]
	if !ok {
		c = &providerCounters{failures: make(map[providers.FailureKind]int64)}
		m.stats[provider] = c
	}

	c.attempts++
	c.totalLatency += latency
	c.lastAttemptAt = m.now()
	if failure == nil {
		c.successes++
		return
	}
	c.failures[failure.Kind]++
	c.lastFailure = failure.Error()
}

// Snapshot returns the counters of every provider seen so far, sorted by name
func (m *ProviderMetrics) Snapshot() []ProviderStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ProviderStats, 0, len(m.stats))
	for name, c := range m.stats {
		failures := make(map[providers.FailureKind]int64, len(c.failures))
		for k, v := range c.failures {
			failures[k] = v
		}
		var avg time.Duration
		if c.attempts > 0 {
			avg = c.totalLatency / time.Duration(c.attempts)
		}
		out = append(out, ProviderStats{
			Provider:       name,
			Attempts:       c.attempts,
			Successes:      c.successes,
			Failures:       failures,
			AverageLatency: avg,
			AverageMs:      float64(avg) / float64(time.Millisecond),
			LastFailure:    c.lastFailure,
			LastAttemptAt:  c.lastAttemptAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// Reset clears all counters
func (m *ProviderMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(map[string]*providerCounters)
}
