package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/services/routing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type measurement struct {
	value    float64
	provider string
	outcome  string
}

func measured(set attribute.Set, value float64) measurement {
	provider, _ := set.Value("provider")
	outcome, _ := set.Value("outcome")
	return measurement{value: value, provider: provider.AsString(), outcome: outcome.AsString()}
}

type recordingCounter struct {
	noop.Int64Counter
	adds []measurement
}

func (c *recordingCounter) Add(_ context.Context, incr int64, options ...metric.AddOption) {
	c.adds = append(c.adds, measured(metric.NewAddConfig(options).Attributes(), float64(incr)))
}

type recordingHistogram struct {
	noop.Float64Histogram
	records []measurement
}

func (h *recordingHistogram) Record(_ context.Context, v float64, options ...metric.RecordOption) {
	h.records = append(h.records, measured(metric.NewRecordConfig(options).Attributes(), v))
}

type recordingMeter struct {
	noop.Meter
	names      []string
	counter    *recordingCounter
	histogram  *recordingHistogram
	counterErr error
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.names = append(m.names, name)
	if m.counterErr != nil {
		return nil, m.counterErr
	}
	return m.counter, nil
}

func (m *recordingMeter) Float64Histogram(name string, _ ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	m.names = append(m.names, name)
	return m.histogram, nil
}

var _ routing.Recorder = (*ProviderMetrics)(nil)

func TestProviderMetrics_RecordAttempt(t *testing.T) {
	m := NewProviderMetrics()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	m.RecordAttempt("nominatim", 100*time.Millisecond, nil)
	m.RecordAttempt("nominatim", 300*time.Millisecond, providers.NewProviderError("nominatim", providers.FailureTimeout, "deadline", nil))
	m.RecordAttempt("photon", 50*time.Millisecond, providers.NewStatusError("photon", 503, []byte("busy")))

	snap := m.Snapshot()
	require.Len(t, snap, 2)

	nominatim := snap[0]
	assert.Equal(t, "nominatim", nominatim.Provider)
	assert.Equal(t, int64(2), nominatim.Attempts)
	assert.Equal(t, int64(1), nominatim.Successes)
	assert.Equal(t, int64(1), nominatim.Failures[providers.FailureTimeout])
	assert.Equal(t, 200*time.Millisecond, nominatim.AverageLatency)
	assert.InDelta(t, 200.0, nominatim.AverageMs, 0.001)
	assert.Contains(t, nominatim.LastFailure, "timeout")
	assert.Equal(t, fixed, nominatim.LastAttemptAt)

	photon := snap[1]
	assert.Equal(t, int64(1), photon.Failures[providers.FailureUpstreamStatus])
	assert.Equal(t, int64(0), photon.Successes)
}

func TestProviderMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewProviderMetrics()
	m.RecordAttempt("overpass", time.Millisecond, providers.NewProviderError("overpass", providers.FailureEmptyResult, "no elements", nil))

	snap := m.Snapshot()
	snap[0].Failures[providers.FailureEmptyResult] = 99

	assert.Equal(t, int64(1), m.Snapshot()[0].Failures[providers.FailureEmptyResult])
}

func TestProviderMetrics_Concurrent(t *testing.T) {
	m := NewProviderMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordAttempt("libretranslate", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), m.Snapshot()[0].Attempts)

	m.Reset()
	assert.Empty(t, m.Snapshot())
}

func TestProviderMetrics_ExportsInstruments(t *testing.T) {
	meter := &recordingMeter{counter: &recordingCounter{}, histogram: &recordingHistogram{}}
	m, err := NewProviderMetricsWithMeter(meter)
	require.NoError(t, err)
	assert.Equal(t, []string{"travel_gateway.provider.attempts", "travel_gateway.provider.latency"}, meter.names)

	m.RecordAttempt("photon", 250*time.Millisecond, nil)
	m.RecordAttempt("nominatim", 10*time.Second, providers.NewProviderError("nominatim", providers.FailureTimeout, "deadline", nil))

	assert.Equal(t, []measurement{
		{value: 1, provider: "photon", outcome: "success"},
		{value: 1, provider: "nominatim", outcome: "timeout"},
	}, meter.counter.adds)
	assert.Equal(t, []measurement{
		{value: 250, provider: "photon", outcome: "success"},
		{value: 10000, provider: "nominatim", outcome: "timeout"},
	}, meter.histogram.records)

	assert.Len(t, m.Snapshot(), 2)
}

func TestNewProviderMetricsWithMeter_InstrumentError(t *testing.T) {
	meter := &recordingMeter{counterErr: errors.New("duplicate instrument")}

	_, err := NewProviderMetricsWithMeter(meter)
	assert.EqualError(t, err, "duplicate instrument")
}
