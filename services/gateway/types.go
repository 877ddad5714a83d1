package gateway

import (
	"time"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/services/routing"
)

// Result is the facade's answer for one operation call. Provider and
// Failures are metadata and never mixed into Payload.
type Result[T any] struct {
	Payload  T
	Provider string
	Degraded bool
	Failures []Failure
	Attempts int
	Duration time.Duration
}

// Failure is the user-facing summary of one provider failure
type Failure struct {
	Provider   string                `json:"provider"`
	Kind       providers.FailureKind `json:"kind"`
	StatusCode int                   `json:"status_code,omitempty"`
	Message    string                `json:"message"`
}

// Chains groups the provider chain of every operation. A nil chain means the
// operation is not configured.
type Chains struct {
	Translate *routing.Chain[models.TranslateInput, models.Translation]
	Geocode   *routing.Chain[models.GeocodeInput, []models.Place]
	POI       *routing.Chain[models.POIInput, []models.POI]
	Weather   *routing.Chain[models.WeatherInput, models.Weather]
}

// OutcomeRecorder receives one audit record per operation call
type OutcomeRecorder interface {
	Record(outcome *models.OperationOutcome) error
}

func summarize(failures []*providers.ProviderError) []Failure {
	out := make([]Failure, 0, len(failures))
	for _, f := range failures {
		out = append(out, Failure{
			Provider:   f.Provider,
			Kind:       f.Kind,
			StatusCode: f.StatusCode,
			Message:    f.Error(),
		})
	}
	return out
}

func newResult[Out, T any](out *routing.Outcome[Out], payload T, degraded bool) *Result[T] {
	return &Result[T]{
		Payload:  payload,
		Provider: out.Provider,
		Degraded: degraded,
		Failures: summarize(out.Failures),
		Attempts: out.Attempts,
		Duration: out.Duration,
	}
}

func widen[T any](r *Result[T]) *Result[any] {
	return &Result[any]{
		Payload:  r.Payload,
		Provider: r.Provider,
		Degraded: r.Degraded,
		Failures: r.Failures,
		Attempts: r.Attempts,
		Duration: r.Duration,
	}
}
