// Package gateway is the operation facade: it validates input, runs the
// provider chain of an operation and turns the chain outcome into a payload,
// a degraded payload or one user-facing error.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/upb/travel-gateway/middleware"
	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services"
	"github.com/upb/travel-gateway/services/fallback"
	"github.com/upb/travel-gateway/services/providers"
	"github.com/upb/travel-gateway/services/routing"
	"github.com/upb/travel-gateway/utils"
	"go.uber.org/zap"
)

// Service exposes the four operations
type Service struct {
	chains   Chains
	outcomes OutcomeRecorder
	logger   *zap.Logger
}

// NewService creates a new gateway service. outcomes may be nil when the
// audit trail is disabled.
func NewService(chains Chains, outcomes OutcomeRecorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		chains:   chains,
		outcomes: outcomes,
		logger:   logger,
	}
}

// Translate runs the translate chain. Exhaustion is an error; a translation is never synthesized.
func (s *Service) Translate(ctx context.Context, in models.TranslateInput) (*Result[models.Translation], error) {
	in.ApplyDefaults()
	if err := utils.ValidateRequired(in.Text, "text"); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "Validation failed", services.ErrEmptyText).
			WithDetail("text", err.Error())
	}

	out, err := execute(ctx, s, models.OperationTranslate, s.chains.Translate, in)
	if err != nil {
		return nil, err
	}
	return complete(ctx, s, out, func(t models.Translation) models.Translation {
		if t.Source == "" {
			t.Source = in.Source
		}
		if t.Target == "" {
			t.Target = in.Target
		}
		return t
	}, nil)
}

// Geocode runs the geocode chain
func (s *Service) Geocode(ctx context.Context, in models.GeocodeInput) (*Result[[]models.Place], error) {
	in.Query = strings.TrimSpace(in.Query)
	in.ApplyDefaults()

	out, err := execute(ctx, s, models.OperationGeocode, s.chains.Geocode, in)
	if err != nil {
		return nil, err
	}
	return complete(ctx, s, out, identity[[]models.Place], nil)
}

// SearchPOI runs the POI chain. When every provider fails the result is a
// degraded placeholder set instead of an error.
func (s *Service) SearchPOI(ctx context.Context, in models.POIInput) (*Result[models.POIResult], error) {
	in.Category = strings.TrimSpace(in.Category)
	in.ApplyDefaults()

	out, err := execute(ctx, s, models.OperationPOI, s.chains.POI, in)
	if err != nil {
		return nil, err
	}
	return complete(ctx, s, out, func(pois []models.POI) models.POIResult {
		return models.POIResult{POIs: pois}
	}, func() models.POIResult {
		return fallback.PlaceholderPOIs(in)
	})
}

// Weather runs the weather chain
func (s *Service) Weather(ctx context.Context, in models.WeatherInput) (*Result[models.Weather], error) {
	out, err := execute(ctx, s, models.OperationWeather, s.chains.Weather, in)
	if err != nil {
		return nil, err
	}
	return complete(ctx, s, out, identity[models.Weather], nil)
}

// Execute dispatches by operation name. input must be the operation's input
// type, by value or pointer.
func (s *Service) Execute(ctx context.Context, name string, input any) (*Result[any], error) {
	op, ok := models.ParseOperation(name)
	if !ok {
		return nil, services.NewDomainError(services.ErrorTypeNotFound, fmt.Sprintf("unknown operation %q", name), services.ErrOperationNotFound).
			WithDetail("operations", models.Operations())
	}

	switch in := input.(type) {
	case models.TranslateInput:
		return dispatch(op, models.OperationTranslate, func() (*Result[models.Translation], error) { return s.Translate(ctx, in) })
	case *models.TranslateInput:
		return dispatch(op, models.OperationTranslate, func() (*Result[models.Translation], error) { return s.Translate(ctx, *in) })
	case models.GeocodeInput:
		return dispatch(op, models.OperationGeocode, func() (*Result[[]models.Place], error) { return s.Geocode(ctx, in) })
	case *models.GeocodeInput:
		return dispatch(op, models.OperationGeocode, func() (*Result[[]models.Place], error) { return s.Geocode(ctx, *in) })
	case models.POIInput:
		return dispatch(op, models.OperationPOI, func() (*Result[models.POIResult], error) { return s.SearchPOI(ctx, in) })
	case *models.POIInput:
		return dispatch(op, models.OperationPOI, func() (*Result[models.POIResult], error) { return s.SearchPOI(ctx, *in) })
	case models.WeatherInput:
		return dispatch(op, models.OperationWeather, func() (*Result[models.Weather], error) { return s.Weather(ctx, in) })
	case *models.WeatherInput:
		return dispatch(op, models.OperationWeather, func() (*Result[models.Weather], error) { return s.Weather(ctx, *in) })
	default:
		return nil, inputMismatch(op, input)
	}
}

// Providers returns the provider order of every configured operation
func (s *Service) Providers() map[models.Operation][]string {
	out := make(map[models.Operation][]string, 4)
	if s.chains.Translate != nil {
		out[models.OperationTranslate] = s.chains.Translate.Providers()
	}
	if s.chains.Geocode != nil {
		out[models.OperationGeocode] = s.chains.Geocode.Providers()
	}
	if s.chains.POI != nil {
		out[models.OperationPOI] = s.chains.POI.Providers()
	}
	if s.chains.Weather != nil {
		out[models.OperationWeather] = s.chains.Weather.Providers()
	}
	return out
}

func dispatch[T any](requested, served models.Operation, call func() (*Result[T], error)) (*Result[any], error) {
	if requested != served {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("input does not match operation %s", requested), nil).
			WithDetail("operation", string(requested))
	}
	res, err := call()
	if err != nil {
		return nil, err
	}
	return widen(res), nil
}

func inputMismatch(op models.Operation, input any) error {
	return services.NewDomainError(services.ErrorTypeValidation,
		fmt.Sprintf("unsupported input %T for operation %s", input, op), nil).
		WithDetail("operation", string(op))
}

// execute validates the input and runs the chain. The only errors returned
// are validation and configuration errors; provider failures stay in the outcome.
func execute[In, Out any](ctx context.Context, s *Service, op models.Operation, chain *routing.Chain[In, Out], in In) (*routing.Outcome[Out], error) {
	if err := utils.ValidateStruct(in); err != nil {
		derr := services.NewDomainError(services.ErrorTypeValidation, "Validation failed", err)
		for field, msg := range utils.GetValidationFields(err) {
			derr.WithDetail(field, msg)
		}
		return nil, derr
	}

	if chain == nil {
		s.recordRejected(ctx, op)
		return nil, services.NewDomainError(services.ErrorTypeConfiguration,
			fmt.Sprintf("operation %s has no configured providers", op), nil).
			WithDetail("operation", string(op))
	}

	out, err := chain.Run(ctx, in)
	if err != nil {
		s.recordRejected(ctx, op)

		var cfgErr *providers.ConfigurationError
		if errors.As(err, &cfgErr) {
			s.logger.Warn("operation rejected by provider configuration",
				zap.String("operation", string(op)),
				zap.String("provider", cfgErr.Provider),
				zap.String("setting", cfgErr.Setting))
			return nil, services.NewDomainError(services.ErrorTypeConfiguration, cfgErr.Error(), err).
				WithDetail("operation", string(op)).
				WithDetail("provider", cfgErr.Provider).
				WithDetail("setting", cfgErr.Setting)
		}
		return nil, services.WrapInternal(fmt.Sprintf("%s chain failed to start", op), err)
	}
	return out, nil
}

// complete maps a chain outcome to a result. degrade is nil for operations
// that must surface exhaustion as an error.
func complete[Out, T any](ctx context.Context, s *Service, out *routing.Outcome[Out], payload func(Out) T, degrade func() T) (*Result[T], error) {
	if out.Succeeded() {
		record(ctx, s, out, models.OutcomeSucceeded)
		return newResult(out, payload(out.Payload), false), nil
	}

	if degrade != nil {
		record(ctx, s, out, models.OutcomeDegraded)
		s.logger.Warn("serving degraded result",
			zap.String("operation", string(out.Operation)),
			zap.Int("failures", len(out.Failures)))
		return newResult(out, degrade(), true), nil
	}

	record(ctx, s, out, models.OutcomeExhausted)
	return nil, exhaustedError(out)
}

func exhaustedError[Out any](out *routing.Outcome[Out]) error {
	chainErr := out.Err()
	derr := services.NewDomainError(services.ErrorTypeExternal, chainErr.Error(), chainErr).
		WithDetail("operation", string(out.Operation)).
		WithDetail("failures", summarize(out.Failures))
	if out.Stopped != nil {
		derr.WithDetail("stopped", out.Stopped.Error())
	}
	return derr
}

func identity[T any](v T) T { return v }

func record[Out any](ctx context.Context, s *Service, out *routing.Outcome[Out], status models.OutcomeStatus) {
	if s.outcomes == nil {
		return
	}
	outcome := models.NewOperationOutcome(middleware.GetRequestIDFromContext(ctx), out.Operation, status).
		WithProvider(out.Provider).
		WithFailures(summarize(out.Failures)).
		WithLatency(out.Duration, out.Attempts)
	s.submit(outcome)
}

func (s *Service) recordRejected(ctx context.Context, op models.Operation) {
	if s.outcomes == nil {
		return
	}
	s.submit(models.NewOperationOutcome(middleware.GetRequestIDFromContext(ctx), op, models.OutcomeRejected))
}

// submit never blocks the response; a full audit buffer only costs the record
func (s *Service) submit(outcome *models.OperationOutcome) {
	if err := s.outcomes.Record(outcome); err != nil {
		s.logger.Debug("operation outcome not recorded",
			zap.String("operation", string(outcome.Operation)),
			zap.Error(err))
	}
}
