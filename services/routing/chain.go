package routing

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
	"go.uber.org/zap"
)

// Step is the result of one chain iteration
type Step int

const (
	// StepSuccess ends the chain with a payload
	StepSuccess Step = iota

	// StepContinue moves on to the next provider
	StepContinue

	// StepExhausted ends the chain without a payload
	StepExhausted
)

func (s Step) String() string {
	switch s {
	case StepSuccess:
		return "success"
	case StepContinue:
		return "continue"
	case StepExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Recorder receives one observation per provider attempt
type Recorder interface {
	RecordAttempt(provider string, latency time.Duration, failure *providers.ProviderError)
}

// Outcome is the result of one chain run. A successful outcome still carries
// the failures of the providers tried before the winner.
type Outcome[Out any] struct {
	Operation models.Operation
	Payload   Out
	Provider  string
	Failures  []*providers.ProviderError
	Attempts  int
	Duration  time.Duration
	Stopped   error
}

// Succeeded reports whether a provider returned a payload
func (o *Outcome[Out]) Succeeded() bool {
	return o.Provider != ""
}

// Err returns nil on success, otherwise an *ExhaustedError
func (o *Outcome[Out]) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &ExhaustedError{Operation: o.Operation, Failures: o.Failures, Stopped: o.Stopped}
}

// Chain tries an ordered list of adapters until one succeeds
type Chain[In, Out any] struct {
	operation models.Operation
	adapters  []providers.Adapter[In, Out]
	logger    *zap.Logger
	recorder  Recorder
}

// NewChain creates a chain. Order is priority; names must be unique.
func NewChain[In, Out any](op models.Operation, logger *zap.Logger, adapters ...providers.Adapter[In, Out]) (*Chain[In, Out], error) {
	seen := make(map[string]struct{}, len(adapters))
	for _, a := range adapters {
		if _, dup := seen[a.Name()]; dup {
			return nil, fmt.Errorf("%w: %s in %s chain", ErrDuplicateProvider, a.Name(), op)
		}
		seen[a.Name()] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Chain[In, Out]{
		operation: op,
		adapters:  adapters,
		logger:    logger.With(zap.String("operation", string(op))),
	}, nil
}

// WithRecorder attaches an attempt recorder
func (c *Chain[In, Out]) WithRecorder(r Recorder) *Chain[In, Out] {
	c.recorder = r
	return c
}

// Operation returns the operation served by the chain
func (c *Chain[In, Out]) Operation() models.Operation {
	return c.operation
}

// Providers returns provider names in priority order
func (c *Chain[In, Out]) Providers() []string {
	names := make([]string, 0, len(c.adapters))
	for _, a := range c.adapters {
		names = append(names, a.Name())
	}
	return names
}

// Preflight runs every adapter's configuration check. The first failure is returned.
func (c *Chain[In, Out]) Preflight() error {
	for _, a := range c.adapters {
		p, ok := a.(providers.Preflighter)
		if !ok {
			continue
		}
		if err := p.Preflight(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the chain. The error return is reserved for configuration
// errors found before any network call; provider failures are reported
// through the outcome.
func (c *Chain[In, Out]) Run(ctx context.Context, in In) (*Outcome[Out], error) {
	if err := c.Preflight(); err != nil {
		c.logger.Warn("chain preflight failed", zap.Error(err))
		return nil, err
	}

	out := &Outcome[Out]{Operation: c.operation}
	start := time.Now()

	step := StepExhausted
	for i := range c.adapters {
		if step = c.step(ctx, i, in, out); step != StepContinue {
			break
		}
	}
	out.Duration = time.Since(start)

	if step != StepSuccess {
		c.logger.Warn("provider chain exhausted",
			zap.Int("attempts", out.Attempts),
			zap.Int("providers", len(c.adapters)),
			zap.Duration("duration", out.Duration),
			zap.NamedError("stopped", out.Stopped))
	}
	return out, nil
}

// step attempts adapter i and decides what happens next
func (c *Chain[In, Out]) step(ctx context.Context, i int, in In, out *Outcome[Out]) Step {
	adapter := c.adapters[i]

	if err := ctx.Err(); err != nil {
		out.Stopped = err
		return StepExhausted
	}

	started := time.Now()
	payload, err := adapter.Attempt(ctx, in)
	latency := time.Since(started)
	out.Attempts++

	if err == nil {
		out.Payload = payload
		out.Provider = adapter.Name()
		c.record(adapter.Name(), latency, nil)
		c.logger.Info("provider attempt succeeded",
			zap.String("provider", adapter.Name()),
			zap.Int("position", i),
			zap.Duration("latency", latency))
		return StepSuccess
	}

	failure := c.asFailure(ctx, adapter.Name(), err)
	out.Failures = append(out.Failures, failure)
	c.record(adapter.Name(), latency, failure)
	c.logger.Warn("provider attempt failed",
		zap.String("provider", adapter.Name()),
		zap.Int("position", i),
		zap.String("kind", string(failure.Kind)),
		zap.Int("status_code", failure.StatusCode),
		zap.Duration("latency", latency),
		zap.Error(failure))

	if ctxErr := ctx.Err(); ctxErr != nil {
		out.Stopped = ctxErr
		return StepExhausted
	}
	if i == len(c.adapters)-1 {
		return StepExhausted
	}
	return StepContinue
}

// asFailure guarantees a typed failure even from adapters that return plain errors
func (c *Chain[In, Out]) asFailure(ctx context.Context, name string, err error) *providers.ProviderError {
	if provErr, ok := providers.AsProviderError(err); ok {
		return provErr
	}
	kind := providers.FailureNetwork
	if ctx.Err() != nil {
		kind = providers.FailureTimeout
	}
	return providers.NewProviderError(name, kind, "adapter error", err)
}

func (c *Chain[In, Out]) record(provider string, latency time.Duration, failure *providers.ProviderError) {
	if c.recorder != nil {
		c.recorder.RecordAttempt(provider, latency, failure)
	}
}
