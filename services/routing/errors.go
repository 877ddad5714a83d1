package routing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
)

// ErrDuplicateProvider is returned when a chain lists the same provider twice
var ErrDuplicateProvider = errors.New("provider appears more than once in chain")

// ExhaustedError is returned when no provider in a chain succeeded
type ExhaustedError struct {
	Operation models.Operation
	Failures  []*providers.ProviderError

	// Stopped is the caller's context error when the chain ended early
	Stopped error
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}

	msg := fmt.Sprintf("all %d providers failed for %s: [%s]", len(e.Failures), e.Operation, strings.Join(parts, "; "))
	if e.Stopped != nil {
		msg += fmt.Sprintf(" (chain stopped: %v)", e.Stopped)
	}
	return msg
}

// Unwrap exposes the individual provider failures to errors.Is / errors.As
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	if e.Stopped != nil {
		errs = append(errs, e.Stopped)
	}
	return errs
}

// IsExhausted checks if an error is a chain exhaustion
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
