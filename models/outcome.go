package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutcomeStatus is the terminal state of one chain run
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeDegraded  OutcomeStatus = "degraded"
	OutcomeExhausted OutcomeStatus = "exhausted"
	OutcomeRejected  OutcomeStatus = "rejected" // configuration error, no provider attempted
)

// OperationOutcome is the audit record written for every operation call
type OperationOutcome struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	RequestID string          `json:"request_id" db:"request_id"`
	Operation Operation       `json:"operation" db:"operation"`
	Status    OutcomeStatus   `json:"status" db:"status"`
	Provider  *string         `json:"provider,omitempty" db:"provider"` // nil unless a provider succeeded
	Attempts  int             `json:"attempts" db:"attempts"`
	Failures  json.RawMessage `json:"failures" db:"failures"` // JSONB list of provider failures
	LatencyMs int             `json:"latency_ms" db:"latency_ms"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the OperationOutcome model
func (OperationOutcome) TableName() string {
	return "operation_outcomes"
}

// NewOperationOutcome creates a new OperationOutcome instance
func NewOperationOutcome(requestID string, op Operation, status OutcomeStatus) *OperationOutcome {
	return &OperationOutcome{
		ID:        uuid.New(),
		RequestID: requestID,
		Operation: op,
		Status:    status,
		Failures:  json.RawMessage("[]"),
		CreatedAt: time.Now(),
	}
}

// WithProvider sets the winning provider
func (o *OperationOutcome) WithProvider(provider string) *OperationOutcome {
	if provider != "" {
		o.Provider = &provider
	}
	return o
}

// WithFailures stores the ordered failure list
func (o *OperationOutcome) WithFailures(failures interface{}) *OperationOutcome {
	if data, err := json.Marshal(failures); err == nil && string(data) != "null" {
		o.Failures = data
	}
	return o
}

// WithLatency records the total latency and attempt count
func (o *OperationOutcome) WithLatency(latency time.Duration, attempts int) *OperationOutcome {
	o.LatencyMs = int(latency.Milliseconds())
	o.Attempts = attempts
	return o
}
