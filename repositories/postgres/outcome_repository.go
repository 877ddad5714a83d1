package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/repositories"
	"go.uber.org/zap"
)

const (
	outcomeColumns = "id, request_id, operation, status, provider, attempts, failures, latency_ms, created_at"

	defaultOutcomeLimit = 50
	maxOutcomeLimit     = 500
)

// OutcomeRepository implements the repositories.OutcomeRepository interface
type OutcomeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(db *DB, logger *zap.Logger) repositories.OutcomeRepository {
	return &OutcomeRepository{
		db:     db,
		logger: logger,
	}
}

// Insert inserts a new outcome record
func (r *OutcomeRepository) Insert(ctx context.Context, outcome *models.OperationOutcome) error {
	query := `
		INSERT INTO operation_outcomes (
			id, request_id, operation, status, provider, attempts, failures, latency_ms, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	failures := string(outcome.Failures)
	if failures == "" {
		failures = "[]"
	}

	_, err := r.db.ExecContext(ctx, query,
		outcome.ID,
		outcome.RequestID,
		string(outcome.Operation),
		string(outcome.Status),
		outcome.Provider,
		outcome.Attempts,
		failures,
		outcome.LatencyMs,
		outcome.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation outcome: %w", err)
	}

	r.logger.Debug("operation outcome inserted",
		zap.String("id", outcome.ID.String()),
		zap.String("operation", string(outcome.Operation)),
		zap.String("status", string(outcome.Status)))
	return nil
}

// ListRecent returns the newest outcomes first, filtered by operation and status
func (r *OutcomeRepository) ListRecent(ctx context.Context, filter repositories.OutcomeFilter) ([]*models.OperationOutcome, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Operation != "" {
		args = append(args, string(filter.Operation))
		where = append(where, fmt.Sprintf("operation = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultOutcomeLimit
	}
	if limit > maxOutcomeLimit {
		limit = maxOutcomeLimit
	}
	args = append(args, limit)

	query := "SELECT " + outcomeColumns + " FROM operation_outcomes"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make([]*models.OperationOutcome, 0)
	for rows.Next() {
		var (
			o         models.OperationOutcome
			requestID sql.NullString
			provider  sql.NullString
			failures  []byte
		)
		if err := rows.Scan(
			&o.ID,
			&requestID,
			&o.Operation,
			&o.Status,
			&provider,
			&o.Attempts,
			&failures,
			&o.LatencyMs,
			&o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation outcome: %w", err)
		}
		o.RequestID = requestID.String
		if provider.Valid {
			p := provider.String
			o.Provider = &p
		}
		o.Failures = json.RawMessage(failures)
		outcomes = append(outcomes, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation outcome rows: %w", err)
	}

	return outcomes, nil
}
