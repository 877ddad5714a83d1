package handlers

import (
	"context"
	"net/http"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/repositories"
	"github.com/upb/travel-gateway/services"
	"github.com/upb/travel-gateway/utils"
	"go.uber.org/zap"
)

var outcomeStatuses = []string{
	string(models.OutcomeSucceeded),
	string(models.OutcomeDegraded),
	string(models.OutcomeExhausted),
	string(models.OutcomeRejected),
}

// OutcomeLister reads the audit trail of operation calls
type OutcomeLister interface {
	ListRecent(ctx context.Context, filter repositories.OutcomeFilter) ([]*models.OperationOutcome, error)
}

// OutcomesHandler serves the recent operation outcomes
type OutcomesHandler struct {
	outcomes OutcomeLister
	logger   *zap.Logger
}

// NewOutcomesHandler creates a new OutcomesHandler. outcomes is nil when no
// database is configured.
func NewOutcomesHandler(outcomes OutcomeLister, logger *zap.Logger) *OutcomesHandler {
	return &OutcomesHandler{
		outcomes: outcomes,
		logger:   logger,
	}
}

// HandleListOutcomes handles GET /api/v1/outcomes?limit=&operation=&status=
func (h *OutcomesHandler) HandleListOutcomes(w http.ResponseWriter, r *http.Request) {
	if h.outcomes == nil {
		HandleServiceError(w, services.ErrAuditDisabled, h.logger)
		return
	}

	query := r.URL.Query()
	limit, err := intParam(query.Get("limit"), "limit")
	if err != nil {
		HandleValidationError(w, err, h.logger)
		return
	}
	if limit < 0 {
		_ = utils.WriteBadRequest(w, "limit must not be negative", nil)
		return
	}

	filter := repositories.OutcomeFilter{Limit: limit}
	if name := query.Get("operation"); name != "" {
		op, ok := models.ParseOperation(name)
		if !ok {
			_ = utils.WriteBadRequest(w, "unknown operation", map[string]interface{}{"operations": models.Operations()})
			return
		}
		filter.Operation = op
	}
	if status := query.Get("status"); status != "" {
		if err := utils.ValidateOneOf(status, "status", outcomeStatuses); err != nil {
			HandleValidationError(w, err, h.logger)
			return
		}
		filter.Status = models.OutcomeStatus(status)
	}

	outcomes, err := h.outcomes.ListRecent(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list outcomes", zap.Error(err))
		HandleServiceError(w, services.WrapInternal("failed to list outcomes", err), h.logger)
		return
	}

	if err := utils.WriteOKWithMeta(w, outcomes, map[string]interface{}{"count": len(outcomes)}); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
