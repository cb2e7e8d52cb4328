// Package handlers holds the HTTP handlers fronting the lead pipeline.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/blueoakrealty/website-backend/internal/leads"
	"github.com/blueoakrealty/website-backend/internal/pipeline"
	"github.com/blueoakrealty/website-backend/pkg/logging"
)

// LeadProcessor dispatches a validated lead to the delivery channels.
type LeadProcessor interface {
	Process(ctx context.Context, lead *leads.Lead) pipeline.AggregateResult
}

// LeadsHandler handles form submissions from the marketing site.
type LeadsHandler struct {
	processor LeadProcessor
	logger    *logging.Logger
}

// NewLeadsHandler creates a new leads handler
func NewLeadsHandler(processor LeadProcessor, logger *logging.Logger) *LeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadsHandler{
		processor: processor,
		logger:    logger,
	}
}

// CreateLead handles POST /api/leads. Invalid submissions get field-level
// errors and never reach the pipeline. Valid submissions always get a
// thank-you response, even when every channel fails; operators watch the
// logs for that.
func (h *LeadsHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var sub leads.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("failed to decode lead submission", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lead, fieldErrs := leads.ValidateSubmission(sub)
	if fieldErrs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
		return
	}

	result := h.processor.Process(r.Context(), lead)
	if !result.Success {
		h.logger.Warn("lead accepted but no critical channel delivered",
			"email", lead.Email,
			"crm_error", result.Results.CRM.Error,
			"email_error", result.Results.Email.Error,
		)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "received"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
