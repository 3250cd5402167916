package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
	"github.com/robotica-events/robojudge/internal/judging"
	"github.com/robotica-events/robojudge/internal/metrics"
)

type JudgingHandler struct {
	service *app.Service
}

func NewJudgingHandler(service *app.Service) *JudgingHandler {
	return &JudgingHandler{service: service}
}

func (h *JudgingHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	principal := requireStaff(w, r, h.service.Auth)
	if principal == nil {
		return
	}

	dashboard, err := h.service.Reporter.FetchStaffDashboard(*principal)
	if err != nil {
		logger.Error.Printf("Failed to fetch staff dashboard: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// HandleProbe is the pre-submission check behind the scanner screen.
func (h *JudgingHandler) HandleProbe(w http.ResponseWriter, r *http.Request) {
	principal := requireStaff(w, r, h.service.Auth)
	if principal == nil {
		return
	}

	externalID := r.PathValue("external_id")
	if externalID == "" {
		writeError(w, http.StatusBadRequest, "Missing participant id")
		return
	}

	result, err := h.service.Judge.Probe(*principal, externalID)
	if err != nil {
		logger.Error.Printf("Probe failed for %s: %v", externalID, err)
		writeError(w, http.StatusInternalServerError, "Failed to look up participant")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *JudgingHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	}()

	principal := requireStaff(w, r, h.service.Auth)
	if principal == nil {
		status = http.StatusUnauthorized
		return
	}

	var sub judging.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "Invalid request body")
		return
	}

	eval, err := h.service.Judge.Submit(*principal, sub)
	if err != nil {
		var mismatch *judging.CategoryMismatchError
		switch {
		case errors.Is(err, judging.ErrNoCriteria):
			status = http.StatusBadRequest
			writeError(w, status, "No criteria submitted")
		case errors.Is(err, judging.ErrNotFound):
			status = http.StatusNotFound
			writeError(w, status, "Participant not found")
		case errors.As(err, &mismatch):
			status = http.StatusConflict
			writeJSON(w, status, map[string]interface{}{
				"error":                "category mismatch",
				"participant_category": mismatch.ParticipantCategory.Label(),
				"staff_category":       mismatch.StaffCategory.Label(),
			})
		case errors.Is(err, judging.ErrAlreadyEvaluated):
			status = http.StatusConflict
			writeError(w, status, "Participant already evaluated. Re-evaluation is not allowed")
		default:
			logger.Error.Printf("Evaluation submit failed: %v", err)
			status = http.StatusInternalServerError
			writeError(w, status, "Failed to submit evaluation")
		}
		return
	}

	writeJSON(w, status, eval)
}
