package handlers

import (
	"net/http"
	"time"

	"github.com/robotica-events/robojudge/internal/app"
)

type HealthHandler struct {
	service *app.Service
}

func NewHealthHandler(service *app.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if err := h.service.Store.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	payload := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	}

	if counts, err := h.service.Store.FetchRegistryCounts(); err == nil {
		payload["counts"] = counts
	}

	writeJSON(w, http.StatusOK, payload)
}
