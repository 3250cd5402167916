package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
	"github.com/robotica-events/robojudge/internal/metrics"
	"github.com/robotica-events/robojudge/internal/models"
	"github.com/robotica-events/robojudge/internal/reporting"
	"github.com/robotica-events/robojudge/internal/store"
)

const maxUploadBytes = 32 << 20

type AdminHandler struct {
	service *app.Service
}

func NewAdminHandler(service *app.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	dashboard, err := h.service.Reporter.FetchAdminDashboard()
	if err != nil {
		logger.Error.Printf("Failed to fetch dashboard: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load statistics")
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

func (h *AdminHandler) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	staff, err := h.service.Store.ListStaff()
	if err != nil {
		logger.Error.Printf("Failed to list staff: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list staff")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"staff": staff})
}

func (h *AdminHandler) HandleCreateStaff(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	var req struct {
		Name     string          `json:"name"`
		Email    string          `json:"email"`
		Password string          `json:"password"`
		Category models.Category `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	staff, err := h.service.CreateStaff(req.Name, req.Email, req.Password, req.Category)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "Staff email already exists")
		return
	}
	if errors.Is(err, models.ErrInvalidCategory) {
		writeError(w, http.StatusBadRequest, "Unknown category")
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to create staff: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to create staff")
		return
	}

	writeJSON(w, http.StatusCreated, staff)
}

func (h *AdminHandler) HandleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid staff id")
		return
	}

	if err := h.service.Store.DeleteStaff(id); err != nil {
		logger.Error.Printf("Failed to delete staff %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete staff")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted"})
}

func (h *AdminHandler) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	participants, err := h.service.Store.ListParticipants()
	if err != nil {
		logger.Error.Printf("Failed to list participants: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list participants")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"participants": participants})
}

func (h *AdminHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
	}()

	if requireAdmin(w, r, h.service.Auth) == nil {
		status = http.StatusUnauthorized
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "Invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		status = http.StatusBadRequest
		writeError(w, status, "Missing spreadsheet file")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".xlsx") && !strings.HasSuffix(header.Filename, ".xls") {
		status = http.StatusBadRequest
		writeError(w, status, "Please upload a valid Excel file (.xlsx or .xls)")
		return
	}

	report, err := h.service.Importer.ImportXLSX(file)
	if err != nil {
		logger.Error.Printf("Import of %s failed: %v", header.Filename, err)
		status = http.StatusUnprocessableEntity
		writeError(w, status, "Failed to import file")
		return
	}

	writeJSON(w, status, report)
}

func (h *AdminHandler) HandleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid participant id")
		return
	}

	if err := h.service.Store.DeleteParticipant(id); err != nil {
		logger.Error.Printf("Failed to delete participant %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete participant")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted"})
}

func (h *AdminHandler) HandleReports(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	filter := r.URL.Query().Get("category")
	evaluations, err := h.service.Reporter.Evaluations(filter)
	if errors.Is(err, reporting.ErrUnknownCategory) {
		writeError(w, http.StatusBadRequest, "Unknown category filter")
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to fetch report: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load reports")
		return
	}

	stats, err := h.service.Reporter.CategoryStats()
	if err != nil {
		logger.Error.Printf("Failed to fetch stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load statistics")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"evaluations": evaluations,
		"stats":       stats,
	})
}

func (h *AdminHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if requireAdmin(w, r, h.service.Auth) == nil {
		return
	}

	filter := r.URL.Query().Get("category")
	data, err := h.service.Reporter.ExportXLSX(filter)
	if errors.Is(err, reporting.ErrUnknownCategory) {
		writeError(w, http.StatusBadRequest, "Unknown category filter")
		return
	}
	if err != nil {
		logger.Error.Printf("Export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export evaluations")
		return
	}

	if filter == "" {
		filter = "all"
	}
	filename := fmt.Sprintf(
		"robojudge_evaluations_%s_%s.xlsx",
		filter,
		time.Now().UTC().Format("20060102_150405"),
	)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error.Printf("Failed to stream export: %v", err)
	}
}
