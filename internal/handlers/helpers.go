package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
	"github.com/robotica-events/robojudge/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}

// authenticate resolves the caller or writes a 401.
func authenticate(w http.ResponseWriter, r *http.Request, auth *app.Auth) *models.Principal {
	principal, err := auth.Authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return nil
	}
	return principal
}

func requireAdmin(w http.ResponseWriter, r *http.Request, auth *app.Auth) *models.Principal {
	principal := authenticate(w, r, auth)
	if principal == nil {
		return nil
	}
	if !principal.IsAdmin() {
		writeError(w, http.StatusForbidden, "Admin access required")
		return nil
	}
	return principal
}

func requireStaff(w http.ResponseWriter, r *http.Request, auth *app.Auth) *models.Principal {
	principal := authenticate(w, r, auth)
	if principal == nil {
		return nil
	}
	if !principal.IsStaff() {
		writeError(w, http.StatusForbidden, "Staff access required")
		return nil
	}
	return principal
}
