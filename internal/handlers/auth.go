package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
)

type AuthHandler struct {
	service *app.Service
}

func NewAuthHandler(service *app.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.service.Auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		logger.Error.Printf("Login failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":     session.Token,
		"principal": session.Principal,
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get(h.service.Config.Auth.TokenHeader)
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Missing token")
		return
	}

	if err := h.service.Auth.Logout(r.Context(), token); err != nil {
		logger.Error.Printf("Logout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "logged out"})
}
