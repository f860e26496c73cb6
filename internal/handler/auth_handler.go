package handler

import (
	"errors"
	"net/http"

	"github.com/parisxmas/health-index-server/internal/auth"
	"github.com/parisxmas/health-index-server/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMsg(w, http.StatusUnauthorized, "Invalid Credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error during login.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	if claims == nil {
		writeMsg(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       claims.UserID,
		"username": claims.Username,
	})
}
