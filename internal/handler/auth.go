package handler

import (
	"log/slog"
	"net/http"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/service"
)

// AuthHandler handles account endpoints.
type AuthHandler struct {
	errorWriter
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		errorWriter: errorWriter{logger: logger},
		svc:         svc,
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Signup(r.Context(), req.ToInput())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("user_signed_up", "user_id", result.User.ID)

	writeJSON(w, http.StatusCreated, dto.TokenResponse{AccessToken: result.AccessToken})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: result.AccessToken})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if err := h.svc.Logout(r.Context(), identity); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", identity.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
