package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinechat/backend/internal/middleware"
	authService "github.com/cinechat/backend/internal/service/auth"
	"github.com/cinechat/backend/pkg/utils"
)

// Handler exposes registration, login, token check and logout.
type Handler struct {
	authSvc      *authService.Service
	secureCookie bool
}

// New builds the auth handler. secureCookie marks the auth cookie Secure
// (production deployments behind TLS).
func New(authSvc *authService.Service, secureCookie bool) *Handler {
	return &Handler{authSvc: authSvc, secureCookie: secureCookie}
}

// RegisterRoutes mounts the auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Get("/auth/check", h.handleCheck)
	r.Post("/auth/logout", h.handleLogout)
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID, token, err := h.authSvc.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrCredentialsRequired):
			utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password required")
		case errors.Is(err, authService.ErrInvalidEmail):
			utils.RespondFail(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email")
		case errors.Is(err, authService.ErrWeakPassword):
			utils.RespondFail(w, http.StatusBadRequest, "VALIDATION_ERROR", "Weak password")
		case errors.Is(err, authService.ErrEmailTaken):
			utils.RespondFail(w, http.StatusConflict, "EMAIL_EXISTS", "Email already in use")
		default:
			utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	h.setAuthCookie(w, token)
	utils.RespondOK(w, http.StatusCreated, map[string]string{"userId": userID})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}

	userID, token, err := h.authSvc.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrCredentialsRequired):
			utils.RespondFail(w, http.StatusBadRequest, "BAD_REQUEST", "Email and password required")
		case errors.Is(err, authService.ErrInvalidCredentials):
			utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		default:
			utils.RespondFail(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		}
		return
	}

	h.setAuthCookie(w, token)
	utils.RespondOK(w, http.StatusOK, map[string]string{"userId": userID})
}

// handleCheck reports whether the caller holds a valid token. It never
// fails; an absent or invalid token is just {auth:false}.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	raw := middleware.TokenFromRequest(r)
	if raw == "" {
		utils.RespondOK(w, http.StatusOK, map[string]bool{"auth": false})
		return
	}
	_, err := h.authSvc.VerifyToken(raw)
	utils.RespondOK(w, http.StatusOK, map[string]bool{"auth": err == nil})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	utils.RespondOK(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authSvc.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
