package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-auth/pkg/auth"
	apperrors "github.com/tendant/simple-auth/pkg/errors"
	tg "github.com/tendant/simple-auth/pkg/tokengenerator"
)

const (
	userCreatedMessage   = "User created successfully!"
	twoFARequiredMessage = "2FA required"
	unexpectedMessage    = "Unexpected error"
	invalidBodyMessage   = "Invalid request body"
)

var errMissingField = apperrors.New(apperrors.ErrCodeMalformedRequest, "Missing required field")

// Handle contains dependencies for HTTP handlers
type Handle struct {
	authService  *auth.AuthService
	cookieSetter tg.CookieSetter
}

func NewHandle(authService *auth.AuthService, cookieSetter tg.CookieSetter) *Handle {
	return &Handle{
		authService:  authService,
		cookieSetter: cookieSetter,
	}
}

// Routes returns a router serving the auth endpoints
func (h *Handle) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all auth routes
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/verify-2fa", h.VerifyTwoFA)
	r.Post("/logout", h.Logout)
	r.Post("/verify-token", h.VerifyToken)
}

// Signup handles POST /signup
func (h *Handle) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Email == nil || req.Password == nil || req.Requires2FA == nil {
		writeError(w, r, errMissingField)
		return
	}

	err := h.authService.Signup(r.Context(), auth.SignupRequest{
		Email:       *req.Email,
		Password:    *req.Password,
		Requires2FA: *req.Requires2FA,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, MessageResponse{Message: userCreatedMessage})
}

// Login handles POST /login
func (h *Handle) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Email == nil || req.Password == nil {
		writeError(w, r, errMissingField)
		return
	}

	result, err := h.authService.Login(r.Context(), auth.LoginRequest{
		Email:    *req.Email,
		Password: *req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if result.RequiresTwoFA {
		render.Status(r, http.StatusPartialContent)
		render.JSON(w, r, TwoFactorAuthResponse{
			Message:        twoFARequiredMessage,
			LoginAttemptID: result.LoginAttemptID.String(),
		})
		return
	}

	h.cookieSetter.SetCookie(w, result.Session.Token, result.Session.ExpiresAt)
	w.WriteHeader(http.StatusOK)
}

// VerifyTwoFA handles POST /verify-2fa
func (h *Handle) VerifyTwoFA(w http.ResponseWriter, r *http.Request) {
	var req VerifyTwoFARequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Email == nil || req.LoginAttemptID == nil || req.TwoFACode == nil {
		writeError(w, r, errMissingField)
		return
	}

	session, err := h.authService.VerifyTwoFA(r.Context(), auth.VerifyTwoFARequest{
		Email:          *req.Email,
		LoginAttemptID: *req.LoginAttemptID,
		TwoFACode:      *req.TwoFACode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookieSetter.SetCookie(w, session.Token, session.ExpiresAt)
	w.WriteHeader(http.StatusOK)
}

// Logout handles POST /logout. The token comes from the session cookie.
func (h *Handle) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), jwtauth.TokenFromCookie(r)); err != nil {
		writeError(w, r, err)
		return
	}

	h.cookieSetter.ClearCookie(w)
	w.WriteHeader(http.StatusOK)
}

// VerifyToken handles POST /verify-token
func (h *Handle) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Token == nil {
		writeError(w, r, errMissingField)
		return
	}

	if _, err := h.authService.VerifyToken(r.Context(), *req.Token); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Info("Failed to decode request body", "path", r.URL.Path, "error", err)
		writeError(w, r, apperrors.Wrap(err, apperrors.ErrCodeMalformedRequest, invalidBodyMessage))
		return false
	}
	return true
}

// writeError maps a service error to its status and client-safe message
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.MapErrorCodeToHTTPStatus(apperrors.GetCode(err))
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: apperrors.GetMessage(err, unexpectedMessage)})
}
