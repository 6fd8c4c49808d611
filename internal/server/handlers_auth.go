package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/auth"
	"github.com/desertthunder/shelf/internal/shared"
)

// AuthHandler serves registration, login, logout and the current-user lookup.
type AuthHandler struct {
	svc    *auth.Service
	cfg    shared.AuthConfig
	logger *log.Logger
}

func NewAuthHandler(svc *auth.Service, cfg shared.AuthConfig, logger *log.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg, logger: logger}
}

func (h *AuthHandler) Routes() []string {
	return []string{
		"POST /auth/register",
		"POST /auth/login",
		"GET /auth/me",
		"POST /auth/logout",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "POST /auth/register":
		h.register(w, r)
	case "POST /auth/login":
		h.login(w, r)
	case "GET /auth/me":
		h.me(w, r)
	case "POST /auth/logout":
		h.logout(w, r)
	default:
		writeJSON(w, http.StatusNotFound, envelope{"success": false, "error": "not found"})
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := h.svc.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, envelope{"userId": id})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		MaxAge:   int(time.Until(res.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, envelope{"sessionToken": res.Token, "user": res.User})
}

// me resolves the token itself so a deleted user answers 404 rather than 401.
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == "" {
		token = sessionToken(r, h.cfg.CookieName)
	}

	user, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, envelope{"success": false, "error": "user not found"})
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, envelope{"user": user.Public()})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())
	if token == "" {
		token = sessionToken(r, h.cfg.CookieName)
	}

	if err := h.svc.Logout(r.Context(), token); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeSuccess(w, http.StatusOK, nil)
}
