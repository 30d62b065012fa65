package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/user/entity"
)

// Handler exposes HTTP endpoints for account operations (register / login).
type Handler struct {
	svc    *Service
	issuer *auth.Issuer
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, issuer *auth.Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, issuer: issuer, logger: logger}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	u, err := h.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			h.writeError(w, http.StatusBadRequest, "validation", "invalid email or password")
		case errors.Is(err, shared.ErrConflict):
			h.writeError(w, http.StatusConflict, "conflict", "email already registered")
		default:
			h.logger.Warnw("register failed", "err", err)
			h.writeError(w, http.StatusInternalServerError, "internal", "registration failed")
		}
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

// LoginRequest login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the public user view.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrBadCredentials) {
			h.writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid credentials")
			return
		}
		h.logger.Warnw("login failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}
	token, err := h.issuer.Issue(u.ID)
	if err != nil {
		h.logger.Errorw("token issuance failed", "err", err)
		h.writeError(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: u})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	shared.WriteJSON(w, status, v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, kind, msg string) {
	shared.WriteError(w, status, kind, msg)
}
