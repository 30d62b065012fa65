package collab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/collab/entity"
	projectentity "github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// ProjectLoader fetches a project so the handler can check ownership.
// Satisfied by the project service.
type ProjectLoader interface {
	Get(ctx context.Context, id string) (*projectentity.Project, error)
}

// Handler manages collaborator grants on a project. Adding and removing is
// restricted to the owner or an admin collaborator; listing requires read
// access.
type Handler struct {
	svc      *Service
	projects ProjectLoader
	guard    *auth.Guard
	logger   *zap.SugaredLogger
}

func NewHandler(svc *Service, projects ProjectLoader, guard *auth.Guard, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, projects: projects, guard: guard, logger: logger}
}

// AddRequest request body for granting a collaborator role.
type AddRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	identity, p, ok := h.loadGuarded(w, r, true)
	if !ok {
		return
	}
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	c, err := h.svc.Add(r.Context(), p.ID, p.OwnerID, req.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			shared.WriteError(w, http.StatusBadRequest, "validation", err.Error())
		case errors.Is(err, shared.ErrConflict):
			shared.WriteError(w, http.StatusConflict, "conflict", "already a collaborator")
		default:
			h.logger.Warnw("add collaborator failed", "err", err, "project", p.ID, "actor", identity.ID)
			shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		}
		return
	}
	shared.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadGuarded(w, r, true)
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), p.ID, r.PathValue("userID")); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "collaborator not found")
			return
		}
		h.logger.Warnw("remove collaborator failed", "err", err, "project", p.ID)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadGuarded(w, r, false)
	if !ok {
		return
	}
	list, err := h.svc.List(r.Context(), p.ID)
	if err != nil {
		h.logger.Warnw("list collaborators failed", "err", err, "project", p.ID)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		return
	}
	if list == nil {
		list = []*entity.Collaborator{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, admin bool) (*auth.Identity, *projectentity.Project, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	p, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "project not found")
		} else {
			h.logger.Warnw("load project failed", "err", err)
			shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		}
		return nil, nil, false
	}
	if admin {
		err = h.guard.AuthorizeAdmin(r.Context(), identity.ID, p.OwnerID, p.ID)
	} else {
		err = h.guard.AuthorizeRead(r.Context(), identity.ID, p.OwnerID, p.ID)
	}
	if err != nil {
		shared.WriteError(w, http.StatusForbidden, "forbidden", "not authorized")
		return nil, nil, false
	}
	return identity, p, true
}
