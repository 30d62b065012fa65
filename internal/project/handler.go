package project

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// Handler exposes HTTP endpoints for project CRUD. All routes sit behind
// auth.RequireIdentity; the guard runs before any resource data is returned.
//
// Policy, applied uniformly: a resource that does not exist is 404, a
// resource that exists but is not accessible is 403.
type Handler struct {
	svc    *Service
	guard  *auth.Guard
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, guard *auth.Guard, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, guard: guard, logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	p, err := h.svc.Create(r.Context(), identity.ID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	list, err := h.svc.ListByOwner(r.Context(), identity.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []*entity.Project{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadGuarded(w, r, readAccess)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadGuarded(w, r, writeAccess)
	if !ok {
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	updated, err := h.svc.Update(r.Context(), p, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.loadGuarded(w, r, adminAccess)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), p.ID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type accessLevel int

const (
	readAccess accessLevel = iota
	writeAccess
	adminAccess
)

// loadGuarded resolves identity, loads the project by path id and applies
// the guard for the requested access level. Public projects are readable by
// any authenticated user.
func (h *Handler) loadGuarded(w http.ResponseWriter, r *http.Request, level accessLevel) (*auth.Identity, *entity.Project, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	p, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "project not found")
		} else {
			h.writeServiceError(w, err)
		}
		return nil, nil, false
	}
	if level == readAccess && p.IsPublic {
		return identity, p, true
	}
	switch level {
	case readAccess:
		err = h.guard.AuthorizeRead(r.Context(), identity.ID, p.OwnerID, p.ID)
	case writeAccess:
		err = h.guard.Authorize(r.Context(), identity.ID, p.OwnerID, p.ID)
	case adminAccess:
		err = h.guard.AuthorizeAdmin(r.Context(), identity.ID, p.OwnerID, p.ID)
	}
	if err != nil {
		shared.WriteError(w, http.StatusForbidden, "forbidden", "not authorized")
		return nil, nil, false
	}
	return identity, p, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		shared.WriteError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		shared.WriteError(w, http.StatusNotFound, "not_found", "project not found")
	default:
		h.logger.Warnw("project operation failed", "err", err)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
	}
}
