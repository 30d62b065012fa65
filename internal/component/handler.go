package component

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/ai"
	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/component/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/metrics"
	projectentity "github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// ProjectLoader fetches the owning project so component access follows
// project ownership. Satisfied by the project service.
type ProjectLoader interface {
	Get(ctx context.Context, id string) (*projectentity.Project, error)
}

// Handler exposes component endpoints. A component is reachable only
// through its owning project: 404 when project or component is missing,
// 403 when the project exists but the caller has no access.
type Handler struct {
	svc      *Service
	projects ProjectLoader
	guard    *auth.Guard
	logger   *zap.SugaredLogger
}

func NewHandler(svc *Service, projects ProjectLoader, guard *auth.Guard, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, projects: projects, guard: guard, logger: logger}
}

// ListByProject handles GET /projects/{id}/components.
func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.guardProject(w, r, r.PathValue("id"), false)
	if !ok {
		return
	}
	list, err := h.svc.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if list == nil {
		list = []*entity.Component{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// Create handles POST /projects/{id}/components.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, p, ok := h.guardProject(w, r, r.PathValue("id"), true)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	c, err := h.svc.Create(r.Context(), identity.ID, p.ID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, c)
}

// Generate handles POST /projects/{id}/components/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	identity, p, ok := h.guardProject(w, r, r.PathValue("id"), true)
	if !ok {
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	c, err := h.svc.Generate(r.Context(), identity.ID, p.ID, in)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			metrics.RecordGeneration("unconfigured")
			shared.WriteError(w, http.StatusServiceUnavailable, "unavailable", "generation backend not configured")
			return
		}
		metrics.RecordGeneration("error")
		h.writeServiceError(w, err)
		return
	}
	metrics.RecordGeneration("ok")
	shared.WriteJSON(w, http.StatusCreated, c)
}

// Update handles PUT /components/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, c, ok := h.loadGuardedComponent(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid payload")
		return
	}
	updated, err := h.svc.Update(r.Context(), identity.ID, c, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /components/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.loadGuardedComponent(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), c.ID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// guardProject loads the project and applies read or write access.
func (h *Handler) guardProject(w http.ResponseWriter, r *http.Request, projectID string, write bool) (*auth.Identity, *projectentity.Project, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	p, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "project not found")
		} else {
			h.writeServiceError(w, err)
		}
		return nil, nil, false
	}
	if write {
		err = h.guard.Authorize(r.Context(), identity.ID, p.OwnerID, p.ID)
	} else if !p.IsPublic {
		err = h.guard.AuthorizeRead(r.Context(), identity.ID, p.OwnerID, p.ID)
	}
	if err != nil {
		shared.WriteError(w, http.StatusForbidden, "forbidden", "not authorized")
		return nil, nil, false
	}
	return identity, p, true
}

// loadGuardedComponent resolves a component by path id and applies write
// access on its owning project.
func (h *Handler) loadGuardedComponent(w http.ResponseWriter, r *http.Request) (*auth.Identity, *entity.Component, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	c, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "component not found")
		} else {
			h.writeServiceError(w, err)
		}
		return nil, nil, false
	}
	p, err := h.projects.Get(r.Context(), c.ProjectID)
	if err != nil {
		// orphaned component: treat as missing
		shared.WriteError(w, http.StatusNotFound, "not_found", "component not found")
		return nil, nil, false
	}
	if err := h.guard.Authorize(r.Context(), identity.ID, p.OwnerID, p.ID); err != nil {
		shared.WriteError(w, http.StatusForbidden, "forbidden", "not authorized")
		return nil, nil, false
	}
	return identity, c, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		shared.WriteError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, shared.ErrQuotaExceeded):
		shared.WriteError(w, http.StatusTooManyRequests, "quota_exceeded", "daily edit quota exceeded")
	case errors.Is(err, shared.ErrNotFound):
		shared.WriteError(w, http.StatusNotFound, "not_found", "component not found")
	default:
		h.logger.Warnw("component operation failed", "err", err)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
	}
}
