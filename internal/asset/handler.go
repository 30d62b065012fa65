package asset

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/asset/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	projectentity "github.com/appforge/service-builder-go-stdlib/internal/project/entity"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// ProjectLoader fetches the owning project for access checks. Satisfied by
// the project service.
type ProjectLoader interface {
	Get(ctx context.Context, id string) (*projectentity.Project, error)
}

// Handler exposes asset endpoints: multipart upload, listing per project
// and deletion. Access follows the owning project, same policy as
// components: missing is 404, inaccessible is 403.
type Handler struct {
	svc      *Service
	projects ProjectLoader
	guard    *auth.Guard
	logger   *zap.SugaredLogger
}

func NewHandler(svc *Service, projects ProjectLoader, guard *auth.Guard, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, projects: projects, guard: guard, logger: logger}
}

// Upload handles POST /projects/{id}/assets (multipart form, field "file").
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.guardProject(w, r, r.PathValue("id"), true)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+4096)
	file, header, err := r.FormFile("file")
	if err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	a, err := h.svc.Upload(r.Context(), p.ID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			shared.WriteError(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		h.logger.Warnw("asset upload failed", "err", err, "project", p.ID)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "upload failed")
		return
	}
	shared.WriteJSON(w, http.StatusCreated, a)
}

// ListByProject handles GET /projects/{id}/assets.
func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	_, p, ok := h.guardProject(w, r, r.PathValue("id"), false)
	if !ok {
		return
	}
	list, err := h.svc.ListByProject(r.Context(), p.ID)
	if err != nil {
		h.logger.Warnw("list assets failed", "err", err, "project", p.ID)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		return
	}
	if list == nil {
		list = []*entity.Asset{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// Get handles GET /assets/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	_, a, ok := h.loadGuardedAsset(w, r, false)
	if !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /assets/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, a, ok := h.loadGuardedAsset(w, r, true)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), a); err != nil {
		h.logger.Warnw("delete asset failed", "err", err, "asset", a.ID)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

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
			h.logger.Warnw("load project failed", "err", err)
			shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
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

func (h *Handler) loadGuardedAsset(w http.ResponseWriter, r *http.Request, write bool) (*auth.Identity, *entity.Asset, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	a, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			shared.WriteError(w, http.StatusNotFound, "not_found", "asset not found")
		} else {
			h.logger.Warnw("load asset failed", "err", err)
			shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		}
		return nil, nil, false
	}
	p, err := h.projects.Get(r.Context(), a.ProjectID)
	if err != nil {
		shared.WriteError(w, http.StatusNotFound, "not_found", "asset not found")
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
	return identity, a, true
}
