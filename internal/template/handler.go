package template

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template/entity"
)

// Handler exposes the template catalog. List and Get are public; Create,
// Update and Delete require an authenticated caller, and only the creator
// may modify a template.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// List handles GET /templates?category=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Warnw("list templates failed", "err", err)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
		return
	}
	if list == nil {
		list = []*entity.Template{}
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

// Get handles GET /templates/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, t)
}

// Create handles POST /templates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	t, err := h.svc.Create(r.Context(), identity.ID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, t)
}

// Update handles PUT /templates/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	_, t, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "validation", "invalid request body")
		return
	}
	updated, err := h.svc.Update(r.Context(), t.ID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /templates/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	_, t, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), t.ID); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*auth.Identity, *entity.Template, bool) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return nil, nil, false
	}
	t, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return nil, nil, false
	}
	if t.CreatorID != identity.ID {
		shared.WriteError(w, http.StatusForbidden, "forbidden", "not authorized")
		return nil, nil, false
	}
	return identity, t, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		shared.WriteError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		shared.WriteError(w, http.StatusNotFound, "not_found", "template not found")
	case errors.Is(err, ErrVersionConflict):
		shared.WriteError(w, http.StatusConflict, "conflict", "template was modified concurrently")
	default:
		h.logger.Warnw("template operation failed", "err", err)
		shared.WriteError(w, http.StatusInternalServerError, "internal", "operation failed")
	}
}
