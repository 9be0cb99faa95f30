package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/models"
	"github.com/starford/mysnippets/internal/snippetservice"
)

// Handler holds snippet route handlers.
type Handler struct {
	svc      *snippetservice.Service
	notifier menu.Notifier
}

// NewHandler creates a new Handler.
func NewHandler(svc *snippetservice.Service, notifier menu.Notifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// ListSnippets handles GET /api/snippets.
//
//	@Summary		List snippets in folder order
//	@Tags			snippets
//	@Produce		json
//	@Success		200		{object}	SnippetListResponse
//	@Security		BearerAuth
//	@Router			/snippets [get]
func (h *Handler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SnippetListResponse{
		Snippets: nonNil(h.svc.List(r.Context())),
		Folder:   h.svc.Folder(),
	})
}

// GetSnippet handles GET /api/snippets/{name}.
//
//	@Summary		Get a snippet with its parsed metadata
//	@Tags			snippets
//	@Produce		json
//	@Param			name	path		string	true	"Snippet name"
//	@Success		200		{object}	SnippetDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{name} [get]
func (h *Handler) GetSnippet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, err := h.svc.Get(r.Context(), name)
	if err != nil {
		writeSnippetError(w, "get snippet failed", name, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// SetEnabled handles PUT /api/snippets/{name}/enabled.
//
//	@Summary		Enable or disable a snippet
//	@Tags			snippets
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string				true	"Snippet name"
//	@Param			body	body		SetEnabledRequest	true	"Desired state"
//	@Success		200		{object}	SnippetDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{name}/enabled [put]
func (h *Handler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req SetEnabledRequest
	if err := decodeJSON(w, r, &req, false); err != nil || req.Enabled == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("enabled is required"))
		return
	}
	d, err := h.svc.SetEnabled(r.Context(), name, *req.Enabled)
	if err != nil {
		writeSnippetError(w, "set enabled failed", name, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ToggleSnippet handles POST /api/snippets/{name}/toggle.
//
//	@Summary		Flip a snippet's enabled state
//	@Tags			snippets
//	@Produce		json
//	@Param			name	path		string	true	"Snippet name"
//	@Success		200		{object}	SnippetDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/snippets/{name}/toggle [post]
func (h *Handler) ToggleSnippet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	d, err := h.svc.Toggle(r.Context(), name)
	if err != nil {
		writeSnippetError(w, "toggle snippet failed", name, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ReloadSnippets handles POST /api/snippets/reload.
//
//	@Summary		Rescan the snippets folder
//	@Tags			snippets
//	@Produce		json
//	@Success		200		{object}	SnippetListResponse
//	@Security		BearerAuth
//	@Router			/snippets/reload [post]
func (h *Handler) ReloadSnippets(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Reload(r.Context())
	if err != nil {
		slog.Error("reload snippets failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if h.notifier != nil {
		h.notifier.Notify(menu.NoticeReloaded)
	}
	writeJSON(w, http.StatusOK, SnippetListResponse{
		Snippets: nonNil(list),
		Folder:   h.svc.Folder(),
	})
}

func writeSnippetError(w http.ResponseWriter, msg, name string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid snippet name"))
	default:
		slog.Error(msg, slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func nonNil(list []models.Snippet) []models.Snippet {
	if list == nil {
		return []models.Snippet{}
	}
	return list
}
