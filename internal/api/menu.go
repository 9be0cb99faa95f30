package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/menu"
)

// MenuHandler serves the live snippets menu.
type MenuHandler struct {
	ctl      *menu.Controller
	app      *menu.App
	plugin   *menu.Plugin
	settings menu.Settings
	upgrader websocket.Upgrader
}

// NewMenuHandler creates a MenuHandler. app.Viewport is used when a
// client does not report its own size. The menu socket accepts same-host
// origins only until NewRouter installs its origin policy.
func NewMenuHandler(ctl *menu.Controller, app *menu.App, plugin *menu.Plugin, settings menu.Settings) *MenuHandler {
	return &MenuHandler{ctl: ctl, app: app, plugin: plugin, settings: settings}
}

// Open handles POST /api/menu.
//
//	@Summary		Show the snippets menu
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OpenMenuRequest	false	"Client viewport"
//	@Success		201		{object}	MenuView
//	@Success		204		"A menu is already showing"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/menu [post]
func (h *MenuHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenMenuRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("width and height must not be negative"))
		return
	}

	app := h.app
	if req.Width > 0 && req.Height > 0 {
		app = app.WithViewport(menu.FixedViewport{Width: req.Width, Height: req.Height})
	}
	view, shown, err := h.ctl.Show(app, h.plugin, h.settings)
	if err != nil {
		slog.Error("open menu failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !shown {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/menu.
//
//	@Summary		Get the live snippets menu
//	@Tags			menu
//	@Produce		json
//	@Success		200	{object}	MenuView
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/menu [get]
func (h *MenuHandler) Get(w http.ResponseWriter, _ *http.Request) {
	view, ok := h.ctl.Live()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("no menu is showing"))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Click handles POST /api/menu/{id}/click.
//
//	@Summary		Deliver a click to the live menu
//	@Tags			menu
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Menu id"
//	@Param			body	body		ClickRequest		true	"Click position or target"
//	@Success		200		{object}	ClickResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/menu/{id}/click [post]
func (h *MenuHandler) Click(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ClickRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ev := menu.Event{Pos: menu.Point{X: req.X, Y: req.Y}, Target: req.Target}
	view, dismissed, err := h.ctl.Click(id, ev)
	if err != nil {
		writeMenuError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, ClickResponse{Dismissed: dismissed, Menu: view})
}

// Dismiss handles DELETE /api/menu/{id}.
//
//	@Summary		Hide the live menu
//	@Tags			menu
//	@Param			id	path	string	true	"Menu id"
//	@Success		204	"Menu hidden"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/menu/{id} [delete]
func (h *MenuHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.ctl.Dismiss(id); err != nil {
		writeMenuError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeMenuError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNoMenu), errors.Is(err, apperr.ErrMenuMismatch):
		writeJSON(w, http.StatusNotFound, errorBody("menu not found"))
	case errors.Is(err, apperr.ErrBadTarget):
		writeJSON(w, http.StatusBadRequest, errorBody("unknown click target"))
	default:
		slog.Error("menu click failed", slog.String("menu_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
