package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/menu"
)

// Client → server types.
const (
	wsOpen    = "open"
	wsClick   = "click"
	wsDismiss = "dismiss"
)

// Server → client types.
const (
	wsMenu   = "menu"
	wsClosed = "closed"
	wsError  = "error"
)

type wsMessage struct {
	Type   string `json:"type"`
	MenuID string `json:"menu_id,omitempty"`

	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Target string `json:"target,omitempty"`

	Shown     bool       `json:"shown,omitempty"`
	Dismissed bool       `json:"dismissed,omitempty"`
	Menu      *menu.View `json:"menu,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Socket handles GET /api/menu/ws: the open, click and dismiss calls over
// one WebSocket. Every request gets exactly one reply.
func (h *MenuHandler) Socket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("menu socket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := conn.WriteJSON(h.handleSocket(msg)); err != nil {
			return
		}
	}
}

func (h *MenuHandler) handleSocket(msg wsMessage) wsMessage {
	switch msg.Type {
	case wsOpen:
		app := h.app
		if msg.Width > 0 && msg.Height > 0 {
			app = app.WithViewport(menu.FixedViewport{Width: msg.Width, Height: msg.Height})
		}
		view, shown, err := h.ctl.Show(app, h.plugin, h.settings)
		if err != nil {
			return socketError(err)
		}
		return wsMessage{Type: wsMenu, MenuID: view.ID, Shown: shown, Menu: &view}

	case wsClick:
		ev := menu.Event{Pos: menu.Point{X: msg.X, Y: msg.Y}, Target: msg.Target}
		view, dismissed, err := h.ctl.Click(msg.MenuID, ev)
		if err != nil {
			return socketError(err)
		}
		return wsMessage{Type: wsMenu, MenuID: view.ID, Dismissed: dismissed, Menu: &view}

	case wsDismiss:
		if err := h.ctl.Dismiss(msg.MenuID); err != nil {
			return socketError(err)
		}
		return wsMessage{Type: wsClosed, MenuID: msg.MenuID}
	}
	return wsMessage{Type: wsError, Error: "unknown message type " + msg.Type}
}

func socketError(err error) wsMessage {
	switch {
	case errors.Is(err, apperr.ErrNoMenu), errors.Is(err, apperr.ErrMenuMismatch):
		return wsMessage{Type: wsError, Error: "menu not found"}
	case errors.Is(err, apperr.ErrBadTarget):
		return wsMessage{Type: wsError, Error: "unknown click target"}
	}
	slog.Error("menu socket failed", slog.String("error", err.Error()))
	return wsMessage{Type: wsError, Error: "internal error"}
}
