package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/snippetservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// notifier, if non-nil, receives the reload notice.
// allowedOrigins lists the browser origins, besides the server's own host,
// that may change state or open the menu socket.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *snippetservice.Service, menus *MenuHandler, notifier menu.Notifier, authEnabled bool, token string, allowedOrigins []string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, notifier)

	origins := newOriginPolicy(allowedOrigins)

	r := chi.NewRouter()
	r.Use(origins.Middleware)
	r.Use(AuthMiddleware(authEnabled, token))

	// Snippets.
	r.Get("/snippets", h.ListSnippets)
	r.Post("/snippets/reload", h.ReloadSnippets)
	r.Get("/snippets/{name}", h.GetSnippet)
	r.Put("/snippets/{name}/enabled", h.SetEnabled)
	r.Post("/snippets/{name}/toggle", h.ToggleSnippet)

	// Menu.
	if menus != nil {
		menus.upgrader.CheckOrigin = origins.allows
		r.Post("/menu", menus.Open)
		r.Get("/menu", menus.Get)
		r.Get("/menu/ws", menus.Socket)
		r.Post("/menu/{id}/click", menus.Click)
		r.Delete("/menu/{id}", menus.Dismiss)
	}

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
