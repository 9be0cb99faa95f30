package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// originPolicy decides which browser origins may drive the API. Requests
// without an Origin header come from non-browser clients and always pass.
type originPolicy struct {
	allowed map[string]struct{}
}

func newOriginPolicy(origins []string) *originPolicy {
	p := &originPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o = normalizeOrigin(o); o != "" {
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

// sameHost reports whether origin names the host the request was sent to.
func sameHost(origin string, r *http.Request) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

func (p *originPolicy) listed(origin string) bool {
	_, ok := p.allowed[normalizeOrigin(origin)]
	return ok
}

// allows is also the WebSocket upgrader's CheckOrigin.
func (p *originPolicy) allows(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return sameHost(origin, r) || p.listed(origin)
}

// Middleware refuses state-changing requests and WebSocket upgrades from
// foreign origins. Safe reads still pass but get no CORS headers, so the
// browser keeps the response from the page. Listed origins get CORS
// headers and their preflights answered.
func (p *originPolicy) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || sameHost(origin, r) {
			next.ServeHTTP(w, r)
			return
		}

		if p.listed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Last-Event-ID")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		safe := r.Method == http.MethodGet || r.Method == http.MethodHead
		if safe && !websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		writeJSON(w, http.StatusForbidden, errorBody("origin not allowed"))
	})
}
