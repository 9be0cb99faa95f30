package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/snippetservice"
	"github.com/starford/mysnippets/internal/testutil"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type recordingOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *recordingOpener) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, path)
	return nil
}

type nopDialog struct{}

func (nopDialog) Open(*menu.App, *menu.Plugin) error { return nil }

type testDeps struct {
	env      *testutil.Env
	svc      *snippetservice.Service
	notifier *recordingNotifier
	opener   *recordingOpener
	router   http.Handler
}

// trustedOrigin is the one cross-origin browser client test routers accept.
const trustedOrigin = "https://app.example"

// testEnv sets up a temp snippets folder, state DB, service, menu
// controller and router. An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) *testDeps {
	t.Helper()
	return testEnvFull(t, authToken != "", authToken, nil)
}

func testEnvFull(t *testing.T, authEnabled bool, authToken string, sseHandler http.Handler) *testDeps {
	t.Helper()
	env := testutil.NewEnv(t, map[string]string{
		"alpha": "/* Alpha */\nbody{}",
		"beta":  "p{}",
	})
	svc := snippetservice.NewService(env.Registry, env.Store)
	n := &recordingNotifier{}
	o := &recordingOpener{}

	app := &menu.App{
		Registry: env.Registry,
		Opener:   o,
		Notifier: n,
		Dialog:   nopDialog{},
		Viewport: menu.FixedViewport{Width: 1280, Height: 800},
	}
	plugin := &menu.Plugin{ID: "mysnippets", Name: "MySnippets", Version: "test"}
	mh := NewMenuHandler(menu.NewController(), app, plugin, menu.Settings{})

	return &testDeps{
		env:      env,
		svc:      svc,
		notifier: n,
		opener:   o,
		router:   NewRouter(svc, mh, n, authEnabled, authToken, []string{trustedOrigin}, sseHandler),
	}
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListSnippets(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodGet, "/snippets", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SnippetListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Snippets) != 2 || resp.Snippets[0].Name != "alpha" || resp.Snippets[1].Name != "beta" {
		t.Errorf("snippets = %+v", resp.Snippets)
	}
	if resp.Folder != d.env.Dir {
		t.Errorf("folder = %q, want %q", resp.Folder, d.env.Dir)
	}
}

func TestGetSnippet(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodGet, "/snippets/alpha", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got SnippetDetail
	json.NewDecoder(w.Body).Decode(&got)
	if got.Title != "Alpha" || got.Checksum == "" {
		t.Errorf("detail = %+v", got)
	}

	w = do(t, d.router, http.MethodGet, "/snippets/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing = %d, want 404", w.Code)
	}
}

func TestSetEnabledAndToggle(t *testing.T) {
	d := testEnv(t, "")

	w := do(t, d.router, http.MethodPut, "/snippets/beta/enabled", map[string]bool{"enabled": true})
	if w.Code != http.StatusOK {
		t.Fatalf("set status = %d, body = %s", w.Code, w.Body.String())
	}
	if !d.env.Registry.IsEnabled("beta") {
		t.Fatal("beta not enabled")
	}

	w = do(t, d.router, http.MethodPost, "/snippets/beta/toggle", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	var got SnippetDetail
	json.NewDecoder(w.Body).Decode(&got)
	if got.Enabled || d.env.Registry.IsEnabled("beta") {
		t.Error("toggle should have disabled beta")
	}
}

func TestSetEnabled_MissingField(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodPut, "/snippets/beta/enabled", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestToggle_NotFound(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodPost, "/snippets/ghost/toggle", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReloadSnippets(t *testing.T) {
	d := testEnv(t, "")
	testutil.WriteSnippet(t, d.env.Dir, "gamma", "a{}")

	w := do(t, d.router, http.MethodPost, "/snippets/reload", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp SnippetListResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Snippets) != 3 {
		t.Errorf("snippets = %d, want 3", len(resp.Snippets))
	}
	if msgs := d.notifier.all(); len(msgs) != 1 || msgs[0] != menu.NoticeReloaded {
		t.Errorf("notices = %v", msgs)
	}
}

func openMenu(t *testing.T, d *testDeps, width, height int) menu.View {
	t.Helper()
	w := do(t, d.router, http.MethodPost, "/menu", OpenMenuRequest{Width: width, Height: height})
	if w.Code != http.StatusCreated {
		t.Fatalf("open status = %d, body = %s", w.Code, w.Body.String())
	}
	var v menu.View
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestOpenMenu(t *testing.T) {
	d := testEnv(t, "")
	v := openMenu(t, d, 1000, 700)

	if v.Anchor != (menu.Point{X: 985, Y: 663}) {
		t.Errorf("anchor = %+v", v.Anchor)
	}
	if v.Class != menu.MarkerClass {
		t.Errorf("class = %q", v.Class)
	}
	// Two snippets, a separator and the actions row.
	if len(v.Rows) != 4 || !v.Rows[2].Separator || v.Rows[3].Title != "Actions" {
		t.Errorf("rows = %+v", v.Rows)
	}

	// A second open while the first is live is a no-op.
	w := do(t, d.router, http.MethodPost, "/menu", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("second open = %d, want 204", w.Code)
	}

	w = do(t, d.router, http.MethodGet, "/menu", nil)
	if w.Code != http.StatusOK {
		t.Errorf("get = %d", w.Code)
	}
}

func TestOpenMenu_DefaultViewport(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodPost, "/menu", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var v menu.View
	json.NewDecoder(w.Body).Decode(&v)
	if v.Anchor != (menu.Point{X: 1265, Y: 763}) {
		t.Errorf("anchor = %+v", v.Anchor)
	}
}

func TestGetMenu_NoneLive(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodGet, "/menu", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestClickToggle(t *testing.T) {
	d := testEnv(t, "")
	v := openMenu(t, d, 1280, 800)

	w := do(t, d.router, http.MethodPost, "/menu/"+v.ID+"/click", ClickRequest{Target: "row-0/toggle"})
	if w.Code != http.StatusOK {
		t.Fatalf("click = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ClickResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Dismissed {
		t.Error("toggle click should keep the menu open")
	}
	if !d.env.Registry.IsEnabled("alpha") {
		t.Error("alpha should be enabled")
	}
	if !resp.Menu.Rows[0].Controls[0].Value {
		t.Error("toggle value should mirror the registry")
	}
}

func TestClickOpenButton(t *testing.T) {
	d := testEnv(t, "")
	v := openMenu(t, d, 1280, 800)

	w := do(t, d.router, http.MethodPost, "/menu/"+v.ID+"/click", ClickRequest{Target: "row-1/open"})
	if w.Code != http.StatusOK {
		t.Fatalf("click = %d", w.Code)
	}
	if len(d.opener.opened) != 1 || !strings.HasSuffix(d.opener.opened[0], "beta.css") {
		t.Errorf("opened = %v", d.opener.opened)
	}
}

func TestClickOutsideDismisses(t *testing.T) {
	d := testEnv(t, "")
	v := openMenu(t, d, 1280, 800)

	w := do(t, d.router, http.MethodPost, "/menu/"+v.ID+"/click", ClickRequest{X: -50, Y: -50})
	if w.Code != http.StatusOK {
		t.Fatalf("click = %d", w.Code)
	}
	var resp ClickResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Dismissed {
		t.Error("click outside should dismiss")
	}
	if w := do(t, d.router, http.MethodGet, "/menu", nil); w.Code != http.StatusNotFound {
		t.Errorf("menu still live after dismissal: %d", w.Code)
	}
	// The next open builds a fresh menu.
	if again := openMenu(t, d, 1280, 800); again.ID == v.ID {
		t.Error("menu id reused")
	}
}

func TestClick_Errors(t *testing.T) {
	d := testEnv(t, "")
	w := do(t, d.router, http.MethodPost, "/menu/nope/click", ClickRequest{})
	if w.Code != http.StatusNotFound {
		t.Errorf("no menu = %d, want 404", w.Code)
	}

	v := openMenu(t, d, 1280, 800)
	w = do(t, d.router, http.MethodPost, "/menu/other/click", ClickRequest{})
	if w.Code != http.StatusNotFound {
		t.Errorf("mismatch = %d, want 404", w.Code)
	}
	w = do(t, d.router, http.MethodPost, "/menu/"+v.ID+"/click", ClickRequest{Target: "row-9/toggle"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad target = %d, want 400", w.Code)
	}
}

func TestDismissMenu(t *testing.T) {
	d := testEnv(t, "")
	v := openMenu(t, d, 1280, 800)

	w := do(t, d.router, http.MethodDelete, "/menu/"+v.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("dismiss = %d", w.Code)
	}
	w = do(t, d.router, http.MethodDelete, "/menu/"+v.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second dismiss = %d, want 404", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	d := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/snippets", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed list = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	d := testEnv(t, "secret123")
	w := do(t, d.router, http.MethodPost, "/menu", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	d := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/snippets", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

// SSE endpoint auth tests.

func blockingSSE() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	d := testEnvFull(t, true, "secret", blockingSSE())
	w := do(t, d.router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	d := testEnvFull(t, true, "tok", blockingSSE())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}

func TestAuthMiddleware_QueryTokenOnlyForGet(t *testing.T) {
	d := testEnv(t, "secret123")

	w := do(t, d.router, http.MethodGet, "/snippets?access_token=secret123", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET with query token = %d, want 200", w.Code)
	}
	w = do(t, d.router, http.MethodPost, "/snippets/reload?access_token=secret123", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("POST with query token = %d, want 401", w.Code)
	}
}
