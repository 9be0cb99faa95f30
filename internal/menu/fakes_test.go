package menu

import (
	"errors"
	"path/filepath"
)

type setCall struct {
	name    string
	enabled bool
}

type fakeRegistry struct {
	names      []string
	enabled    map[string]bool
	folder     string
	listErr    error
	setErr     error
	reloadErr  error
	setCalls   []setCall
	reloads    int
	pathLookup int
}

func newFakeRegistry(names ...string) *fakeRegistry {
	return &fakeRegistry{
		names:   names,
		enabled: map[string]bool{},
		folder:  "/vault/.obsidian/snippets",
	}
}

func (f *fakeRegistry) Snippets() ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.names...), nil
}

func (f *fakeRegistry) IsEnabled(name string) bool { return f.enabled[name] }

func (f *fakeRegistry) SetEnabled(name string, enabled bool) error {
	f.setCalls = append(f.setCalls, setCall{name, enabled})
	if f.setErr != nil {
		return f.setErr
	}
	f.enabled[name] = enabled
	return nil
}

func (f *fakeRegistry) SnippetPath(name string) (string, error) {
	f.pathLookup++
	if name == "" {
		return "", errors.New("empty name")
	}
	return filepath.Join(f.folder, name+".css"), nil
}

func (f *fakeRegistry) SnippetsFolder() string { return f.folder }

func (f *fakeRegistry) RequestReload() error {
	f.reloads++
	return f.reloadErr
}

type fakeOpener struct {
	opened []string
	err    error
}

func (o *fakeOpener) Open(path string) error {
	o.opened = append(o.opened, path)
	return o.err
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

type dialogCall struct {
	app    *App
	plugin *Plugin
}

type fakeDialog struct {
	calls []dialogCall
	err   error
}

func (d *fakeDialog) Open(app *App, plugin *Plugin) error {
	d.calls = append(d.calls, dialogCall{app, plugin})
	return d.err
}

type harness struct {
	reg      *fakeRegistry
	opener   *fakeOpener
	notifier *fakeNotifier
	dialog   *fakeDialog
	app      *App
	plugin   *Plugin
	ctrl     *Controller
}

func newHarness(names ...string) *harness {
	h := &harness{
		reg:      newFakeRegistry(names...),
		opener:   &fakeOpener{},
		notifier: &fakeNotifier{},
		dialog:   &fakeDialog{},
		plugin:   &Plugin{ID: "mysnippets", Name: "MySnippets", Version: "test"},
		ctrl:     NewController(),
	}
	h.app = &App{
		Registry: h.reg,
		Opener:   h.opener,
		Notifier: h.notifier,
		Dialog:   h.dialog,
		Viewport: FixedViewport{Width: 1280, Height: 800},
	}
	return h
}

// show opens the menu with default settings and returns the live *Menu.
func (h *harness) show(settings Settings) *Menu {
	if _, shown, err := h.ctrl.Show(h.app, h.plugin, settings); err != nil || !shown {
		panic("harness: menu not shown")
	}
	return h.ctrl.live
}
