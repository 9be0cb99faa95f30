package menu

import "log/slog"

// Registry is the snippet registry the menu reads from and writes to.
type Registry interface {
	Snippets() ([]string, error)
	IsEnabled(name string) bool
	SetEnabled(name string, enabled bool) error
	SnippetPath(name string) (string, error)
	SnippetsFolder() string
	RequestReload() error
}

// Opener opens a path with the operating system's default application.
type Opener interface {
	Open(path string) error
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string)
}

// Dialog opens the modal flow for creating a new snippet.
type Dialog interface {
	Open(app *App, plugin *Plugin) error
}

// Viewport reports the size of the area the menu is shown in.
type Viewport interface {
	Size() (width, height int)
}

// FixedViewport is a Viewport of constant size.
type FixedViewport struct {
	Width  int
	Height int
}

// Size implements Viewport.
func (v FixedViewport) Size() (int, int) {
	return v.Width, v.Height
}

// App bundles the host collaborators a menu talks to.
type App struct {
	Registry Registry
	Opener   Opener
	Notifier Notifier
	Dialog   Dialog
	Viewport Viewport
	Logger   *slog.Logger
}

// WithViewport returns a shallow copy of a bound to another viewport.
func (a *App) WithViewport(v Viewport) *App {
	cp := *a
	cp.Viewport = v
	return &cp
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Plugin identifies the plugin instance that owns the menu.
type Plugin struct {
	ID      string
	Name    string
	Version string
}

// Settings are the user settings the menu honours.
type Settings struct {
	AestheticStyle bool
	FailurePolicy  FailurePolicy
}
