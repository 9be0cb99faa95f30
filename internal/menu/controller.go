package menu

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/mysnippets/internal/apperr"
)

// Controller owns the live snippets menu and serialises every interaction
// with it.
type Controller struct {
	mu   sync.Mutex
	live *Menu
}

// NewController returns a Controller with no live menu.
func NewController() *Controller {
	return &Controller{}
}

// Show builds the snippets menu and shows it near the bottom-right corner
// of the app's viewport. While a menu is live Show changes nothing and
// returns the live menu with shown=false. Registry failures are returned
// and no menu is shown.
func (c *Controller) Show(app *App, plugin *Plugin, settings Settings) (view View, shown bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live != nil {
		return c.live.View(), false, nil
	}

	w, h := app.Viewport.Size()
	anchor := AnchorFor(w, h)

	m := newMenu()
	m.Class = MarkerClass
	if settings.AestheticStyle {
		m.Style = aestheticStyle
	}
	m.report = settings.FailurePolicy.reporter(app)

	names, err := app.Registry.Snippets()
	if err != nil {
		return View{}, false, fmt.Errorf("menu: list snippets: %w", err)
	}
	folder := app.Registry.SnippetsFolder()

	for _, name := range names {
		buildSnippetRow(m, name, app)
	}
	m.addSeparator()
	buildActionsRow(m, app, plugin, folder)

	m.onHide = append(m.onHide, func() {
		if c.live == m {
			c.live = nil
		}
		app.logger().Debug("menu: hidden", slog.String("menu_id", m.ID))
	})
	m.showAtPosition(anchor)
	c.live = m

	app.logger().Debug("menu: shown",
		slog.String("menu_id", m.ID),
		slog.Int("snippets", len(names)),
		slog.Int("x", anchor.X),
		slog.Int("y", anchor.Y))
	return m.View(), true, nil
}

// Live returns a snapshot of the live menu.
func (c *Controller) Live() (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live == nil {
		return View{}, false
	}
	return c.live.View(), true
}

// Click dispatches ev to the live menu. An empty id addresses whichever
// menu is live. It returns the menu as it looks after the click and
// whether the click dismissed it.
func (c *Controller) Click(id string, ev Event) (view View, dismissed bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.lookup(id)
	if err != nil {
		return View{}, false, err
	}
	if err := m.Dispatch(ev); err != nil {
		return View{}, false, err
	}
	return m.View(), m.Hidden(), nil
}

// Dismiss hides the live menu.
func (c *Controller) Dismiss(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.lookup(id)
	if err != nil {
		return err
	}
	m.Hide()
	return nil
}

func (c *Controller) lookup(id string) (*Menu, error) {
	if c.live == nil {
		return nil, apperr.ErrNoMenu
	}
	if id != "" && id != c.live.ID {
		return nil, fmt.Errorf("menu: %s: %w", id, apperr.ErrMenuMismatch)
	}
	return c.live, nil
}
