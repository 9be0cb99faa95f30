// Package registry tracks the known snippets and which of them are enabled.
//
// The registry keeps an ordered snapshot of the snippets folder in memory
// and writes enabled-state changes through to the state store. Every
// mutation is reported to an optional change hook after the lock is
// released, so hooks may call back into the registry.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/models"
	"github.com/starford/mysnippets/internal/state"
	"github.com/starford/mysnippets/internal/storage"
)

// ChangeFunc receives registry mutations.
type ChangeFunc func(models.Change)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithChangeHook registers fn to be called after every mutation.
func WithChangeHook(fn ChangeFunc) Option {
	return func(r *Registry) {
		r.hooks = append(r.hooks, fn)
	}
}

// Registry is the in-process snippet registry.
type Registry struct {
	store  storage.Provider
	state  state.Store
	logger *slog.Logger
	hooks  []ChangeFunc

	// reloadMu orders whole reloads, listing included, so an older
	// listing never replaces a newer snapshot.
	reloadMu sync.Mutex

	mu      sync.RWMutex
	names   []string
	files   map[string]models.SnippetFile
	enabled map[string]bool
}

// New loads the snippets folder and the persisted enabled set.
func New(store storage.Provider, st state.Store, opts ...Option) (*Registry, error) {
	r := &Registry{
		store:   store,
		state:   st,
		logger:  slog.Default(),
		files:   map[string]models.SnippetFile{},
		enabled: map[string]bool{},
	}
	for _, opt := range opts {
		opt(r)
	}

	enabled, err := st.Enabled()
	if err != nil {
		return nil, fmt.Errorf("registry: load state: %w", err)
	}
	r.enabled = enabled

	if _, err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// OnChange registers another change hook. Not safe to call concurrently
// with mutations; wire hooks before serving.
func (r *Registry) OnChange(fn ChangeFunc) {
	r.hooks = append(r.hooks, fn)
}

// Snippets returns the snippet names in folder order.
func (r *Registry) Snippets() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names), nil
}

// List returns every snippet with its current enabled state.
func (r *Registry) List() []models.Snippet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Snippet, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, models.Snippet{
			Name:    n,
			Path:    r.files[n].Path,
			Enabled: r.enabled[n],
		})
	}
	return out
}

// File returns the on-disk metadata for name.
func (r *Registry) File(name string) (models.SnippetFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[name]
	return f, ok
}

// IsEnabled reports whether name is enabled right now.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// SetEnabled persists the enabled flag for a known snippet.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	change, err := r.setLocked(name, enabled)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if change != nil {
		r.emit(*change)
	}
	return nil
}

// Toggle flips the enabled flag of name and returns the new value.
// The read and the write happen under one lock.
func (r *Registry) Toggle(name string) (bool, error) {
	r.mu.Lock()
	next := !r.enabled[name]
	change, err := r.setLocked(name, next)
	r.mu.Unlock()
	if err != nil {
		return false, err
	}
	if change != nil {
		r.emit(*change)
	}
	return next, nil
}

func (r *Registry) setLocked(name string, enabled bool) (*models.Change, error) {
	if _, ok := r.files[name]; !ok {
		return nil, fmt.Errorf("registry: snippet %q: %w", name, apperr.ErrNotFound)
	}
	if r.enabled[name] == enabled {
		return nil, nil
	}
	if err := r.state.SetEnabled(name, enabled); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	if enabled {
		r.enabled[name] = true
	} else {
		delete(r.enabled, name)
	}
	kind := models.ChangeDisabled
	if enabled {
		kind = models.ChangeEnabled
	}
	r.logger.Info("registry: snippet state changed", slog.String("name", name), slog.String("state", kind))
	return &models.Change{Kind: kind, Name: name}, nil
}

// SnippetPath resolves name to its file path.
func (r *Registry) SnippetPath(name string) (string, error) {
	return r.store.Path(name)
}

// SnippetsFolder returns the absolute snippets folder.
func (r *Registry) SnippetsFolder() string {
	return r.store.Root()
}

// RequestReload rescans the snippets folder.
func (r *Registry) RequestReload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	changes, err := r.reload()
	if err != nil {
		return err
	}
	r.logger.Debug("registry: reloaded", slog.Int("changes", len(changes)))
	for _, c := range changes {
		r.emit(c)
	}
	return nil
}

// reload lists the folder and swaps in the new snapshot, returning what
// changed. Enabled state of vanished snippets is kept so a snippet that is
// renamed back keeps its setting.
func (r *Registry) reload() ([]models.Change, error) {
	files, err := r.store.List()
	if err != nil {
		return nil, fmt.Errorf("registry: reload: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]models.SnippetFile, len(files))
	names := make([]string, 0, len(files))
	var changes []models.Change
	for _, f := range files {
		next[f.Name] = f
		names = append(names, f.Name)
		old, ok := r.files[f.Name]
		switch {
		case !ok:
			changes = append(changes, models.Change{Kind: models.ChangeAdded, Name: f.Name})
		case old.Checksum != f.Checksum:
			changes = append(changes, models.Change{Kind: models.ChangeUpdated, Name: f.Name})
		}
	}
	for _, n := range r.names {
		if _, ok := next[n]; !ok {
			changes = append(changes, models.Change{Kind: models.ChangeRemoved, Name: n})
		}
	}
	r.names = names
	r.files = next
	return changes, nil
}

func (r *Registry) emit(c models.Change) {
	for _, fn := range r.hooks {
		fn(c)
	}
}
