// Package testutil provides shared test helpers for setting up snippet
// folders, state databases and registries.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mysnippets/internal/registry"
	"github.com/starford/mysnippets/internal/state"
	"github.com/starford/mysnippets/internal/storage"
)

// Env bundles a temporary snippets setup.
type Env struct {
	Dir      string
	Store    *storage.FS
	State    *state.DB
	Registry *registry.Registry
}

// WriteSnippet writes <dir>/<name>.css.
func WriteSnippet(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+storage.Ext), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// NewEnv creates a snippets folder holding files (name → CSS), a state
// database and a registry, all cleaned up with the test.
func NewEnv(t *testing.T, files map[string]string, opts ...registry.Option) *Env {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		WriteSnippet(t, dir, name, content)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	db, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	reg, err := registry.New(store, db, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return &Env{Dir: dir, Store: store, State: db, Registry: reg}
}
