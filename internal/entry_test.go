package internal

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Snippets.Folder = filepath.Join(dir, "vault", ".obsidian", "snippets")
	cfg.Snippets.StatePath = filepath.Join(dir, "state.db")
	return cfg
}

func TestSetupCreatesFolderAndLoadsSnippets(t *testing.T) {
	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.Snippets.Folder, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Snippets.Folder, "dark.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := setup([]Option{WithConfig(cfg), WithVersion("1.2.3"), WithLogOutput(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	defer c.db.Close()

	names, _ := c.reg.Snippets()
	if len(names) != 1 || names[0] != "dark" {
		t.Errorf("snippets = %v", names)
	}
	if c.plugin.Version != "1.2.3" || c.plugin.ID != pluginID {
		t.Errorf("plugin = %+v", c.plugin)
	}

	app := c.menuApp(nil, nil)
	w, h := app.Viewport.Size()
	if w != 1280 || h != 800 {
		t.Errorf("viewport = %dx%d", w, h)
	}
}

func TestSetupMissingFolderIsCreated(t *testing.T) {
	cfg := testConfig(t)
	c, err := setup([]Option{WithConfig(cfg), WithLogOutput(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	defer c.db.Close()
	if fi, err := os.Stat(cfg.Snippets.Folder); err != nil || !fi.IsDir() {
		t.Errorf("folder not created: %v", err)
	}
}

func TestSetupRequiresConfig(t *testing.T) {
	if _, err := setup(nil); err == nil {
		t.Fatal("setup without config should fail")
	}
}

func TestSetupRejectsBadPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Menu.FailurePolicy = "shout"
	if _, err := setup([]Option{WithConfig(cfg), WithLogOutput(io.Discard)}); err == nil {
		t.Fatal("setup should fail on unknown failure policy")
	}
}
