package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type sample struct {
	Name     string        `yaml:"name"`
	Debounce time.Duration `yaml:"debounce"`
	Port     int           `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaultsAndExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "snippets")
	path := writeFile(t, "name: ${SAMPLE_NAME}\ndebounce: 50ms\n")

	s := &sample{Port: 8080}
	if err := Load(path, s); err != nil {
		t.Fatal(err)
	}
	if s.Name != "snippets" || s.Debounce != 50*time.Millisecond || s.Port != 8080 {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoadValidates(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	err := Load(path, &sample{})
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "port: 1\nprot: 2\n")
	if err := Load(path, &sample{}); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "")
	s := &sample{Port: 9}
	if err := Load(path, s); err != nil {
		t.Fatal(err)
	}
	if s.Port != 9 {
		t.Errorf("port = %d", s.Port)
	}
}

func TestLoadOptional(t *testing.T) {
	s := &sample{Port: 1}
	read, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), s)
	if err != nil || read {
		t.Fatalf("missing file: read=%v err=%v", read, err)
	}

	read, err = LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"), &sample{})
	if err == nil || read {
		t.Errorf("missing file should still validate: read=%v err=%v", read, err)
	}

	path := writeFile(t, "port: 3\n")
	read, err = LoadOptional(path, s)
	if err != nil || !read || s.Port != 3 {
		t.Errorf("present file: read=%v err=%v port=%d", read, err, s.Port)
	}
}
