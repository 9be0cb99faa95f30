package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/checksum"
	"github.com/starford/mysnippets/internal/models"
)

// Ext is the file extension of snippet files.
const Ext = ".css"

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the snippets folder
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute snippets folder.
func (f *FS) Root() string {
	return f.root
}

// Path maps a snippet name to <root>/<name>.css and rejects names that
// would leave the folder.
func (f *FS) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(f.root, name+Ext), nil
}

// ValidateName reports whether name can be used as a snippet file stem.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("storage: empty name: %w", apperr.ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("storage: %q: %w", name, apperr.ErrInvalidName)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("storage: %q contains a path separator: %w", name, apperr.ErrInvalidName)
	}
	return nil
}

// List reads the folder and returns metadata for every .css file.
// Subdirectories and hidden files are skipped.
func (f *FS) List() ([]models.SnippetFile, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := make([]models.SnippetFile, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("storage: stat %s: %w", name, err)
		}
		p := filepath.Join(f.root, name)
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("storage: read %s: %w", name, err)
		}
		out = append(out, models.SnippetFile{
			Name:      strings.TrimSuffix(name, Ext),
			Path:      p,
			Checksum:  checksum.Of(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Read returns the raw bytes of a snippet file.
func (f *FS) Read(name string) ([]byte, error) {
	p, err := f.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}
