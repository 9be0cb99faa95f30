// Package storage defines the snippet folder abstraction.
package storage

import "github.com/starford/mysnippets/internal/models"

// Provider is the interface for snippet folder access.
type Provider interface {
	// Root returns the absolute path of the snippets folder.
	Root() string
	// List returns every .css file directly inside the folder, in directory order.
	List() ([]models.SnippetFile, error)
	// Read returns the raw bytes of the named snippet.
	Read(name string) ([]byte, error)
	// Path resolves a snippet name to its absolute file path.
	Path(name string) (string, error)
}
