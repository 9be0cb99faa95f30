// Package snippetservice exposes registry operations to the transports.
package snippetservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/mysnippets/internal/apperr"
	"github.com/starford/mysnippets/internal/models"
	"github.com/starford/mysnippets/internal/parser"
	"github.com/starford/mysnippets/internal/registry"
	"github.com/starford/mysnippets/internal/storage"
)

// Service coordinates the registry and the snippet files.
type Service struct {
	reg   *registry.Registry
	store storage.Provider
}

// NewService creates a new snippet service.
func NewService(reg *registry.Registry, store storage.Provider) *Service {
	return &Service{reg: reg, store: store}
}

// Folder returns the absolute snippets folder.
func (s *Service) Folder() string {
	return s.reg.SnippetsFolder()
}

// List returns every snippet in folder order.
func (s *Service) List(_ context.Context) []models.Snippet {
	return s.reg.List()
}

// Get returns a snippet with its parsed metadata.
func (s *Service) Get(_ context.Context, name string) (*models.SnippetDetail, error) {
	return s.detail(name)
}

// SetEnabled enables or disables a snippet.
func (s *Service) SetEnabled(_ context.Context, name string, enabled bool) (*models.SnippetDetail, error) {
	if err := s.reg.SetEnabled(name, enabled); err != nil {
		return nil, err
	}
	return s.detail(name)
}

// Toggle flips a snippet's enabled state.
func (s *Service) Toggle(_ context.Context, name string) (*models.SnippetDetail, error) {
	if _, err := s.reg.Toggle(name); err != nil {
		return nil, err
	}
	return s.detail(name)
}

// Reload rescans the folder and returns the new listing.
func (s *Service) Reload(_ context.Context) ([]models.Snippet, error) {
	if err := s.reg.RequestReload(); err != nil {
		return nil, err
	}
	return s.reg.List(), nil
}

// Read returns the raw CSS of a known snippet.
func (s *Service) Read(_ context.Context, name string) ([]byte, error) {
	if _, ok := s.reg.File(name); !ok {
		return nil, fmt.Errorf("snippetservice: %q: %w", name, apperr.ErrNotFound)
	}
	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Service) detail(name string) (*models.SnippetDetail, error) {
	file, ok := s.reg.File(name)
	if !ok {
		return nil, fmt.Errorf("snippetservice: %q: %w", name, apperr.ErrNotFound)
	}
	d := &models.SnippetDetail{
		Snippet: models.Snippet{
			Name:    name,
			Path:    file.Path,
			Enabled: s.reg.IsEnabled(name),
		},
		Checksum:  file.Checksum,
		UpdatedAt: file.UpdatedAt,
	}

	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		// Broken metadata must not hide the snippet itself.
		slog.Warn("snippet metadata unreadable", slog.String("name", name), slog.String("error", err.Error()))
		return d, nil
	}
	d.Title = res.Title
	d.Description = res.Description
	d.SettingCount = res.SettingCount()
	if res.Settings != nil {
		d.SettingsID = res.Settings.ID
	}
	return d, nil
}
