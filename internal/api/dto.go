package api

import (
	"github.com/starford/mysnippets/internal/menu"
	"github.com/starford/mysnippets/internal/models"
)

// SnippetDetail is the full snippet response type (aliased from the domain layer).
type SnippetDetail = models.SnippetDetail

// SnippetListResponse wraps the folder listing.
type SnippetListResponse struct {
	Snippets []models.Snippet `json:"snippets" validate:"required"`
	Folder   string           `json:"folder" example:"/vault/.obsidian/snippets" validate:"required"`
}

// SetEnabledRequest is the request body for enabling or disabling a snippet.
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" example:"true" validate:"required"`
}

// OpenMenuRequest carries the client's viewport size.
type OpenMenuRequest struct {
	Width  int `json:"width" example:"1280"`
	Height int `json:"height" example:"800"`
}

// ClickRequest is one click in menu-local pixels. Target, when set,
// names the clicked element and wins over the position.
type ClickRequest struct {
	X      int    `json:"x" example:"220"`
	Y      int    `json:"y" example:"20"`
	Target string `json:"target,omitempty" example:"row-0/toggle"`
}

// MenuView is the menu snapshot (aliased from the domain layer).
type MenuView = menu.View

// ClickResponse reports the menu after a click.
type ClickResponse struct {
	Dismissed bool     `json:"dismissed"`
	Menu      MenuView `json:"menu"`
}
