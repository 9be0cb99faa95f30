// Package models defines the domain types for MySnippets.
package models

import "time"

// SnippetFile is a CSS snippet as found on disk.
type SnippetFile struct {
	Name      string    `json:"name"` // file stem, without ".css"
	Path      string    `json:"path"` // absolute path
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snippet is a snippet together with its enabled state.
type Snippet struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Enabled bool   `json:"enabled"`
}

// SnippetDetail adds parsed metadata to a Snippet.
type SnippetDetail struct {
	Snippet
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	SettingsID   string    `json:"settings_id,omitempty"`
	SettingCount int       `json:"setting_count"`
	Checksum     string    `json:"checksum"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Change kinds emitted by the registry.
const (
	ChangeAdded    = "added"
	ChangeRemoved  = "removed"
	ChangeUpdated  = "updated"
	ChangeEnabled  = "enabled"
	ChangeDisabled = "disabled"
)

// Change describes one registry mutation.
type Change struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}
