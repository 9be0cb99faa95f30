// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidName  = errors.New("invalid snippet name")
	ErrNoMenu       = errors.New("no live menu")
	ErrMenuMismatch = errors.New("menu id does not match the live menu")
	ErrBadTarget    = errors.New("unknown click target")
)
