package state

// Store defines the enabled-state persistence operations.
// The registry depends on this interface rather than *DB so tests can
// swap in failing or in-memory stores.
type Store interface {
	Enabled() (map[string]bool, error)
	SetEnabled(name string, enabled bool) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
