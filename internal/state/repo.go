package state

import (
	"fmt"
	"time"
)

// Enabled returns the names of every snippet currently marked enabled.
func (db *DB) Enabled() (map[string]bool, error) {
	rows, err := db.conn.Query(`SELECT name FROM snippet_state WHERE enabled = 1`)
	if err != nil {
		return nil, fmt.Errorf("state: enabled: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

// SetEnabled records the enabled flag for name.
func (db *DB) SetEnabled(name string, enabled bool) error {
	flag := 0
	if enabled {
		flag = 1
	}
	_, err := db.conn.Exec(`
		INSERT INTO snippet_state (name, enabled, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			enabled    = excluded.enabled,
			updated_at = excluded.updated_at
	`, name, flag, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("state: set enabled %s: %w", name, err)
	}
	return nil
}
