// Package checksum fingerprints snippet contents so reloads can tell
// edited files from untouched ones.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Of returns the hex-encoded SHA-256 digest of data.
func Of(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short trims a digest to the first 12 characters for display.
func Short(sum string) string {
	if len(sum) <= 12 {
		return sum
	}
	return sum[:12]
}
