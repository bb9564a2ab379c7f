// Package fingerprint derives the dedup identity key for a headline.
//
// The hash covers the title only. Two items with identical titles but
// different bodies collide on purpose: upstream feeds routinely re-publish
// the same headline with amended bodies, and treating those as one event is
// the accepted trade-off (it does mean near-duplicate headlines with
// materially different bodies are missed).
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the SHA-256 digest of the raw headline text as lowercase hex.
// It is deterministic across calls and process restarts.
func Hash(title string) string {
	sum := sha256.Sum256([]byte(title))
	return hex.EncodeToString(sum[:])
}
