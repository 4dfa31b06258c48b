package primitives

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Fingerprint computes a deterministic content hash of a snapshot's slices.
// Version and timestamp are excluded, so equal snapshots share a fingerprint.
// Slices that cannot be JSON encoded yield an "unhashable-<version>" marker.
func Fingerprint(snap Snapshot) string {
	data, err := json.Marshal(snap.Map())
	if err != nil {
		return fmt.Sprintf("unhashable-%d", snap.Version())
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
