package models

import (
	"encoding/hex"
	"time"
)

// FileRecord describes a candidate file discovered during the walk.
// Immutable once created; stages hand it off without copying content.
type FileRecord struct {
	Path      string    // Absolute path
	Name      string    // Base name
	Size      int64     // Size in bytes
	ModTime   time.Time // Modification time
	IsSymlink bool      // Entry was reached through a symlink
}

// FingerprintSize is the digest length in bytes (SHA-256).
const FingerprintSize = 32

// Fingerprint identifies file content by its full-content digest.
type Fingerprint [FingerprintSize]byte

// String returns the fingerprint as lowercase hex.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}
