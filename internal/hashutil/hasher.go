// Package hashutil provides the content-addressing primitive used by the
// chunker and the doc-sync manager to identify text without persisting it.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HexDigest returns the SHA-256 hex digest of text's UTF-8 bytes.
func HexDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
