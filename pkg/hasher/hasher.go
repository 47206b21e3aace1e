// Package hasher computes content digests of uploaded documents.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// SHA256Hex streams r through SHA-256 and returns the lowercase hex digest.
// Byte-identical inputs always produce the same digest, which is what the
// duplicate-document checks rely on.
func SHA256Hex(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash document: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
