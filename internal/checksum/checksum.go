package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the hex-encoded sha256 of data. Dataset uploads are
// keyed on this digest so identical bytes resolve to one dataset.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Matches reports whether data hashes to the expected digest.
func Matches(data []byte, expected string) bool {
	return expected != "" && Digest(data) == expected
}
