package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashOwner returns a path-safe, stable directory name for an owner id such
// as "guest:abc". Raw owner ids never appear in storage keys.
func HashOwner(owner string) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])
}
