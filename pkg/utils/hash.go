package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewAPIKey creates a random user api key together with the hash that is
// stored instead of the key.
func NewAPIKey() (key, hash string) {
	key = strings.ReplaceAll(uuid.NewString(), "-", "")
	return key, HashAPIKey(key)
}

// HashAPIKey identifies a user by api key. Keys are random, so a plain
// unsalted hash is sufficient and keeps the lookup by hash possible.
func HashAPIKey(arg string) string {
	sum := sha256.Sum256([]byte(arg))
	return hex.EncodeToString(sum[:])
}
