package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// LoginTokenBytes is the entropy of an issued login token; the hex form is twice as long.
const LoginTokenBytes = 32

// HashLoginToken generates a SHA256 hash of a login token. Only the hash is stored.
func HashLoginToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	return hex.EncodeToString(hasher.Sum(nil))
}
