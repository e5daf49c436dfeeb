package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken returns a high-entropy plaintext token and its SHA-256
// hash. Only the hash is ever persisted; the plaintext goes to the user
// out-of-band.
func GenerateResetToken() (plaintext string, hashed string, err error) {
	buf := make([]byte, ResetTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	plaintext = hex.EncodeToString(buf)
	return plaintext, HashToken(plaintext), nil
}

// HashToken is the one-way transform applied before a reset token is stored
// or matched.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
