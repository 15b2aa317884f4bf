package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the fixed work factor used for every stored digest.
const bcryptCost = 8

// HashPassword produces a salted one-way digest of the plaintext. The
// plaintext is never logged or returned.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored digest.
func CheckPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
