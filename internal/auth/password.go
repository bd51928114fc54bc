// FilePath: internal/auth/password.go
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemePlain  = "plain"
)

// PasswordVerifier hashes new passwords and checks candidates against stored values.
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) bool
}

// NewVerifier returns the verifier for scheme; unknown schemes fall back to bcrypt.
func NewVerifier(scheme string) PasswordVerifier {
	if strings.EqualFold(scheme, SchemePlain) {
		return PlainVerifier{}
	}
	return BcryptVerifier{Cost: bcrypt.DefaultCost}
}

// BcryptVerifier stores bcrypt hashes. Stored values that are not bcrypt hashes
// are legacy plaintext records and are compared as such.
type BcryptVerifier struct {
	Cost int
}

func (v BcryptVerifier) Hash(password string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (v BcryptVerifier) Verify(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if !IsBcryptHash(stored) {
		return constantTimeEqual(stored, candidate)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}

// PlainVerifier keeps passwords as-is. Only for demo deployments.
type PlainVerifier struct{}

func (PlainVerifier) Hash(password string) (string, error) {
	return password, nil
}

func (PlainVerifier) Verify(stored, candidate string) bool {
	if stored == "" {
		return false
	}
	if IsBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return constantTimeEqual(stored, candidate)
}

// IsBcryptHash reports whether s looks like a bcrypt hash.
func IsBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
