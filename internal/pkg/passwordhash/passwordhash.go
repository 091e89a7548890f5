// Package passwordhash implements salted PBKDF2-SHA256 password hashing.
//
// The encoded form is "pbkdf2:sha256:<iterations>$<salt>$<hex digest>",
// which keeps stored hashes verifiable regardless of how the iteration
// count changes over time.
package passwordhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	method     = "pbkdf2:sha256"
	iterations = 600000
	saltBytes  = 16
	keyLen     = 32
)

var ErrMalformedHash = errors.New("malformed password hash")

// Hash derives a salted hash of password with a fresh random salt.
func Hash(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt failed: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", method, iterations, salt, hex.EncodeToString(key)), nil
}

// Verify reports whether password matches the encoded hash. Malformed
// encodings return ErrMalformedHash; a plain mismatch returns false, nil.
func Verify(encoded, password string) (bool, error) {
	prefix := method + ":"
	if !strings.HasPrefix(encoded, prefix) {
		return false, ErrMalformedHash
	}

	parts := strings.Split(strings.TrimPrefix(encoded, prefix), "$")
	if len(parts) != 3 || parts[1] == "" {
		return false, ErrMalformedHash
	}

	iter, err := strconv.Atoi(parts[0])
	if err != nil || iter <= 0 {
		return false, ErrMalformedHash
	}

	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := pbkdf2.Key([]byte(password), []byte(parts[1]), iter, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
