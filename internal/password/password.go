// Package password derives and verifies salted scrypt credentials.
//
// A credential is stored as hex(digest) + "." + hex(salt). The salt is
// random per hash, so two hashes of the same password never collide.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen   = 16
	keyLen    = 64
	scryptN   = 32768
	scryptR   = 8
	scryptP   = 1
	separator = "."
)

// Hash derives a credential string from a plaintext password.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(digest) + separator + hex.EncodeToString(salt), nil
}

// Verify reports whether password matches the stored credential. Malformed
// credentials (missing separator, bad hex) fail closed and return false.
// The digest comparison runs in constant time.
func Verify(password, encoded string) bool {
	digestHex, saltHex, ok := strings.Cut(encoded, separator)
	if !ok {
		return false
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	derived, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(digest, derived) == 1
}
