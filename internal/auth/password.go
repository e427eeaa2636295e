package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/pbkdf2"
)

// Password hashing parameters. Credential blobs in the database were
// produced with exactly these values, so they must never change
// without a migration of every stored credential.
const (
	SaltLen    = 32     // leading bytes of every credential blob
	hashIter   = 100000 // PBKDF2 iteration count
	hashKeyLen = 128    // derived key length in bytes
)

// HashPassword derives the password hash for a given salt using
// PBKDF2-HMAC-SHA256. It is deterministic: the same password and salt
// always produce the same bytes, which is the basis of verification.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, hashIter, hashKeyLen, sha256.New)
}

// GenerateHashedPair draws a fresh random salt and derives the hash
// for a new credential. Callers persist the two as a single blob,
// salt first (see CredentialBlob).
func GenerateHashedPair(password string) (hash, salt []byte, err error) {
	salt = make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	return HashPassword(password, salt), salt, nil
}

// CredentialBlob packs a salt and hash into the stored form: the salt
// occupies the first SaltLen bytes, the hash the rest.
func CredentialBlob(hash, salt []byte) []byte {
	blob := make([]byte, 0, len(salt)+len(hash))
	blob = append(blob, salt...)
	return append(blob, hash...)
}

// VerifyPassword re-slices a stored credential blob, recomputes the
// hash for the candidate password and compares in constant time.
func VerifyPassword(blob []byte, password string) bool {
	if len(blob) <= SaltLen {
		return false
	}
	salt, stored := blob[:SaltLen], blob[SaltLen:]
	return subtle.ConstantTimeCompare(HashPassword(password, salt), stored) == 1
}
