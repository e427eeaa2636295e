package auth

import (
	"bytes"
	"testing"
)

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	salt := bytes.Repeat([]byte{0x5a}, SaltLen)
	h1 := HashPassword("s3cret", salt)
	h2 := HashPassword("s3cret", salt)
	if !bytes.Equal(h1, h2) {
		t.Fatal("same password and salt must derive identical hashes")
	}
	if len(h1) != 128 {
		t.Fatalf("derived key length = %d, want 128", len(h1))
	}
}

func TestHashPassword_SaltSensitive(t *testing.T) {
	t.Parallel()

	s1 := bytes.Repeat([]byte{0x01}, SaltLen)
	s2 := bytes.Repeat([]byte{0x02}, SaltLen)
	if bytes.Equal(HashPassword("s3cret", s1), HashPassword("s3cret", s2)) {
		t.Fatal("different salts must derive different hashes")
	}
}

func TestGenerateHashedPair_VerifiesThroughBlob(t *testing.T) {
	t.Parallel()

	hash, salt, err := GenerateHashedPair("pw1")
	if err != nil {
		t.Fatalf("GenerateHashedPair error: %v", err)
	}
	if len(salt) != SaltLen {
		t.Fatalf("salt length = %d, want %d", len(salt), SaltLen)
	}

	blob := CredentialBlob(hash, salt)
	if !bytes.Equal(blob[:SaltLen], salt) {
		t.Fatal("blob must begin with the salt")
	}
	if !VerifyPassword(blob, "pw1") {
		t.Fatal("correct password must verify")
	}
	if VerifyPassword(blob, "pw2") {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifyPassword_TruncatedBlob(t *testing.T) {
	t.Parallel()

	if VerifyPassword(make([]byte, SaltLen), "anything") {
		t.Fatal("blob without a hash portion must not verify")
	}
	if VerifyPassword(nil, "anything") {
		t.Fatal("nil blob must not verify")
	}
}
