package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword("hunter2", hash) {
		t.Error("correct password should verify")
	}
	if VerifyPassword("hunter3", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (embedded salt)")
	}
	if !VerifyPassword("same-password", h1) || !VerifyPassword("same-password", h2) {
		t.Error("both salted hashes should verify")
	}
}

func TestLongPasswordsTruncateAt72Bytes(t *testing.T) {
	prefix := strings.Repeat("a", 72)
	p1 := prefix + "tail-one"
	p2 := prefix + "tail-two"

	hash, err := HashPassword(p1)
	if err != nil {
		t.Fatalf("hash long password: %v", err)
	}

	// Passwords identical in their first 72 bytes verify against each
	// other's hash.
	if !VerifyPassword(p2, hash) {
		t.Error("passwords sharing the first 72 bytes should verify interchangeably")
	}

	// A difference inside the first 72 bytes still matters.
	different := strings.Repeat("b", 72)
	if VerifyPassword(different, hash) {
		t.Error("password differing within 72 bytes should not verify")
	}
}

func TestVerifyMalformedDigest(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-digest") {
		t.Error("malformed digest should verify false")
	}
	if VerifyPassword("anything", "") {
		t.Error("empty digest should verify false")
	}
}
