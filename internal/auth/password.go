package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt only reads the first 72 bytes of input; longer passwords are
// silently truncated so hashing never fails on length.
const maxPasswordBytes = 72

// HashPassword returns a salted bcrypt digest of password. Two calls with
// the same input produce different digests; both verify.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored digest.
// Malformed digests and mismatches both report false; it never errors.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncate(password)) == nil
}

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
