package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost fixes the hashing work factor. bcrypt embeds a fresh random
// salt in every hash, so two hashes of the same password never match.
const bcryptCost = 10

// HashPassword derives a salted bcrypt hash from the plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// Comparison is constant-time and fails closed: a malformed hash yields
// false rather than an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
