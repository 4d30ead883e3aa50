package utils

import "golang.org/x/crypto/bcrypt"

// HashSecret returns the bcrypt hash of a short-lived secret such as a
// confirmation code.
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecretHash reports whether secret matches hash.
func CheckSecretHash(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
