package crypto

import "golang.org/x/crypto/bcrypt"

// bcryptCost is pinned above the library default; password hashing must stay
// deliberately expensive.
const bcryptCost = 12

// HashPassword hashes plaintext using bcrypt.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
}

// ComparePassword compares plaintext to hashed secret.
func ComparePassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
