package password

import "golang.org/x/crypto/bcrypt"

// bcrypt cost 12 keeps a single hash in the low hundreds of milliseconds
const hashCost = 12

// Hash derives a bcrypt hash from the plaintext password
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
