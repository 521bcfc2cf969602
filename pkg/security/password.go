package security

import (
	"github.com/matthewhartstonge/argon2"
)

// argon holds the process-wide hashing configuration. The work factor is
// fixed so digests created by different instances stay comparable.
var argon = argon2.DefaultConfig()

// HashPassword derives a one-way digest from the given plaintext password.
// The returned value is the full encoded form including salt and parameters.
func HashPassword(password string) (string, error) {
	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the plaintext password matches the encoded
// digest. An empty digest (e.g. an OAuth-only account) never matches and is
// rejected without running the hash function.
func VerifyPassword(password, digest string) (bool, error) {
	if digest == "" {
		return false, nil
	}

	return argon2.VerifyEncoded([]byte(password), []byte(digest))
}
