// Package service defines the ports the auth usecases depend on: hashing,
// token issuance, rate limiting, metrics and out-of-band delivery.
package service

// PasswordHasher turns plaintext passwords into salted one-way digests.
type PasswordHasher interface {
	// Hash returns a salted digest of password.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
