// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher turns plaintext passwords into salted one-way hashes.
type PasswordHasher interface {
	// Hash returns a salted hash of password. The plaintext must never be logged.
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash is a mismatch, never a panic.
	Check(password, hash string) bool
}
