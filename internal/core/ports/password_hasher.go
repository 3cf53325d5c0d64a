package ports

// PasswordHasher is the one-way credential transform.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. Comparison is constant
	// time with respect to the hash contents.
	Verify(plaintext, hash string) bool
}
