package model

import "context"

// PasswordHasher produces and verifies one-way password digests.
type PasswordHasher interface {
	// Hash produces a salted digest of the plaintext. Two calls on the
	// same plaintext yield different digests.
	Hash(ctx context.Context, plaintext string) (string, error)
	// Compare reports whether plaintext matches the stored digest. A
	// malformed digest fails closed and reports false.
	Compare(ctx context.Context, plaintext, digest string) bool
}
