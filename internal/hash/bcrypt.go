package hash

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/accountd/accountd/internal/model"
)

var _ model.PasswordHasher = (*Bcrypt)(nil)

// Bcrypt implements PasswordHasher using the bcrypt KDF. Hashing is
// CPU-bound, so concurrent work is capped with a weighted semaphore sized
// to the number of CPUs: a burst of logins degrades into a queue instead
// of starving unrelated requests.
type Bcrypt struct {
	cost int
	sem  *semaphore.Weighted
}

// NewBcrypt creates a bcrypt hasher with the given work factor. Costs
// outside the bcrypt range fall back to the package default.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash produces a salted bcrypt digest of the plaintext.
func (b *Bcrypt) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire hash slot: %w", err)
	}
	defer b.sem.Release(1)

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Compare reports whether plaintext matches digest. Comparison is
// constant-time inside bcrypt; a malformed digest fails closed.
func (b *Bcrypt) Compare(ctx context.Context, plaintext, digest string) bool {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer b.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
