// Package context carries the verified caller identity through a request
// context.
package context

import (
	"context"

	"github.com/accountd/accountd/internal/model"
)

type ctxKey int

const identityKey ctxKey = iota

// Manager implements model.ContextManager over a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetIdentityToContext returns a context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the identity set by the authentication
// middleware. The second return value is false when no identity was set.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
