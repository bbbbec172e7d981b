package middleware

import (
	"net/http"
	"strings"

	"github.com/accountd/accountd/internal/api/http/handler"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/model"
)

// TokenParser resolves a caller identity from a bearer token.
type TokenParser interface {
	Parse(token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the caller identity
// into the request context.
type Authenticate struct {
	tokens         TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, verifies the token and passes
// the request on with the identity set. A missing header and a bad token
// map to distinct error kinds so the response body tells them apart.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			handler.WriteError(w, m.logger, model.ErrAuthenticationMissing)
			return
		}

		identity, err := m.tokens.Parse(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			m.logger.Debug("Authenticate middleware: token rejected",
				"error", err.Error())
			handler.WriteError(w, m.logger, model.ErrAuthenticationInvalid)
			return
		}

		ctx := m.contextManager.SetIdentityToContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
