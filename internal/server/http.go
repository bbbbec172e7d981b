package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/accountd/accountd/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer wraps net/http with listener injection and graceful
// shutdown.
type HTTPServer struct {
	srv  *http.Server
	addr string
}

// NewHTTPServer creates an HTTP server serving handler on addr.
func NewHTTPServer(handler http.Handler, addr string) *HTTPServer {
	return &HTTPServer{
		srv:  &http.Server{Handler: handler},
		addr: addr,
	}
}

// Start listens through the security layer and serves until Stop is
// called. A closed-server error is not reported as a failure.
func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.addr
}
