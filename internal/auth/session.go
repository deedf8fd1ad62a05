// Package auth tracks the backend session identity for the current
// invocation. The backend holds the real session cookie; this package
// only remembers who the backend said we are so each command can tag
// uploads and journal entries without re-asking per request.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/medseg/scanflow/internal/common"
	"github.com/medseg/scanflow/internal/service"
)

// Identifier resolves the authenticated user from the backend.
type Identifier interface {
	Whoami(ctx context.Context) (*service.Identity, error)
}

// Session caches the resolved identity for the lifetime of one
// invocation. A 401 from any later request surfaces as
// common.ErrSessionExpired and ends the command; the next invocation
// starts with a fresh session. Safe for concurrent use.
type Session struct {
	client   Identifier
	identity service.Identity
	mu       sync.Mutex
	resolved bool
}

// NewSession creates a session backed by the given identity resolver.
func NewSession(client Identifier) *Session {
	return &Session{client: client}
}

// Identity returns the cached identity, resolving it from the backend
// on first use. An unauthenticated response is returned as
// common.ErrSessionExpired so callers route the user to re-login.
func (s *Session) Identity(ctx context.Context) (service.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved {
		return s.identity, nil
	}

	identity, err := s.client.Whoami(ctx)
	if err != nil {
		return service.Identity{}, fmt.Errorf("resolving identity: %w", err)
	}
	if identity == nil || !identity.Authenticated {
		return service.Identity{}, common.ErrSessionExpired
	}

	slog.Debug("resolved backend identity", "username", identity.Username)
	s.identity = *identity
	s.resolved = true
	return s.identity, nil
}

// Username is a convenience wrapper over Identity.
func (s *Session) Username(ctx context.Context) (string, error) {
	identity, err := s.Identity(ctx)
	if err != nil {
		return "", err
	}
	return identity.Username, nil
}
