package adapter

import (
	"context"

	"quiz-master/internal/domain"
)

// NoopSessionStore satisfies domain.SessionStore for deployments where the
// web layer owns session storage. The cleanup job still runs and reports
// zero sessions removed.
type NoopSessionStore struct{}

// NewNoopSessionStore creates a new NoopSessionStore.
func NewNoopSessionStore() domain.SessionStore {
	return &NoopSessionStore{}
}

// CleanupExpired implements domain.SessionStore.
func (s *NoopSessionStore) CleanupExpired(ctx context.Context) (int, error) {
	return 0, nil
}
