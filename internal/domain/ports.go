package domain

import "context"

// TransactionManager runs a function inside a datastore transaction.
// Repositories called within fn pick the transaction up from the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier is the external delivery capability (email or message transport).
// The core hands it pre-rendered bodies and never inspects transport details.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SessionStore is the external session management collaborator. The core only
// invokes its cleanup capability from the housekeeping job.
type SessionStore interface {
	// CleanupExpired removes expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)
}
