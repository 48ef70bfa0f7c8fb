package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// AuditRepository persists the administrative audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEvent) error
}

// AuditService processes audit events dequeued by the dispatcher workers.
type AuditService interface {
	Record(ctx context.Context, e domain.AuditEvent) error
}

// AuditSink is the write side used by services that emit audit events.
// The queue dispatcher implements it; a nil-safe no-op is used in tests.
type AuditSink interface {
	Enqueue(e domain.AuditEvent)
}
