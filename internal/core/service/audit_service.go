package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/api/metrics"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService the dispatcher workers invoke
// for every dequeued event.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists one audit event. Failures are returned to the worker for
// logging; the trail is best-effort and never blocks the action it records.
func (s *auditService) Record(ctx context.Context, e domain.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	start := time.Now()
	if err := s.repo.Insert(ctx, &e); err != nil {
		return err
	}
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	metrics.AuditEventsTotal.WithLabelValues(string(e.Outcome)).Inc()

	s.log.Debug().
		Str("entity_kind", e.EntityKind).
		Str("entity_id", e.EntityID).
		Str("action", e.Action).
		Msg("audit event recorded")
	return nil
}
