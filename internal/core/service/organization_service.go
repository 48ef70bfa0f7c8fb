package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/api/metrics"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// OrganizationService implements organization listing, self-service profile
// updates, and the verification workflow.
type OrganizationService struct {
	repo  ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewOrganizationService(repo ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *OrganizationService {
	return &OrganizationService{repo: repo, audit: audit, log: log}
}

func (s *OrganizationService) List(ctx context.Context, actor ports.Actor, filter ports.UserFilter) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer); err != nil {
		return nil, err
	}

	filter.Role = domain.RoleOrganization
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Get returns one organization. Admins and maintainers may read any;
// an organization may read itself.
func (s *OrganizationService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	if actor.Role != domain.RoleOrganization || actor.ID != id {
		if err := domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleOrganization {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateOwnProfile lets an organization edit its own profile. The review
// state is not touchable here; a rejected organization resubmitting moves
// back to PENDING.
func (s *OrganizationService) UpdateOwnProfile(ctx context.Context, actor ports.Actor, in ports.UpdateOrganizationInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.RoleOrganization); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Organization == nil {
		return nil, domain.ErrProfileNotFound
	}

	user.Name = in.Name
	user.Phone = in.Phone
	user.Organization.CompanyName = in.CompanyName
	user.Organization.Website = in.Website
	user.Organization.Location = in.Location
	if user.Organization.Verification == domain.VerificationRejected {
		user.Organization.Verification = domain.VerificationPending
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BulkVerify approves or rejects a set of organizations. Each id is checked
// against the review state machine; ids that are unknown, not organizations,
// or in a state that cannot reach the requested status are skipped and
// recorded in the audit trail as failed.
func (s *OrganizationService) BulkVerify(ctx context.Context, actor ports.Actor, ids []string, action ports.OrgBulkAction) (*ports.BulkResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBulkSet
	}

	var status domain.VerificationStatus
	switch action {
	case ports.OrgApprove:
		status = domain.VerificationVerified
	case ports.OrgReject:
		status = domain.VerificationRejected
	default:
		return nil, domain.ErrUnknownBulkAction
	}

	eligible := make([]string, 0, len(ids))
	for _, id := range ids {
		user, err := s.repo.FindByID(ctx, id)
		if err != nil || user.Organization == nil || !user.Organization.Verification.CanTransitionTo(status) {
			s.emit(actor, id, string(action), domain.AuditFailed)
			continue
		}
		eligible = append(eligible, id)
	}

	var matched int64
	if len(eligible) > 0 {
		var err error
		matched, err = s.repo.SetVerification(ctx, eligible, status)
		if err != nil {
			return nil, err
		}
		for _, id := range eligible {
			s.emit(actor, id, string(action), domain.AuditApplied)
		}
	}

	metrics.BulkActionsTotal.WithLabelValues("organization", string(action)).Inc()
	s.log.Info().Int("requested", len(ids)).Int64("matched", matched).Str("action", string(action)).Msg("organizations reviewed")
	return &ports.BulkResult{Requested: len(ids), Matched: matched}, nil
}

func (s *OrganizationService) emit(actor ports.Actor, id, action string, outcome domain.AuditOutcome) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		EntityKind: "organization",
		EntityID:   id,
		Action:     action,
		Outcome:    outcome,
		Timestamp:  time.Now().UTC(),
	})
}
