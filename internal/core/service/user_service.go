package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/atomconnect/atom-connect-api/internal/api/metrics"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService implements the ADMIN-gated identity management operations.
type UserService struct {
	repo       ports.UserRepository
	audit      ports.AuditSink
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(repo ports.UserRepository, audit ports.AuditSink, bcryptCost int, log zerolog.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, audit: audit, bcryptCost: bcryptCost, log: log}
}

// normalizePage clamps pagination parameters to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *UserService) List(ctx context.Context, actor ports.Actor, filter ports.UserFilter) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}

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

func (s *UserService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// Create provisions a user with any role, including ADMIN and MAINTAINER
// which are excluded from self-registration.
func (s *UserService) Create(ctx context.Context, actor ports.Actor, in ports.CreateUserInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	attachEmptyProfile(user, in)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(in.Role)).Inc()
	s.emit(actor, "user", created.ID, "create", domain.AuditApplied)
	return created, nil
}

// attachEmptyProfile sets the role-scoped profile matching the role so the
// profile/role agreement invariant holds from creation.
func attachEmptyProfile(user *domain.User, in ports.CreateUserInput) {
	switch user.Role {
	case domain.RoleFreelancer:
		user.Freelancer = &domain.FreelancerProfile{}
	case domain.RoleOrganization:
		user.Organization = &domain.OrganizationProfile{
			CompanyName:  in.CompanyName,
			EmailDomain:  domain.EmailDomain(user.Email),
			Verification: domain.VerificationPending,
		}
	case domain.RoleMaintainer:
		user.Maintainer = &domain.MaintainerProfile{Department: in.Department}
	case domain.RoleAdmin:
		user.Admin = &domain.AdminProfile{}
	}
}

// Update applies a full identity update. When the role changes, the old
// profile is dropped and a fresh profile for the new role is attached in
// the same repository write, so role and profile can never disagree.
func (s *UserService) Update(ctx context.Context, actor ports.Actor, in ports.UpdateUserInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if user.Role != in.Role {
		user.Freelancer, user.Organization, user.Maintainer, user.Admin = nil, nil, nil, nil
		user.Role = in.Role
		attachEmptyProfile(user, ports.CreateUserInput{})
	}
	user.Name = in.Name
	user.Phone = in.Phone
	user.Active = in.Active
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.emit(actor, "user", user.ID, "update", domain.AuditApplied)
	return user, nil
}

// BulkAction applies one state transition to a set of user ids. Repeating
// activate/deactivate is idempotent; matched counts reflect documents that
// existed, not documents that changed.
func (s *UserService) BulkAction(ctx context.Context, actor ports.Actor, ids []string, action ports.UserBulkAction) (*ports.BulkResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBulkSet
	}

	var matched int64
	var err error
	switch action {
	case ports.UserActivate:
		matched, err = s.repo.SetActive(ctx, ids, true)
	case ports.UserDeactivate:
		matched, err = s.repo.SetActive(ctx, ids, false)
	case ports.UserDelete:
		matched, err = s.deleteAll(ctx, ids)
	default:
		return nil, domain.ErrUnknownBulkAction
	}
	if err != nil {
		return nil, err
	}

	metrics.BulkActionsTotal.WithLabelValues("user", string(action)).Inc()
	for _, id := range ids {
		s.emit(actor, "user", id, string(action), domain.AuditApplied)
	}
	return &ports.BulkResult{Requested: len(ids), Matched: matched}, nil
}

// deleteAll cascades each user delete inside its own transaction. A user
// that is already gone does not abort the rest of the batch.
func (s *UserService) deleteAll(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	for _, id := range ids {
		switch err := s.repo.DeleteCascade(ctx, id); err {
		case nil:
			deleted++
		case domain.ErrUserNotFound:
			continue
		default:
			return deleted, err
		}
	}
	return deleted, nil
}

func (s *UserService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.emit(actor, "user", id, "delete", domain.AuditApplied)
	return nil
}

func (s *UserService) emit(actor ports.Actor, kind, id, action string, outcome domain.AuditOutcome) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		EntityKind: kind,
		EntityID:   id,
		Action:     action,
		Outcome:    outcome,
		Timestamp:  time.Now().UTC(),
	})
}
