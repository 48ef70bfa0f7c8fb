package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// stubSink collects audit events synchronously.
type stubSink struct {
	events []domain.AuditEvent
}

func (s *stubSink) Enqueue(e domain.AuditEvent) {
	s.events = append(s.events, e)
}

var (
	adminActor      = ports.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	maintainerActor = ports.Actor{ID: "maint-1", Role: domain.RoleMaintainer}
	orgActor        = ports.Actor{ID: "org-1", Role: domain.RoleOrganization}
	freelancerActor = ports.Actor{ID: "free-1", Role: domain.RoleFreelancer}
)

func seedUser(repo *stubUserRepo, id string, role domain.Role, active bool) *domain.User {
	u := &domain.User{
		ID:        id,
		Email:     id + "@acme.io",
		Name:      id,
		Role:      role,
		Active:    active,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	switch role {
	case domain.RoleFreelancer:
		u.Freelancer = &domain.FreelancerProfile{}
	case domain.RoleOrganization:
		u.Organization = &domain.OrganizationProfile{
			CompanyName: id, EmailDomain: "acme.io", Verification: domain.VerificationPending,
		}
	case domain.RoleMaintainer:
		u.Maintainer = &domain.MaintainerProfile{}
	case domain.RoleAdmin:
		u.Admin = &domain.AdminProfile{}
	}
	repo.users[id] = u
	return u
}

func newUserService(repo *stubUserRepo, sink ports.AuditSink) *UserService {
	return NewUserService(repo, sink, bcrypt.MinCost, zerolog.Nop())
}

func TestUserService_NonAdminForbiddenAndZeroWrites(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "victim", domain.RoleFreelancer, true)
	svc := newUserService(repo, nil)

	for _, actor := range []ports.Actor{maintainerActor, orgActor, freelancerActor} {
		if _, err := svc.List(context.Background(), actor, ports.UserFilter{}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s List: expected ErrForbidden, got %v", actor.Role, err)
		}
		if _, err := svc.Create(context.Background(), actor, ports.CreateUserInput{
			Name: "X", Email: "x@acme.io", Password: "password1", Role: domain.RoleFreelancer,
		}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s Create: expected ErrForbidden, got %v", actor.Role, err)
		}
		if _, err := svc.BulkAction(context.Background(), actor, []string{"victim"}, ports.UserDeactivate); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s BulkAction: expected ErrForbidden, got %v", actor.Role, err)
		}
		if err := svc.Delete(context.Background(), actor, "victim"); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s Delete: expected ErrForbidden, got %v", actor.Role, err)
		}
	}

	if repo.writes != 0 {
		t.Fatalf("forbidden calls performed %d writes", repo.writes)
	}
	if !repo.users["victim"].Active {
		t.Fatalf("victim was deactivated by a forbidden call")
	}
}

func TestUserService_CreateAttachesProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, nil)

	user, err := svc.Create(context.Background(), adminActor, ports.CreateUserInput{
		Name: "Ops", Email: "ops@acme.io", Password: "password1",
		Role: domain.RoleMaintainer, Department: "platform",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Maintainer == nil || user.Maintainer.Department != "platform" {
		t.Fatalf("maintainer profile not attached: %+v", user)
	}
	if user.Profile() == nil {
		t.Fatalf("role and profile disagree")
	}
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo, nil)

	_, err := svc.Create(context.Background(), adminActor, ports.CreateUserInput{
		Name: "X", Email: "x@acme.io", Password: "password1", Role: "SUPERUSER",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Update_RoleChangeSwapsProfile(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleFreelancer, true)
	svc := newUserService(repo, nil)

	user, err := svc.Update(context.Background(), adminActor, ports.UpdateUserInput{
		ID: "u1", Name: "Promoted", Role: domain.RoleMaintainer, Active: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Freelancer != nil {
		t.Fatalf("old profile survived the role change")
	}
	if user.Maintainer == nil {
		t.Fatalf("new role has no profile")
	}
	if user.Profile() == nil {
		t.Fatalf("role and profile disagree after change")
	}
}

func TestUserService_BulkAction_EmptySet(t *testing.T) {
	svc := newUserService(newStubUserRepo(), nil)

	if _, err := svc.BulkAction(context.Background(), adminActor, nil, ports.UserDeactivate); !errors.Is(err, domain.ErrEmptyBulkSet) {
		t.Fatalf("expected ErrEmptyBulkSet, got %v", err)
	}
}

func TestUserService_BulkAction_UnknownAction(t *testing.T) {
	svc := newUserService(newStubUserRepo(), nil)

	if _, err := svc.BulkAction(context.Background(), adminActor, []string{"u1"}, "explode"); !errors.Is(err, domain.ErrUnknownBulkAction) {
		t.Fatalf("expected ErrUnknownBulkAction, got %v", err)
	}
}

func TestUserService_BulkAction_DeactivateIdempotent(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleFreelancer, true)
	seedUser(repo, "u2", domain.RoleFreelancer, true)
	svc := newUserService(repo, nil)

	first, err := svc.BulkAction(context.Background(), adminActor, []string{"u1", "u2", "ghost"}, ports.UserDeactivate)
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}
	if first.Requested != 3 || first.Matched != 2 {
		t.Fatalf("first run: requested=%d matched=%d", first.Requested, first.Matched)
	}

	second, err := svc.BulkAction(context.Background(), adminActor, []string{"u1", "u2", "ghost"}, ports.UserDeactivate)
	if err != nil {
		t.Fatalf("repeat BulkAction: %v", err)
	}
	if second.Matched != first.Matched {
		t.Fatalf("repeat changed matched count: %d vs %d", second.Matched, first.Matched)
	}
}

func TestUserService_BulkDelete_SkipsMissing(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleFreelancer, true)
	seedUser(repo, "u2", domain.RoleOrganization, true)
	sink := &stubSink{}
	svc := newUserService(repo, sink)

	res, err := svc.BulkAction(context.Background(), adminActor, []string{"u1", "ghost", "u2"}, ports.UserDelete)
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}
	if res.Matched != 2 {
		t.Fatalf("matched = %d, want 2", res.Matched)
	}
	if len(repo.users) != 0 {
		t.Fatalf("users remain after delete: %d", len(repo.users))
	}
	if len(sink.events) != 3 {
		t.Fatalf("expected one audit event per requested id, got %d", len(sink.events))
	}
}

func TestUserService_ListPaginationBounds(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "u1", domain.RoleFreelancer, true)
	svc := newUserService(repo, nil)

	res, err := svc.List(context.Background(), adminActor, ports.UserFilter{Page: -3, Limit: 5000})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Page != 1 {
		t.Fatalf("page = %d, want 1", res.Page)
	}
	if res.Limit != maxPageLimit {
		t.Fatalf("limit = %d, want %d", res.Limit, maxPageLimit)
	}
}
