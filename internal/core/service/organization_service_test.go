package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

func TestOrganizationService_List_StaffOnly(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "org-1", domain.RoleOrganization, true)
	seedUser(repo, "free-1", domain.RoleFreelancer, true)
	svc := NewOrganizationService(repo, nil, zerolog.Nop())

	for _, actor := range []ports.Actor{adminActor, maintainerActor} {
		res, err := svc.List(context.Background(), actor, ports.UserFilter{})
		if err != nil {
			t.Fatalf("%s List: %v", actor.Role, err)
		}
		for _, u := range res.Items {
			if u.Role != domain.RoleOrganization {
				t.Fatalf("listed a %s", u.Role)
			}
		}
	}

	for _, actor := range []ports.Actor{orgActor, freelancerActor} {
		if _, err := svc.List(context.Background(), actor, ports.UserFilter{}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s List: expected ErrForbidden, got %v", actor.Role, err)
		}
	}
}

func TestOrganizationService_Get_SelfOrStaff(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "org-1", domain.RoleOrganization, true)
	seedUser(repo, "org-2", domain.RoleOrganization, true)
	seedUser(repo, "free-1", domain.RoleFreelancer, true)
	svc := NewOrganizationService(repo, nil, zerolog.Nop())

	if _, err := svc.Get(context.Background(), orgActor, "org-1"); err != nil {
		t.Fatalf("self read: %v", err)
	}
	if _, err := svc.Get(context.Background(), orgActor, "org-2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("cross-org read: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), maintainerActor, "org-2"); err != nil {
		t.Fatalf("staff read: %v", err)
	}
	// A non-organization id reads as not found, not as a leak.
	if _, err := svc.Get(context.Background(), adminActor, "free-1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for wrong role, got %v", err)
	}
}

func TestOrganizationService_UpdateOwnProfile_ResubmitClearsRejection(t *testing.T) {
	repo := newStubUserRepo()
	org := seedUser(repo, "org-1", domain.RoleOrganization, true)
	org.Organization.Verification = domain.VerificationRejected
	svc := NewOrganizationService(repo, nil, zerolog.Nop())

	updated, err := svc.UpdateOwnProfile(context.Background(), orgActor, ports.UpdateOrganizationInput{
		Name: "Acme", CompanyName: "Acme GmbH", Website: "https://acme.io",
	})
	if err != nil {
		t.Fatalf("UpdateOwnProfile: %v", err)
	}
	if updated.Organization.Verification != domain.VerificationPending {
		t.Fatalf("resubmission should return to PENDING, got %s", updated.Organization.Verification)
	}
	if updated.Organization.CompanyName != "Acme GmbH" {
		t.Fatalf("company name not updated")
	}
}

func TestOrganizationService_UpdateOwnProfile_VerifiedStaysVerified(t *testing.T) {
	repo := newStubUserRepo()
	org := seedUser(repo, "org-1", domain.RoleOrganization, true)
	org.Organization.Verification = domain.VerificationVerified
	svc := NewOrganizationService(repo, nil, zerolog.Nop())

	updated, err := svc.UpdateOwnProfile(context.Background(), orgActor, ports.UpdateOrganizationInput{
		Name: "Acme", CompanyName: "Acme GmbH",
	})
	if err != nil {
		t.Fatalf("UpdateOwnProfile: %v", err)
	}
	if updated.Organization.Verification != domain.VerificationVerified {
		t.Fatalf("profile edit must not reset a verified organization")
	}
}

func TestOrganizationService_BulkVerify(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(repo, "org-1", domain.RoleOrganization, true)
	seedUser(repo, "org-2", domain.RoleOrganization, true)
	sink := &stubSink{}
	svc := NewOrganizationService(repo, sink, zerolog.Nop())

	res, err := svc.BulkVerify(context.Background(), maintainerActor, []string{"org-1", "org-2", "ghost"}, ports.OrgApprove)
	if err != nil {
		t.Fatalf("BulkVerify: %v", err)
	}
	if res.Requested != 3 || res.Matched != 2 {
		t.Fatalf("requested=%d matched=%d", res.Requested, res.Matched)
	}
	if repo.users["org-1"].Organization.Verification != domain.VerificationVerified {
		t.Fatalf("org-1 not verified")
	}
	if len(sink.events) != 3 {
		t.Fatalf("expected one audit event per id, got %d", len(sink.events))
	}

	if _, err := svc.BulkVerify(context.Background(), maintainerActor, nil, ports.OrgApprove); !errors.Is(err, domain.ErrEmptyBulkSet) {
		t.Fatalf("expected ErrEmptyBulkSet, got %v", err)
	}
	if _, err := svc.BulkVerify(context.Background(), maintainerActor, []string{"org-1"}, "promote"); !errors.Is(err, domain.ErrUnknownBulkAction) {
		t.Fatalf("expected ErrUnknownBulkAction, got %v", err)
	}
	if _, err := svc.BulkVerify(context.Background(), orgActor, []string{"org-1"}, ports.OrgReject); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for organization actor, got %v", err)
	}
}

func TestOrganizationService_BulkVerify_EnforcesReviewStateMachine(t *testing.T) {
	repo := newStubUserRepo()
	org := seedUser(repo, "org-1", domain.RoleOrganization, true)
	org.Organization.Verification = domain.VerificationVerified
	sink := &stubSink{}
	svc := NewOrganizationService(repo, sink, zerolog.Nop())

	// VERIFIED has no outgoing transitions; a reject request must be
	// skipped and recorded as failed, not applied.
	res, err := svc.BulkVerify(context.Background(), adminActor, []string{"org-1"}, ports.OrgReject)
	if err != nil {
		t.Fatalf("BulkVerify: %v", err)
	}
	if res.Requested != 1 || res.Matched != 0 {
		t.Fatalf("requested=%d matched=%d", res.Requested, res.Matched)
	}
	if got := repo.users["org-1"].Organization.Verification; got != domain.VerificationVerified {
		t.Fatalf("verified organization was moved to %s", got)
	}
	if len(sink.events) != 1 || sink.events[0].Outcome != domain.AuditFailed {
		t.Fatalf("expected one failed audit event, got %+v", sink.events)
	}

	// Re-approving an already verified organization is an idempotent no-op.
	sink.events = nil
	res, err = svc.BulkVerify(context.Background(), adminActor, []string{"org-1"}, ports.OrgApprove)
	if err != nil {
		t.Fatalf("BulkVerify approve: %v", err)
	}
	if res.Matched != 1 {
		t.Fatalf("re-approval should match, got matched=%d", res.Matched)
	}
	if len(sink.events) != 1 || sink.events[0].Outcome != domain.AuditApplied {
		t.Fatalf("expected one applied audit event, got %+v", sink.events)
	}
}
