package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// OrgBulkAction is the action vocabulary for PATCH /v1/organizations.
type OrgBulkAction string

const (
	OrgApprove OrgBulkAction = "approve"
	OrgReject  OrgBulkAction = "reject"
)

// UpdateOrganizationInput carries an organization's own profile update.
type UpdateOrganizationInput struct {
	Name        string
	Phone       string
	CompanyName string
	Website     string
	Location    string
}

// OrganizationService defines operations over organization accounts:
// marketplace listing, self-service profile updates, and the
// ADMIN/MAINTAINER verification workflow.
type OrganizationService interface {
	List(ctx context.Context, actor Actor, filter UserFilter) (*ListUsersResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.User, error)
	// UpdateOwnProfile lets an organization edit its own profile only.
	UpdateOwnProfile(ctx context.Context, actor Actor, in UpdateOrganizationInput) (*domain.User, error)
	// BulkVerify approves or rejects pending organizations and emits one
	// audit event per id.
	BulkVerify(ctx context.Context, actor Actor, ids []string, action OrgBulkAction) (*BulkResult, error)
}

// UpdateFreelancerInput carries a freelancer's own profile update.
type UpdateFreelancerInput struct {
	Name            string
	Phone           string
	Headline        string
	Bio             string
	StackIDs        []string
	Location        string
	YearsExperience int
	HourlyRate      float64
}

// FreelancerService defines the marketplace browse and self-service
// profile operations for freelance trainers.
type FreelancerService interface {
	List(ctx context.Context, actor Actor, filter UserFilter) (*ListUsersResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.User, error)
	UpdateOwnProfile(ctx context.Context, actor Actor, in UpdateFreelancerInput) (*domain.User, error)
}
