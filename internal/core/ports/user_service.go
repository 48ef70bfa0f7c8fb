package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// UserBulkAction is the action vocabulary for PATCH /v1/users.
type UserBulkAction string

const (
	UserActivate   UserBulkAction = "activate"
	UserDeactivate UserBulkAction = "deactivate"
	UserDelete     UserBulkAction = "delete"
)

// CreateUserInput carries an admin-provisioned user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
	// Role-scoped profile fields; only the set matching Role is used.
	CompanyName string
	Department  string
}

// UpdateUserInput carries a full identity update. Role changes swap the
// role-scoped profile in the same write.
type UpdateUserInput struct {
	ID     string
	Name   string
	Phone  string
	Role   domain.Role
	Active bool
}

// BulkResult reports how many entities a bulk action touched.
type BulkResult struct {
	Requested int   `json:"requested"`
	Matched   int64 `json:"matched"`
}

// ListUsersResult is a page of users plus pagination metadata.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines the ADMIN-gated identity management operations.
type UserService interface {
	List(ctx context.Context, actor Actor, filter UserFilter) (*ListUsersResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.User, error)
	Create(ctx context.Context, actor Actor, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor Actor, in UpdateUserInput) (*domain.User, error)
	// BulkAction applies one state transition to a set of user ids and
	// emits one audit event per id.
	BulkAction(ctx context.Context, actor Actor, ids []string, action UserBulkAction) (*BulkResult, error)
	Delete(ctx context.Context, actor Actor, id string) error
}
