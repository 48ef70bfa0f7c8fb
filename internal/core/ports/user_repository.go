package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// UserFilter carries all query parameters for listing users.
type UserFilter struct {
	Role         domain.Role               // optional: restrict to one role
	Verification domain.VerificationStatus // optional: organizations only
	Search       string                    // optional: partial match on name or email
	Active       *bool                     // optional: tri-state active filter
	Page         int                       // 1-based
	Limit        int                       // capped by the service layer
}

// UserRepository defines persistence operations for identities and their
// embedded role-scoped profiles.
type UserRepository interface {
	// Create inserts a new user. A duplicate email maps to domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Update replaces mutable identity fields and the role-scoped profile
	// in a single document write, keeping role and profile in agreement.
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	// SetActive flips the active flag on the given ids and returns how many
	// documents matched. Repeating the call is idempotent.
	SetActive(ctx context.Context, ids []string, active bool) (int64, error)
	// SetVerification moves organization profiles to the given review state.
	SetVerification(ctx context.Context, ids []string, status domain.VerificationStatus) (int64, error)
	// DeleteCascade removes the user together with owned trainings and
	// authored feedback inside one transaction, so a partial failure never
	// leaves orphaned rows.
	DeleteCascade(ctx context.Context, id string) error
}
