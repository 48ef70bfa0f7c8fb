package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// RegisterInput carries a self-service registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
	// Organization-only fields.
	CompanyName string
	Website     string
	Location    string
}

// ChangePasswordInput carries a password change for the authenticated user.
type ChangePasswordInput struct {
	Current string
	New     string
	Confirm string
}

// OAuthInput carries the identity asserted by an OAuth provider.
type OAuthInput struct {
	Email string
	Name  string
}

// AuthService implements registration, sign-in, and credential maintenance.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed session token on success. Every failure mode
	// surfaces domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ChangePassword(ctx context.Context, actor Actor, in ChangePasswordInput) error
	// OAuthLogin signs in or provisions a user asserted by an OAuth
	// provider. First-time users default to the FREELANCER role.
	OAuthLogin(ctx context.Context, in OAuthInput) (string, *domain.User, error)
}
