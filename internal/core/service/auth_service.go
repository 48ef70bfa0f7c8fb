package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/atomconnect/atom-connect-api/internal/api/metrics"
	"github.com/atomconnect/atom-connect-api/internal/auth"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// LoginLimiter abstracts the failed-attempt throttle (Redis).
type LoginLimiter interface {
	// TooMany reports whether the account has exceeded the failure budget.
	TooMany(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, sign-in, and credential maintenance.
type AuthService struct {
	repo       ports.UserRepository
	codec      *auth.Codec
	limiter    LoginLimiter
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec *auth.Codec, limiter LoginLimiter, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, codec: codec, limiter: limiter, bcryptCost: bcryptCost, log: log}
}

// Register creates a self-service account. Only freelancer and organization
// roles may self-register; admins and maintainers are provisioned through
// the user management API. Organizations must register with a corporate
// email domain and start in the PENDING review state.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Role != domain.RoleFreelancer && in.Role != domain.RoleOrganization {
		return nil, domain.ErrInvalidRole
	}

	if in.Role == domain.RoleOrganization && !domain.IsCorporateEmailDomain(in.Email) {
		return nil, domain.ErrPersonalEmailDomain
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

	switch in.Role {
	case domain.RoleFreelancer:
		user.Freelancer = &domain.FreelancerProfile{Location: in.Location}
	case domain.RoleOrganization:
		user.Organization = &domain.OrganizationProfile{
			CompanyName:  in.CompanyName,
			Website:      in.Website,
			Location:     in.Location,
			EmailDomain:  domain.EmailDomain(in.Email),
			Verification: domain.VerificationPending,
		}
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(in.Role)).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login verifies credentials and returns a signed session token. Unknown
// email, wrong password, and deactivated account all surface the same
// domain.ErrInvalidCredentials so the endpoint cannot be used to probe
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooMany(ctx, email)
		if err != nil {
			// The throttle is advisory; a Redis outage must not lock
			// everyone out.
			s.log.Warn().Err(err).Msg("login limiter check failed")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("login limiter record failed")
	}
}

// ChangePassword rotates the caller's own password. The current password
// must match, the new password must differ from it, and the confirmation
// must match the new password.
func (s *AuthService) ChangePassword(ctx context.Context, actor ports.Actor, in ports.ChangePasswordInput) error {
	if in.New != in.Confirm {
		return domain.ErrPasswordMismatch
	}
	if in.New == in.Current {
		return domain.ErrSamePassword
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

// OAuthLogin signs in a user asserted by an OAuth provider, provisioning a
// FREELANCER account on first login. The stored password hash is random so
// the account cannot be entered through the credential endpoint until the
// owner sets a password.
func (s *AuthService) OAuthLogin(ctx context.Context, in ports.OAuthInput) (string, *domain.User, error) {
	if in.Email == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.provisionOAuthUser(ctx, in)
	}
	if err != nil {
		return "", nil, err
	}
	if !user.Active {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("oauth").Inc()
	return token, user, nil
}

func (s *AuthService) provisionOAuthUser(ctx context.Context, in ports.OAuthInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:           in.Email,
		PasswordHash:    string(hash),
		Name:            in.Name,
		Role:            domain.RoleFreelancer,
		Active:          true,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
		Freelancer:      &domain.FreelancerProfile{},
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(domain.RoleFreelancer)).Inc()
	s.log.Info().Str("user_id", created.ID).Msg("oauth user provisioned")
	return created, nil
}
