package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// FreelancerService implements the marketplace browse over freelance
// trainers and their self-service profile updates.
type FreelancerService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewFreelancerService(repo ports.UserRepository, log zerolog.Logger) *FreelancerService {
	return &FreelancerService{repo: repo, log: log}
}

// List is the marketplace browse: organizations shopping for trainers plus
// the back-office roles. Freelancers do not browse each other.
func (s *FreelancerService) List(ctx context.Context, actor ports.Actor, filter ports.UserFilter) (*ports.ListUsersResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer, domain.RoleOrganization); err != nil {
		return nil, err
	}

	filter.Role = domain.RoleFreelancer
	// Only active freelancers are browsable.
	active := true
	filter.Active = &active
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

// Get returns one freelancer. Browsing roles may read any; a freelancer
// may read itself.
func (s *FreelancerService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.User, error) {
	if actor.Role != domain.RoleFreelancer || actor.ID != id {
		if err := domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer, domain.RoleOrganization); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleFreelancer {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateOwnProfile lets a freelancer edit its own marketplace profile.
func (s *FreelancerService) UpdateOwnProfile(ctx context.Context, actor ports.Actor, in ports.UpdateFreelancerInput) (*domain.User, error) {
	if err := domain.Authorize(actor.Role, domain.RoleFreelancer); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if user.Freelancer == nil {
		return nil, domain.ErrProfileNotFound
	}

	user.Name = in.Name
	user.Phone = in.Phone
	user.Freelancer.Headline = in.Headline
	user.Freelancer.Bio = in.Bio
	user.Freelancer.StackIDs = in.StackIDs
	user.Freelancer.Location = in.Location
	user.Freelancer.YearsExperience = in.YearsExperience
	user.Freelancer.HourlyRate = in.HourlyRate
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
