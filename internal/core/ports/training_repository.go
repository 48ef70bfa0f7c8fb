package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// TrainingFilter carries all query parameters for listing trainings.
// OwnerID and Status are enforced by the service layer: non-owner roles
// only ever see PUBLISHED trainings.
type TrainingFilter struct {
	OwnerID    string                // optional: scope to one freelancer
	Status     domain.TrainingStatus // optional
	CategoryID string                // optional
	StackID    string                // optional: trainings tagged with this stack
	Mode       domain.TrainingMode   // optional
	Search     string                // optional: partial match on title
	Page       int
	Limit      int
}

// TrainingRepository defines persistence operations for trainings and
// their feedback.
type TrainingRepository interface {
	Create(ctx context.Context, t *domain.Training) (*domain.Training, error)
	FindByID(ctx context.Context, id string) (*domain.Training, error)
	Update(ctx context.Context, t *domain.Training) error
	List(ctx context.Context, filter TrainingFilter) ([]*domain.Training, int64, error)
	// FindByIDs returns the subset of the given ids that exist, optionally
	// restricted to one owner.
	FindByIDs(ctx context.Context, ids []string, ownerID string) ([]*domain.Training, error)
	// SetStatus updates the status of the given ids and returns how many
	// documents matched.
	SetStatus(ctx context.Context, ids []string, status domain.TrainingStatus) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	CountByCategory(ctx context.Context, categoryID string) (int64, error)
	CountByStack(ctx context.Context, stackID string) (int64, error)
	CountByLocation(ctx context.Context, name string) (int64, error)

	AddFeedback(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, trainingID string) ([]*domain.Feedback, error)
}
